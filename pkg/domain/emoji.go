package domain

var productEmojis = [...]string{
	"\U0001f4f1",       // phone
	"\U0001f4bb",       // laptop
	"⌚",           // watch
	"\U0001f3a7",       // headphones
	"\U0001f4f7",       // camera
	"\U0001f5a5️", // desktop
	"⌨️",     // keyboard
	"\U0001f5b1️", // mouse
	"\U0001f3ae",       // controller
	"\U0001f4fa",       // tv
}

// ProductEmoji picks a decorative emoji for a product from the sum of the
// UTF-16 code units of its name.
func ProductEmoji(name string) string {
	sum := 0
	for _, r := range name {
		if r >= 0x10000 {
			// surrogate pair
			r -= 0x10000
			sum += 0xD800 + int(r>>10)
			sum += 0xDC00 + int(r&0x3FF)
			continue
		}
		sum += int(r)
	}
	return productEmojis[sum%len(productEmojis)]
}
