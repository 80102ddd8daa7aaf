package tui

import "strings"

var features = []struct{ icon, title, desc string }{
	{"🏪", "Multiple stores", "Every store keeps its own catalog, carts and orders"},
	{"🔍", "Smart search", "Filter by name, price range and availability"},
	{"💸", "Automatic discounts", "Bulk discounts are applied at the cart"},
	{"🔒", "Safe checkout", "Orders are idempotent, so retries never double charge"},
}

// homeView renders the landing tab.
func homeView(storeName string, authed bool) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Welcome to ShopPro") + "\n")
	b.WriteString("  " + dimStyle.Render("Multi-tenant shopping, one store at a time.") + "\n\n")

	for _, f := range features {
		b.WriteString("  " + f.icon + " " + selectedStyle.Render(padRight(f.title, 20)) + " " + dimStyle.Render(f.desc) + "\n")
	}
	b.WriteString("\n")

	switch {
	case authed && storeName != "":
		b.WriteString("  " + dimStyle.Render("Shopping at ") + storeBadgeStyle.Render(storeName) + dimStyle.Render(". Press 2 to browse products.") + "\n")
	case authed:
		b.WriteString("  " + dimStyle.Render("Press 2 to browse products.") + "\n")
	default:
		b.WriteString("  " + dimStyle.Render("Press ") + accentStyle.Render("l") + dimStyle.Render(" to sign in or ") +
			accentStyle.Render("r") + dimStyle.Render(" to create an account. Products are open to everyone.") + "\n")
	}
	return b.String()
}
