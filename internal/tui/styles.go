package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// The logo animates with a band of light sweeping across the letters.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

const (
	logoText = "SHOPPRO"
	// sweepFrames is one pass of the shine, including the pause off-screen.
	sweepFrames = 48
)

// renderShimmerLogo renders the logo for frame. Letters rest at deep indigo
// (#2e1f5e) and brighten to violet (#a78bfa) as the shine passes over them.
func renderShimmerLogo(frame int) string {
	n := len(logoText)
	// The band travels from two letters before the word to two after it.
	pos := float64(frame%sweepFrames)/float64(sweepFrames)*float64(n+8) - 4

	var out strings.Builder
	for i := 0; i < n; i++ {
		d := float64(i) - pos
		b := 0.2 + 0.8*math.Exp(-d*d/2.5)

		color := fmt.Sprintf("#%02X%02X%02X",
			clampByte(46+b*(167-46)),
			clampByte(31+b*(139-31)),
			clampByte(94+b*(250-94)))
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(logoText[i : i+1]))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	return int(math.Max(0, math.Min(255, v)))
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a78bfa"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a78bfa")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	basePriceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868")).
			Strikethrough(true)

	discountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474")).
			Bold(true)

	// Status colors
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	stockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3ecce4"))

	outOfStockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	storeBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a78bfa")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))
)

// statusStyle picks the color for a transient status line.
func statusStyle(k statusKind) lipgloss.Style {
	switch k {
	case statusSuccess:
		return successStyle
	case statusWarning:
		return warningStyle
	case statusError:
		return errorStyle
	default:
		return dimStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries given as alternating key, label pairs.
func helpBar(pairs ...string) string {
	entries := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func newHelpItems(webURL string) []helpItem {
	webURL = strings.TrimRight(webURL, "/")
	host := strings.TrimPrefix(strings.TrimPrefix(webURL, "https://"), "http://")
	return []helpItem{
		{"Storefront", host, webURL},
		{"Products", host + "/products", webURL + "/products"},
		{"Cart", host + "/cart", webURL + "/cart"},
		{"Admin", host + "/admin", webURL + "/admin"},
	}
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := titleStyle.Render("S H O P P R O")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Multi-store shopping from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	keys := []struct{ key, desc string }{
		{"1 2 3 4", "Shop, Products, Cart, Admin"},
		{"l / r", "Sign in / Create account"},
		{"o", "Sign out"},
		{"/", "Search products by name"},
		{"+ / -", "Change quantity"},
		{"[ / ]", "Previous / next page"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-12s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Web (enter to open)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-12s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-12s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
