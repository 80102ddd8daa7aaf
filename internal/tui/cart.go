package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
)

// copyText writes to the system clipboard. Tests replace it.
var copyText = clipboard.WriteAll

type cartLoadedMsg struct {
	cart *domain.Cart
	err  error
}

type cartUpdatedMsg struct {
	err error
}

type orderPlacedMsg struct {
	order *domain.Order
	err   error
}

type cartModel struct {
	api     API
	cart    *domain.Cart
	cursor  int
	loading bool
	err     string
	placing bool
	order   *domain.Order
	status  status
	browse  bool // continue shopping requested
	width   int
}

func newCartModel(api API) cartModel {
	return cartModel{api: api}
}

func (m cartModel) reload() (cartModel, tea.Cmd) {
	m.loading = true
	m.err = ""
	api := m.api
	return m, func() tea.Msg {
		cart, err := api.GetCart(context.Background())
		return cartLoadedMsg{cart: cart, err: err}
	}
}

func (m cartModel) Update(msg tea.Msg) (cartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cartLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err, "Failed to load cart. Please try again.")
			return m, nil
		}
		m.cart = msg.cart
		if n := len(m.items()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil

	case cartUpdatedMsg:
		if msg.err != nil {
			m.status = status{statusError, client.Message(msg.err, "Failed to update quantity")}
			return m, nil
		}
		m.status = status{statusSuccess, "Cart updated"}
		return m.reload()

	case orderPlacedMsg:
		m.placing = false
		if msg.err != nil {
			m.status = status{statusError, client.Message(msg.err, "Failed to place order. Please try again.")}
			return m, nil
		}
		m.order = msg.order
		m.cart = nil
		m.cursor = 0
		m.status = status{statusSuccess, "Order placed successfully!"}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m cartModel) updateKeys(msg tea.KeyMsg) (cartModel, tea.Cmd) {
	key := msg.String()
	m.status = status{}

	if m.order != nil {
		switch key {
		case "c":
			if err := copyText(m.order.ID); err != nil {
				m.status = status{statusError, "Could not copy to clipboard"}
			} else {
				m.status = status{statusSuccess, "Order ID copied"}
			}
		case "enter", "esc", "b":
			m.order = nil
			m.browse = true
		}
		return m, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "+", "=", "right":
		return m.changeQuantity(1)
	case "-", "left":
		return m.changeQuantity(-1)
	case "p":
		return m.placeOrder()
	case "b":
		m.browse = true
	case "R":
		return m.reload()
	}
	return m, nil
}

// changeQuantity sends the new absolute quantity for the selected item.
// Quantities below one are ignored.
func (m cartModel) changeQuantity(delta int) (cartModel, tea.Cmd) {
	items := m.items()
	if m.cursor >= len(items) {
		return m, nil
	}
	item := items[m.cursor]
	qty := item.Quantity + delta
	if qty < 1 {
		return m, nil
	}
	api := m.api
	return m, func() tea.Msg {
		_, err := api.AddToCart(context.Background(), item.SKU, qty)
		return cartUpdatedMsg{err: err}
	}
}

func (m cartModel) placeOrder() (cartModel, tea.Cmd) {
	if m.placing || m.cart.IsEmpty() {
		return m, nil
	}
	m.placing = true
	key := uuid.NewString()
	api := m.api
	return m, func() tea.Msg {
		order, err := api.PlaceOrder(context.Background(), key)
		return orderPlacedMsg{order: order, err: err}
	}
}

func (m cartModel) items() []domain.CartItem {
	if m.cart == nil {
		return nil
	}
	return m.cart.Items
}

func (m cartModel) View() string {
	if m.order != nil {
		return m.orderView()
	}
	if m.loading && m.cart == nil {
		return " " + dimStyle.Render("loading cart...")
	}
	if m.err != "" {
		return " " + errorStyle.Render(m.err) + "  " + metaStyle.Render("R to retry")
	}
	if m.cart.IsEmpty() {
		var b strings.Builder
		b.WriteString("\n  🛒 " + titleStyle.Render("Your cart is empty") + "\n\n")
		b.WriteString("  " + dimStyle.Render("Looks like you haven't added any items to your cart yet.") + "\n")
		b.WriteString("  " + metaStyle.Render("b to browse products") + "\n")
		if m.status.text != "" {
			b.WriteString("\n  " + m.status.View() + "\n")
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Shopping Cart") + "\n\n")
	for i, it := range m.cart.Items {
		b.WriteString(m.itemRow(i, it) + "\n")
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("Order Summary") + "\n")
	subtotal := m.cart.DisplaySubtotal()
	b.WriteString(summaryRow(fmt.Sprintf("Items (%d)", m.cart.ItemCount()), formatMoney(subtotal)))
	b.WriteString(summaryRow("Shipping", successStyle.Render("FREE")))
	b.WriteString(summaryRow("Subtotal", formatMoney(subtotal)))
	if m.cart.DiscountAmount > 0 {
		b.WriteString(summaryRow(discountStyle.Render("Discount"), discountStyle.Render("-"+formatMoney(m.cart.DiscountAmount))))
	}
	b.WriteString(summaryRow(selectedStyle.Render("Total"), priceStyle.Render(formatMoney(m.cart.TotalPrice))))

	b.WriteString("\n ")
	if m.placing {
		b.WriteString(dimStyle.Render("placing order..."))
	} else {
		b.WriteString(metaStyle.Render("p to place order"))
	}
	if m.status.text != "" {
		b.WriteString("   " + m.status.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m cartModel) itemRow(i int, it domain.CartItem) string {
	cursor := "  "
	nameStyle := normalStyle
	if i == m.cursor {
		cursor = accentStyle.Render("> ")
		nameStyle = selectedStyle
	}

	price := priceStyle.Render(formatMoney(it.UnitPrice))
	if it.HasDiscount() {
		price = basePriceStyle.Render(formatMoney(it.BaseUnitPrice)) + " " + price +
			" " + discountStyle.Render(fmt.Sprintf("%d%% OFF", it.DiscountPercent()))
	}

	row := fmt.Sprintf("%s%s %s %s  %s  %s  %s",
		cursor,
		domain.ProductEmoji(it.Name),
		nameStyle.Render(padRight(truncStr(it.Name, 24), 24)),
		metaStyle.Render(padRight("SKU: "+truncStr(it.SKU, 12), 17)),
		price,
		dimStyle.Render(fmt.Sprintf("- %d +", it.Quantity)),
		priceStyle.Render(formatMoney(it.TotalPrice)),
	)
	if i == m.cursor {
		return selectedRowBg.Render(row)
	}
	return row
}

func summaryRow(label, value string) string {
	return "   " + padRight(label, 14) + " " + value + "\n"
}

func (m cartModel) orderView() string {
	o := m.order
	var b strings.Builder
	b.WriteString("\n  🎉 " + titleStyle.Render("Order Placed Successfully!") + "\n\n")
	b.WriteString("  " + dimStyle.Render("Thank you for your order. Your order ID is:") + "\n")
	b.WriteString("  " + storeBadgeStyle.Render(o.ID) + "\n\n")

	b.WriteString("  " + sectionHeaderStyle.Render("Order Details") + "\n")
	for _, it := range o.Items {
		b.WriteString("   " + padRight(fmt.Sprintf("%s × %d", truncStr(it.Name, 28), it.Quantity), 34) + " " + formatMoney(it.TotalPrice) + "\n")
	}
	b.WriteString("   " + selectedStyle.Render(padRight("Total", 34)) + " " + priceStyle.Render(formatMoney(o.TotalAmount)) + "\n")
	if o.DiscountAmount > 0 {
		b.WriteString("   " + discountStyle.Render(padRight("Discount Applied", 34)) + " " + discountStyle.Render("-"+formatMoney(o.DiscountAmount)) + "\n")
	}

	b.WriteString("\n  " + metaStyle.Render("c copy order ID   enter continue shopping"))
	if m.status.text != "" {
		b.WriteString("   " + m.status.View())
	}
	b.WriteString("\n")
	return b.String()
}
