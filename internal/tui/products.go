package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
)

// defaultPageSize is used when no page size is configured.
const defaultPageSize = 12

type filterInput int

const (
	inputNone filterInput = iota
	inputName
	inputMinPrice
	inputMaxPrice
)

type productsLoadedMsg struct {
	seq  int
	page *domain.ProductPage
	err  error
}

type cartAddedMsg struct {
	sku      string
	quantity int
	err      error
}

type productsModel struct {
	api      API
	pageSize int
	filter   domain.ProductFilter
	page     int
	seq      int // guards against out-of-order responses

	products      []domain.Product
	totalPages    int
	totalElements int
	quantities    map[string]int // per SKU
	cursor        int

	minText string
	maxText string
	editing filterInput
	input   string

	loading bool
	err     string
	status  status
	authed  bool
	width   int
	height  int
}

func newProductsModel(api API, pageSize int) productsModel {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return productsModel{
		api:        api,
		pageSize:   pageSize,
		filter:     domain.DefaultProductFilter(pageSize),
		quantities: make(map[string]int),
	}
}

// reload fetches the current page with the current filter.
func (m productsModel) reload() (productsModel, tea.Cmd) {
	m.seq++
	m.loading = true
	m.err = ""

	f := m.filter
	f.Limit = m.pageSize
	f.Offset = m.page * m.pageSize
	api, seq := m.api, m.seq
	return m, func() tea.Msg {
		page, err := api.ListProducts(context.Background(), f)
		return productsLoadedMsg{seq: seq, page: page, err: err}
	}
}

func (m productsModel) Update(msg tea.Msg) (productsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load products. Please try again."
			return m, nil
		}
		m.products = msg.page.Content
		m.totalPages = max(msg.page.TotalPages, 1)
		m.totalElements = msg.page.TotalElements
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		return m, nil

	case cartAddedMsg:
		if msg.err != nil {
			m.status = status{statusError, client.Message(msg.err, "Failed to add item to cart")}
			return m, nil
		}
		m.status = status{statusSuccess, fmt.Sprintf("Added %d item(s) to cart!", msg.quantity)}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.editing != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m productsModel) updateKeys(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	m.status = status{}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "+", "=", "right":
		if p, ok := m.current(); ok {
			m.quantities[p.SKU] = min(m.quantity(p)+1, p.MaxOrderQuantity())
		}
	case "-", "left":
		if p, ok := m.current(); ok {
			m.quantities[p.SKU] = max(m.quantity(p)-1, 1)
		}
	case "enter", "a":
		return m.addToCart()
	case "/":
		m.editing, m.input = inputName, m.filter.Name
	case "m":
		m.editing, m.input = inputMinPrice, m.minText
	case "M":
		m.editing, m.input = inputMaxPrice, m.maxText
	case "i":
		m.filter.InStock = !m.filter.InStock
		return m.filtersChanged()
	case "s":
		m.filter.SortBy = nextSortField(m.filter.SortBy)
		return m.filtersChanged()
	case "d":
		if m.filter.Direction == domain.Descending {
			m.filter.Direction = domain.Ascending
		} else {
			m.filter.Direction = domain.Descending
		}
		return m.filtersChanged()
	case "x":
		m.filter = domain.DefaultProductFilter(m.pageSize)
		m.minText, m.maxText = "", ""
		return m.filtersChanged()
	case "[":
		if m.page > 0 {
			m.page--
			return m.reload()
		}
	case "]":
		if m.page < m.totalPages-1 {
			m.page++
			return m.reload()
		}
	case "R":
		return m.reload()
	}
	return m, nil
}

func (m productsModel) updateInput(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing, m.input = inputNone, ""
		return m, nil
	case "enter":
		field := m.editing
		value := strings.TrimSpace(m.input)
		m.editing, m.input = inputNone, ""
		switch field {
		case inputName:
			m.filter.Name = value
		case inputMinPrice, inputMaxPrice:
			price, err := parsePrice(value)
			if err != nil {
				m.status = status{statusError, "Price must be a positive number"}
				return m, nil
			}
			if field == inputMinPrice {
				m.filter.MinPrice, m.minText = price, value
			} else {
				m.filter.MaxPrice, m.maxText = price, value
			}
		}
		return m.filtersChanged()
	}
	m.input = editRune(m.input, msg.String())
	return m, nil
}

// filtersChanged returns to the first page and refetches.
func (m productsModel) filtersChanged() (productsModel, tea.Cmd) {
	m.page = 0
	m.cursor = 0
	return m.reload()
}

func (m productsModel) addToCart() (productsModel, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}
	if !m.authed {
		m.status = status{statusWarning, "Please login to add items to cart"}
		return m, nil
	}
	if !p.InStock() {
		m.status = status{statusWarning, "Out of stock"}
		return m, nil
	}
	qty := m.quantity(p)
	api, sku := m.api, p.SKU
	return m, func() tea.Msg {
		_, err := api.AddToCart(context.Background(), sku, qty)
		return cartAddedMsg{sku: sku, quantity: qty, err: err}
	}
}

func (m productsModel) current() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[m.cursor], true
}

func (m productsModel) quantity(p domain.Product) int {
	if q, ok := m.quantities[p.SKU]; ok {
		return q
	}
	return 1
}

func nextSortField(f domain.SortField) domain.SortField {
	for i, s := range domain.SortFields {
		if s == f {
			return domain.SortFields[(i+1)%len(domain.SortFields)]
		}
	}
	return domain.SortFields[0]
}

func (m productsModel) View() string {
	var b strings.Builder

	b.WriteString(" " + m.filterLine() + "\n")
	if m.editing != inputNone {
		label := map[filterInput]string{inputName: "search", inputMinPrice: "min price", inputMaxPrice: "max price"}[m.editing]
		b.WriteString(" " + inputPromptStyle.Render(label+"> ") + normalStyle.Render(m.input) + accentStyle.Render("█") + "\n")
	} else {
		b.WriteString("\n")
	}

	switch {
	case m.loading && len(m.products) == 0:
		b.WriteString(" " + dimStyle.Render("loading products...") + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "  " + metaStyle.Render("R to retry") + "\n")
		return b.String()
	}

	b.WriteString(" " + sectionHeaderStyle.Render(plural(m.totalElements, "product")+" found") + "\n\n")
	if len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("No products match these filters") + "\n")
		return b.String()
	}

	nameWidth := 28
	if m.width > 0 {
		nameWidth = max(m.width-60, 12)
	}
	for i, p := range m.products {
		b.WriteString(m.productRow(i, p, nameWidth) + "\n")
	}

	b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d of %d", m.page+1, max(m.totalPages, 1))))
	if m.status.text != "" {
		b.WriteString("   " + m.status.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m productsModel) productRow(i int, p domain.Product, nameWidth int) string {
	cursor := "  "
	nameStyle := normalStyle
	if i == m.cursor {
		cursor = accentStyle.Render("> ")
		nameStyle = selectedStyle
	}

	stock := outOfStockStyle.Render(padRight("Out of stock", 14))
	if p.InStock() {
		stock = stockStyle.Render(padRight(fmt.Sprintf("%d in stock", p.Inventory), 14))
	}

	qty := metaStyle.Render(fmt.Sprintf("qty %d", m.quantity(p)))
	row := fmt.Sprintf("%s%s %s %s %s %s %s",
		cursor,
		domain.ProductEmoji(p.Name),
		nameStyle.Render(padRight(truncStr(p.Name, nameWidth), nameWidth)),
		metaStyle.Render(padRight(truncStr(p.SKU, 12), 12)),
		priceStyle.Render(padRight(formatMoney(p.Price), 11)),
		stock,
		qty,
	)
	if i == m.cursor {
		return selectedRowBg.Render(row)
	}
	return row
}

func (m productsModel) filterLine() string {
	parts := []string{}
	if m.filter.Name != "" {
		parts = append(parts, accentStyle.Render("name:")+m.filter.Name)
	}
	if m.filter.MinPrice != nil {
		parts = append(parts, accentStyle.Render("min:")+formatMoney(*m.filter.MinPrice))
	}
	if m.filter.MaxPrice != nil {
		parts = append(parts, accentStyle.Render("max:")+formatMoney(*m.filter.MaxPrice))
	}
	if m.filter.InStock {
		parts = append(parts, accentStyle.Render("in stock"))
	}
	dir := "low to high"
	if m.filter.Direction == domain.Descending {
		dir = "high to low"
	}
	parts = append(parts, dimStyle.Render("sort:"+strings.ToLower(string(m.filter.SortBy))+" "+dir))
	return strings.Join(parts, "  ")
}
