package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
)

type adminField int

const (
	fieldSKU adminField = iota
	fieldName
	fieldBasePrice
	fieldInventory
	fieldTenantName
	numAdminFields
)

type productCreatedMsg struct {
	product *domain.Product
	err     error
}

type tenantCreatedMsg struct {
	tenant *domain.Tenant
	err    error
}

// adminModel holds the product and tenant forms.
type adminModel struct {
	api           API
	fields        [numAdminFields]string
	focus         adminField
	submitting    bool
	productStatus status
	tenantStatus  status
}

func newAdminModel(api API) adminModel {
	return adminModel{api: api}
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.productStatus = status{statusError, client.Message(msg.err, "Failed to create product. Please try again.")}
			return m, nil
		}
		m.productStatus = status{statusSuccess, fmt.Sprintf("Product %q created successfully!", msg.product.Name)}
		for f := fieldSKU; f <= fieldInventory; f++ {
			m.fields[f] = ""
		}
		m.focus = fieldSKU
		return m, nil

	case tenantCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.tenantStatus = status{statusError, client.Message(msg.err, "Failed to create tenant. Please try again.")}
			return m, nil
		}
		m.tenantStatus = status{statusSuccess, fmt.Sprintf("Tenant %q created! Slug: %s", msg.tenant.Name, msg.tenant.TenantSlug)}
		m.fields[fieldTenantName] = ""
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m adminModel) updateKeys(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab", "down":
		m.focus = (m.focus + 1) % numAdminFields
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numAdminFields) % numAdminFields
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus == fieldInventory || m.focus == fieldTenantName {
			return m.submit()
		}
		m.focus++
		return m, nil
	}
	m.fields[m.focus] = editRune(m.fields[m.focus], key)
	return m, nil
}

// submit sends the form the focused field belongs to.
func (m adminModel) submit() (adminModel, tea.Cmd) {
	if m.focus == fieldTenantName {
		return m.submitTenant()
	}
	return m.submitProduct()
}

func (m adminModel) submitProduct() (adminModel, tea.Cmd) {
	m.productStatus = status{}
	sku := strings.TrimSpace(m.fields[fieldSKU])
	name := strings.TrimSpace(m.fields[fieldName])
	priceText := strings.TrimSpace(m.fields[fieldBasePrice])
	if sku == "" || name == "" || priceText == "" {
		m.productStatus = status{statusError, "Please fill in all required fields"}
		return m, nil
	}
	price, err := strconv.ParseFloat(strings.TrimPrefix(priceText, "$"), 64)
	if err != nil || price < 0 {
		m.productStatus = status{statusError, "Base price must be a positive number"}
		return m, nil
	}
	inventory, err := strconv.Atoi(strings.TrimSpace(m.fields[fieldInventory]))
	if err != nil || inventory < 0 {
		inventory = 0
	}

	m.submitting = true
	req := domain.CreateProductRequest{SKU: sku, Name: name, BasePrice: price, Inventory: inventory}
	api := m.api
	return m, func() tea.Msg {
		p, err := api.CreateProduct(context.Background(), req)
		return productCreatedMsg{product: p, err: err}
	}
}

func (m adminModel) submitTenant() (adminModel, tea.Cmd) {
	m.tenantStatus = status{}
	name := strings.TrimSpace(m.fields[fieldTenantName])
	if !domain.ValidTenantName(name) {
		m.tenantStatus = status{statusError, fmt.Sprintf("Tenant name must be %d-%d characters", domain.MinTenantNameLen, domain.MaxTenantNameLen)}
		return m, nil
	}

	m.submitting = true
	api := m.api
	return m, func() tea.Msg {
		t, err := api.CreateTenant(context.Background(), name)
		return tenantCreatedMsg{tenant: t, err: err}
	}
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Admin Panel") + "\n\n")

	b.WriteString(" 📦 " + sectionHeaderStyle.Render("Create Product") + "\n")
	b.WriteString(renderField("SKU *", m.fields[fieldSKU], "e.g., SKU-001", m.focus == fieldSKU, false) + "\n")
	b.WriteString(renderField("Name *", m.fields[fieldName], "e.g., Premium Headphones", m.focus == fieldName, false) + "\n")
	b.WriteString(renderField("Base price *", m.fields[fieldBasePrice], "e.g., 99.99", m.focus == fieldBasePrice, false) + "\n")
	b.WriteString(renderField("Inventory", m.fields[fieldInventory], "0", m.focus == fieldInventory, false) + "\n")
	if m.productStatus.text != "" {
		b.WriteString("  " + m.productStatus.View() + "\n")
	}

	b.WriteString("\n 🏪 " + sectionHeaderStyle.Render("Create Tenant") + "\n")
	b.WriteString(renderField("Store name", m.fields[fieldTenantName], "3-10 characters", m.focus == fieldTenantName, false) + "\n")
	if m.tenantStatus.text != "" {
		b.WriteString("  " + m.tenantStatus.View() + "\n")
	}

	if m.submitting {
		b.WriteString("\n  " + dimStyle.Render("saving..."))
	}
	return b.String()
}
