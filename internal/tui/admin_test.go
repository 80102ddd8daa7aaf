package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func fillAdmin(m adminModel, values ...string) adminModel {
	for i, v := range values {
		m.fields[adminField(i)] = v
	}
	return m
}

func TestAdminProductRequiredFields(t *testing.T) {
	m := fillAdmin(newAdminModel(&fakeAPI{}), "SKU-1", "")
	m, cmd := m.Update(special(tea.KeyCtrlS))
	if cmd != nil {
		t.Error("missing name should not call the API")
	}
	if m.productStatus.text != "Please fill in all required fields" {
		t.Errorf("status = %q", m.productStatus.text)
	}
}

func TestAdminProductInvalidPrice(t *testing.T) {
	for _, price := range []string{"abc", "-3"} {
		m := fillAdmin(newAdminModel(&fakeAPI{}), "SKU-1", "Mug", price)
		m, cmd := m.Update(special(tea.KeyCtrlS))
		if cmd != nil {
			t.Errorf("price %q should be rejected", price)
		}
		if m.productStatus.text != "Base price must be a positive number" {
			t.Errorf("price %q: status = %q", price, m.productStatus.text)
		}
	}
}

func TestAdminCreateProduct(t *testing.T) {
	api := &fakeAPI{}
	m := fillAdmin(newAdminModel(api), "SKU-1", "Mug", "$12.50", "")
	m.focus = fieldInventory

	m, cmd := m.Update(special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on inventory should submit")
	}
	m, _ = m.Update(cmd())

	if len(api.created) != 1 {
		t.Fatalf("created = %v", api.created)
	}
	req := api.created[0]
	if req.SKU != "SKU-1" || req.BasePrice != 12.5 || req.Inventory != 0 {
		t.Errorf("request = %+v", req)
	}
	if m.productStatus.text != `Product "Mug" created successfully!` {
		t.Errorf("status = %q", m.productStatus.text)
	}
	for f := fieldSKU; f <= fieldInventory; f++ {
		if m.fields[f] != "" {
			t.Errorf("field %d not reset: %q", f, m.fields[f])
		}
	}
}

func TestAdminCreateProductError(t *testing.T) {
	api := &fakeAPI{err: errFake}
	m := fillAdmin(newAdminModel(api), "SKU-1", "Mug", "5", "2")
	m, cmd := m.Update(special(tea.KeyCtrlS))
	m, _ = m.Update(cmd())
	if m.productStatus.kind != statusError || m.fields[fieldSKU] != "SKU-1" {
		t.Errorf("status=%+v sku=%q", m.productStatus, m.fields[fieldSKU])
	}
}

func TestAdminCreateTenant(t *testing.T) {
	api := &fakeAPI{}
	m := newAdminModel(api)
	m.focus = fieldTenantName

	for _, r := range "ab" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, cmd := m.Update(special(tea.KeyEnter))
	if cmd != nil {
		t.Error("short tenant name should be rejected")
	}
	if m.tenantStatus.text != "Tenant name must be 3-10 characters" {
		t.Errorf("status = %q", m.tenantStatus.text)
	}

	m, _ = m.Update(keyRunes("c"))
	m, cmd = m.Update(special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected create command")
	}
	m, _ = m.Update(cmd())
	if m.tenantStatus.text != `Tenant "abc" created! Slug: slug-abc` {
		t.Errorf("status = %q", m.tenantStatus.text)
	}
	if m.fields[fieldTenantName] != "" {
		t.Error("tenant field not reset")
	}
	if !strings.Contains(m.View(), "slug-abc") {
		t.Error("view missing tenant slug")
	}
}

func TestAdminTabCyclesFields(t *testing.T) {
	m := newAdminModel(&fakeAPI{})
	for i := 0; i < int(numAdminFields); i++ {
		m, _ = m.Update(special(tea.KeyTab))
	}
	if m.focus != fieldSKU {
		t.Errorf("focus = %d, want wrap to SKU", m.focus)
	}
}
