package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shoppro/shoppro/pkg/auth"
	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

type authField int

const (
	fieldStore authField = iota
	fieldEmail
	fieldPassword
	numAuthFields
)

type tenantsLoadedMsg struct {
	tenants []domain.Tenant
	err     error
}

type storeCreatedMsg struct {
	tenant *domain.Tenant
	err    error
}

type storeSelectedMsg struct {
	slug string
	err  error
}

type authResultMsg struct {
	result auth.Result
}

// authModel is the sign-in and registration form. The store picker cycles
// through the tenants the API lists; with no tenants a store can be created
// inline.
type authModel struct {
	api  API
	auth Auth

	mode      authMode
	tenants   []domain.Tenant
	selected  string // tenant slug
	loading   bool
	creating  bool
	storeName string

	email    string
	password string
	focus    authField

	submitting bool
	status     status
	done       bool
}

func newAuthModel(api API, a Auth) authModel {
	return authModel{api: api, auth: a}
}

// reset prepares the form for mode with slug preselected and notice shown.
func (m authModel) reset(mode authMode, slug string, notice status) authModel {
	m.mode = mode
	m.selected = slug
	m.email = ""
	m.password = ""
	m.focus = fieldStore
	if slug != "" {
		m.focus = fieldEmail
	}
	m.creating = false
	m.storeName = ""
	m.submitting = false
	m.done = false
	m.status = notice
	return m
}

func (m authModel) Init() tea.Cmd {
	return m.loadTenants()
}

func (m authModel) loadTenants() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		tenants, err := api.ListTenants(context.Background())
		return tenantsLoadedMsg{tenants: tenants, err: err}
	}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tenantsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = status{statusError, client.Message(msg.err, "Failed to load stores. Please try again.")}
			return m, nil
		}
		m.tenants = msg.tenants
		if len(m.tenants) == 0 {
			m.creating = true
			m.focus = fieldStore
		}
		return m, nil

	case storeCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = status{statusError, client.Message(msg.err, "Failed to create store. Please try again.")}
			return m, nil
		}
		m.tenants = append(m.tenants, *msg.tenant)
		m.creating = false
		m.storeName = ""
		m.status = status{statusSuccess, fmt.Sprintf("Store %q created", msg.tenant.Name)}
		return m, m.selectStore(msg.tenant.TenantSlug)

	case storeSelectedMsg:
		if msg.err != nil {
			m.status = status{statusError, "Could not save the selected store"}
			return m, nil
		}
		m.selected = msg.slug
		return m, nil

	case authResultMsg:
		m.submitting = false
		if !msg.result.Success {
			m.status = status{statusError, msg.result.Error}
			return m, nil
		}
		m.password = ""
		m.done = true
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	m.status = status{}
	key := msg.String()

	switch key {
	case "tab", "down":
		m.focus = (m.focus + 1) % numAuthFields
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numAuthFields) % numAuthFields
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+n":
		m.creating = !m.creating
		m.focus = fieldStore
		return m, nil
	case "ctrl+t":
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		return m, nil
	}

	if m.focus == fieldStore {
		if m.creating {
			if key == "enter" {
				return m.createStore()
			}
			m.storeName = editRune(m.storeName, key)
			return m, nil
		}
		switch key {
		case "left", "right":
			return m, m.cycleStore(key == "right")
		case "enter":
			m.focus = fieldEmail
		}
		return m, nil
	}

	if key == "enter" {
		if m.focus == fieldPassword {
			return m.submit()
		}
		m.focus++
		return m, nil
	}

	switch m.focus {
	case fieldEmail:
		m.email = editRune(m.email, key)
	case fieldPassword:
		m.password = editRune(m.password, key)
	}
	return m, nil
}

func (m authModel) cycleStore(forward bool) tea.Cmd {
	if len(m.tenants) == 0 {
		return nil
	}
	idx := m.tenantIndex()
	switch {
	case idx < 0 && forward:
		idx = 0
	case idx < 0:
		idx = len(m.tenants) - 1
	case forward:
		idx = (idx + 1) % len(m.tenants)
	default:
		idx = (idx - 1 + len(m.tenants)) % len(m.tenants)
	}
	return m.selectStore(m.tenants[idx].TenantSlug)
}

// selectStore records slug in the session from a command so the store's
// subscribers never run on the update goroutine.
func (m authModel) selectStore(slug string) tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		return storeSelectedMsg{slug: slug, err: a.SelectTenant(slug)}
	}
}

func (m authModel) tenantIndex() int {
	for i, t := range m.tenants {
		if t.TenantSlug == m.selected {
			return i
		}
	}
	return -1
}

func (m authModel) createStore() (authModel, tea.Cmd) {
	name := strings.TrimSpace(m.storeName)
	if !domain.ValidTenantName(name) {
		m.status = status{statusError, fmt.Sprintf("Store name must be %d-%d characters", domain.MinTenantNameLen, domain.MaxTenantNameLen)}
		return m, nil
	}
	m.submitting = true
	api := m.api
	return m, func() tea.Msg {
		tenant, err := api.CreateTenant(context.Background(), name)
		return storeCreatedMsg{tenant: tenant, err: err}
	}
}

func (m authModel) submit() (authModel, tea.Cmd) {
	if m.selected == "" {
		m.status = status{statusError, "Please select a store"}
		return m, nil
	}
	email := strings.TrimSpace(m.email)
	if email == "" || m.password == "" {
		m.status = status{statusError, "Please fill in all fields"}
		return m, nil
	}

	m.submitting = true
	a, mode, password := m.auth, m.mode, m.password
	return m, func() tea.Msg {
		if mode == modeRegister {
			return authResultMsg{result: a.Register(context.Background(), email, password)}
		}
		return authResultMsg{result: a.Login(context.Background(), email, password)}
	}
}

func (m authModel) View() string {
	var b strings.Builder

	title, subtitle := "Welcome Back", "Sign in to your account to continue"
	if m.mode == modeRegister {
		title, subtitle = "Create Account", "Join a store to start shopping"
	}
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", titleStyle.Render(title), dimStyle.Render(subtitle))

	b.WriteString(m.storeLine() + "\n")
	b.WriteString(renderField("Email", m.email, "you@example.com", m.focus == fieldEmail, false) + "\n")
	b.WriteString(renderField("Password", m.password, "••••••••", m.focus == fieldPassword, true) + "\n\n")

	switch {
	case m.submitting && m.creating:
		b.WriteString("  " + dimStyle.Render("creating store..."))
	case m.submitting && m.mode == modeRegister:
		b.WriteString("  " + dimStyle.Render("creating account..."))
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.status.text != "":
		b.WriteString("  " + m.status.View())
	}
	b.WriteString("\n")

	other := "ctrl+t to create an account instead"
	if m.mode == modeRegister {
		other = "ctrl+t to sign in instead"
	}
	b.WriteString("\n  " + metaStyle.Render(other) + "\n")
	return b.String()
}

func (m authModel) storeLine() string {
	focused := m.focus == fieldStore
	if m.creating {
		return renderField("New store", m.storeName, "3-10 characters, enter to create", focused, false)
	}
	if m.loading {
		return renderField("Store", "", "loading stores...", false, false)
	}

	name := "Choose a store..."
	if idx := m.tenantIndex(); idx >= 0 {
		t := m.tenants[idx]
		name = t.Name + " " + metaStyle.Render("("+t.TenantSlug+")")
	} else if m.selected != "" {
		name = m.selected
	}

	cursor := "  "
	label := metaStyle.Render(padRight("Store", 12))
	value := normalStyle.Render(name)
	if focused {
		cursor = inputPromptStyle.Render("> ")
		label = selectedStyle.Render(padRight("Store", 12))
		value = accentStyle.Render("< ") + storeBadgeStyle.Render(name) + accentStyle.Render(" >")
	}
	line := cursor + label + " " + value
	if focused {
		line += "  " + metaStyle.Render("ctrl+n new store")
	}
	return line
}
