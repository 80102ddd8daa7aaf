package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shoppro/shoppro/internal/browser"
	"github.com/shoppro/shoppro/pkg/auth"
	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// API is the storefront surface the views call. *client.Client implements it.
type API interface {
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	CreateTenant(ctx context.Context, name string) (*domain.Tenant, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error)
	CreateProduct(ctx context.Context, p domain.CreateProductRequest) (*domain.Product, error)
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, sku string, quantity int) (*domain.Cart, error)
	PlaceOrder(ctx context.Context, idempotencyKey string) (*domain.Order, error)
}

// Auth drives sign-in and sign-out. *auth.Flow implements it.
type Auth interface {
	Login(ctx context.Context, email, password string) auth.Result
	Register(ctx context.Context, email, password string) auth.Result
	Logout(ctx context.Context)
	SelectTenant(slug string) error
}

// SessionSource reads the current session.
type SessionSource interface {
	Get() session.Session
}

// SessionChangedMsg reports a new session snapshot. Send it from a session
// store subscriber.
type SessionChangedMsg struct {
	Session session.Session
}

// SessionExpiredMsg reports that a token refresh failed and the session was
// cleared. The app returns to sign-in.
type SessionExpiredMsg struct{}

type loggedOutMsg struct{}

type browserOpenedMsg struct {
	url string
	err error
}

type view int

const (
	viewHome view = iota
	viewProducts
	viewCart
	viewAdmin
	viewLogin
)

// protected reports whether v requires a signed-in user.
func (v view) protected() bool {
	return v == viewCart || v == viewAdmin
}

// Options configures the App.
type Options struct {
	API      API
	Auth     Auth
	Session  SessionSource
	WebURL   string
	Version  string
	PageSize int
}

// App is the root Bubbletea model.
type App struct {
	api     API
	auth    Auth
	source  SessionSource
	sess    session.Session
	version string

	view     view
	after    view // where a successful sign-in lands
	products productsModel
	cart     cartModel
	admin    adminModel
	login    authModel

	helpOpen   bool
	helpCursor int
	helpItems  []helpItem
	notice     status

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(opts Options) App {
	a := App{
		api:       opts.API,
		auth:      opts.Auth,
		source:    opts.Session,
		version:   opts.Version,
		after:     viewProducts,
		products:  newProductsModel(opts.API, opts.PageSize),
		cart:      newCartModel(opts.API),
		admin:     newAdminModel(opts.API),
		login:     newAuthModel(opts.API, opts.Auth),
		helpItems: newHelpItems(opts.WebURL),
	}
	a.syncSession()
	return a
}

func (a App) Init() tea.Cmd {
	return shimmerTickCmd()
}

func (a *App) syncSession() {
	if a.source != nil {
		a.sess = a.source.Get()
	}
	a.products.authed = a.sess.IsAuthenticated()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.products, _ = a.products.Update(bodyMsg)
		a.cart, _ = a.cart.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case SessionChangedMsg:
		a.sess = msg.Session
		a.products.authed = a.sess.IsAuthenticated()
		if !a.sess.IsAuthenticated() && a.view.protected() {
			return a.toLogin(modeLogin, a.view, status{})
		}
		return a, nil

	case SessionExpiredMsg:
		a.syncSession()
		after := viewProducts
		if a.view.protected() {
			after = a.view
		}
		return a.toLogin(modeLogin, after, status{statusWarning, client.SessionExpiredMessage})

	case browserOpenedMsg:
		if msg.err != nil {
			a.notice = status{statusWarning, "Could not open a browser. Visit " + msg.url}
		}
		return a, nil

	case loggedOutMsg:
		a.syncSession()
		a.cart = newCartModel(a.api)
		a.notice = status{statusInfo, "Signed out"}
		if a.view.protected() || a.view == viewLogin {
			a.view = viewHome
		}
		return a, nil

	// Data messages go to their owner whatever view is showing.
	case productsLoadedMsg, cartAddedMsg:
		var cmd tea.Cmd
		a.products, cmd = a.products.Update(msg)
		return a, cmd
	case cartLoadedMsg, cartUpdatedMsg, orderPlacedMsg:
		var cmd tea.Cmd
		a.cart, cmd = a.cart.Update(msg)
		return a, cmd
	case productCreatedMsg, tenantCreatedMsg:
		var cmd tea.Cmd
		a.admin, cmd = a.admin.Update(msg)
		return a, cmd
	case tenantsLoadedMsg, storeCreatedMsg, storeSelectedMsg, authResultMsg:
		return a.updateLogin(msg)

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	a.notice = status{}

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "h", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(a.helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if item := a.helpItems[a.helpCursor]; item.url != "" {
				return a, openURL(item.url)
			}
		}
		return a, nil
	}

	if key == "esc" && a.isEditing() && a.view != viewProducts {
		a.view = viewHome
		return a, nil
	}

	if !a.isEditing() {
		switch key {
		case "h":
			a.helpOpen = true
			a.helpCursor = 0
			return a, nil
		case "q":
			return a, tea.Quit
		case "1":
			a.view = viewHome
			return a, nil
		case "2":
			return a.show(viewProducts)
		case "3":
			return a.show(viewCart)
		case "4":
			return a.show(viewAdmin)
		case "l":
			if !a.sess.IsAuthenticated() {
				return a.toLogin(modeLogin, viewProducts, status{})
			}
		case "r":
			if !a.sess.IsAuthenticated() {
				return a.toLogin(modeRegister, viewProducts, status{})
			}
		case "o":
			if a.sess.IsAuthenticated() {
				return a, a.logout()
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewProducts:
		a.products, cmd = a.products.Update(msg)
	case viewCart:
		a.cart, cmd = a.cart.Update(msg)
		if a.cart.browse {
			a.cart.browse = false
			return a.show(viewProducts)
		}
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	case viewLogin:
		return a.updateLogin(msg)
	}
	return a, cmd
}

// show switches to v, redirecting to sign-in when v needs a session.
func (a App) show(v view) (App, tea.Cmd) {
	if v.protected() && !a.sess.IsAuthenticated() {
		return a.toLogin(modeLogin, v, status{statusInfo, "Please sign in to continue"})
	}
	a.view = v
	var cmd tea.Cmd
	switch v {
	case viewProducts:
		a.products, cmd = a.products.reload()
	case viewCart:
		a.cart, cmd = a.cart.reload()
	}
	return a, cmd
}

func (a App) toLogin(mode authMode, after view, notice status) (App, tea.Cmd) {
	a.after = after
	a.view = viewLogin
	a.login = a.login.reset(mode, a.sess.TenantSlug, notice)
	a.login.loading = true
	return a, a.login.Init()
}

func (a App) updateLogin(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.login, cmd = a.login.Update(msg)
	if a.login.done {
		a.login.done = false
		a.syncSession()
		a.notice = status{statusSuccess, "Signed in"}
		return a.show(a.after)
	}
	return a, cmd
}

func (a App) logout() tea.Cmd {
	f := a.auth
	return func() tea.Msg {
		f.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// openURL opens url from a command so a slow browser launch never blocks Update.
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: browser.Open(url)}
	}
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewAdmin:
		return true
	case viewProducts:
		return a.products.editing != inputNone
	}
	return false
}

func (a App) storeName() string {
	for _, t := range a.login.tenants {
		if t.TenantSlug == a.sess.TenantSlug {
			return t.Name
		}
	}
	return a.sess.TenantSlug
}

func (a App) View() string {
	// Header: centered shimmer logo over the session line
	logo := renderShimmerLogo(a.frame)
	header := strings.Repeat(" ", max((a.width-lipgloss.Width(logo))/2, 0)) + logo

	sessionLine := a.sessionLine()
	header += "\n" + strings.Repeat(" ", max((a.width-lipgloss.Width(sessionLine))/2, 0)) + sessionLine

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Shop", viewHome},
		{"2", "Products", viewProducts},
		{"3", "Cart", viewCart},
		{"4", "Admin", viewAdmin},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewCart && a.cart.cart != nil && a.cart.cart.ItemCount() > 0 {
			label += " " + accentStyle.Render(fmt.Sprintf("(%d)", a.cart.cart.ItemCount()))
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch a.view {
	case viewHome:
		body = homeView(a.storeName(), a.sess.IsAuthenticated())
		help = helpBar("1-4", "tabs", "l", "sign in", "r", "register", "o", "sign out", "h", "help", "q", "quit")
	case viewProducts:
		body = a.products.View()
		if a.products.editing != inputNone {
			help = helpBar("enter", "apply", "esc", "cancel")
		} else {
			help = helpBar("1-4", "tabs", "j/k", "nav", "+/-", "qty", "enter", "add", "/", "search", "m/M", "price", "i", "stock", "s/d", "sort", "x", "clear", "[/]", "page")
		}
	case viewCart:
		body = a.cart.View()
		if a.cart.order != nil {
			help = helpBar("c", "copy id", "enter", "continue shopping", "q", "quit")
		} else {
			help = helpBar("1-4", "tabs", "j/k", "nav", "+/-", "qty", "p", "place order", "b", "browse", "h", "help", "q", "quit")
		}
	case viewAdmin:
		body = a.admin.View()
		help = helpBar("tab", "next", "ctrl+s", "submit", "esc", "back")
	case viewLogin:
		body = a.login.View()
		help = helpBar("tab", "next", "←/→", "store", "enter", "submit", "ctrl+t", "switch", "esc", "back")
	}

	if a.helpOpen {
		body = helpView(a.helpItems, a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}

	if a.notice.text != "" {
		help = " " + a.notice.View() + "  " + help
	}

	// Chrome budget: header(2) + tabs(1) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

func (a App) sessionLine() string {
	parts := []string{}
	if name := a.storeName(); name != "" {
		parts = append(parts, storeBadgeStyle.Render(name))
	}
	if a.sess.IsAuthenticated() {
		who := "signed in"
		if a.sess.User != nil && a.sess.User.ID != "" {
			who += " as " + truncStr(a.sess.User.ID, 12)
		}
		parts = append(parts, successStyle.Render(who))
	} else {
		parts = append(parts, dimStyle.Render("guest"))
	}
	if a.version != "" {
		parts = append(parts, metaStyle.Render(a.version))
	}
	return strings.Join(parts, metaStyle.Render(" . "))
}
