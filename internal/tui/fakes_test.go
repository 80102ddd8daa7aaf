package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shoppro/shoppro/pkg/auth"
	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

var errFake = errors.New("fake failure")

type addCall struct {
	sku      string
	quantity int
}

type fakeAPI struct {
	mu sync.Mutex

	tenants   []domain.Tenant
	page      *domain.ProductPage
	cart      *domain.Cart
	order     *domain.Order
	err       error
	filters   []domain.ProductFilter
	adds      []addCall
	orderKeys []string
	created   []domain.CreateProductRequest
	tenantNew []string
}

func (f *fakeAPI) ListTenants(context.Context) ([]domain.Tenant, error) {
	return f.tenants, f.err
}

func (f *fakeAPI) CreateTenant(_ context.Context, name string) (*domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tenantNew = append(f.tenantNew, name)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Tenant{ID: "t-new", Name: name, TenantSlug: "slug-" + name}, nil
}

func (f *fakeAPI) ListProducts(_ context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return &domain.ProductPage{}, nil
	}
	return f.page, nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, p domain.CreateProductRequest) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: "p-new", SKU: p.SKU, Name: p.Name, Price: p.BasePrice, Inventory: p.Inventory}, nil
}

func (f *fakeAPI) GetCart(context.Context) (*domain.Cart, error) {
	return f.cart, f.err
}

func (f *fakeAPI) AddToCart(_ context.Context, sku string, quantity int) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, addCall{sku, quantity})
	return f.cart, f.err
}

func (f *fakeAPI) PlaceOrder(_ context.Context, key string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderKeys = append(f.orderKeys, key)
	return f.order, f.err
}

// fakeAuth updates a memory session store the way auth.Flow does.
type fakeAuth struct {
	store   *session.Store
	result  auth.Result
	logins  []string
	logouts int
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) auth.Result {
	f.logins = append(f.logins, email)
	if f.result.Success {
		f.store.SetTokens("access", "refresh") //nolint:errcheck // memory store
	}
	return f.result
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) auth.Result {
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) Logout(context.Context) {
	f.logouts++
	f.store.Clear() //nolint:errcheck // memory store
}

func (f *fakeAuth) SelectTenant(slug string) error {
	return f.store.SetTenant(slug)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func special(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(m authModel, s string) authModel {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

var sampleProducts = []domain.Product{
	{ID: "1", SKU: "MUG-1", Name: "Mug", Price: 9.5, Inventory: 3},
	{ID: "2", SKU: "LAMP-1", Name: "Lamp", Price: 40, Inventory: 0},
}
