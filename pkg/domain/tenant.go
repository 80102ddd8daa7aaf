package domain

import (
	"time"
	"unicode/utf8"
)

// Tenant is an isolated store. TenantSlug scopes every request made on its behalf.
type Tenant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TenantSlug string    `json:"tenantSlug"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store name length limits enforced by the admin and sign-in forms.
const (
	MinTenantNameLen = 3
	MaxTenantNameLen = 10
)

// ValidTenantName returns true if name satisfies the store name length limits.
func ValidTenantName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinTenantNameLen && n <= MaxTenantNameLen
}
