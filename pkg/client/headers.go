package client

// Header names set on outgoing requests.
const (
	HeaderAuthorization  = "Authorization"
	HeaderTenantSlug     = "x-tenant-slug"
	HeaderIdempotencyKey = "Idempotency-Key"
)
