package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shoppro/shoppro/pkg/session"
)

var (
	// ErrMalformedToken is returned for tokens that are not three
	// dot-separated segments with a JSON payload.
	ErrMalformedToken = errors.New("malformed token")
	// ErrMissingClaim is returned when sub or tenantId is absent.
	ErrMissingClaim = errors.New("missing claim")
)

// Claims is the identity carried by an access token.
type Claims struct {
	Subject  string
	TenantID string
}

// Identity converts c into a session identity.
func (c Claims) Identity() *session.Identity {
	return &session.Identity{ID: c.Subject, TenantID: c.TenantID, Authenticated: true}
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims reads sub and tenantId from the payload of token. The
// signature is not verified: the result is for display only and the server
// remains the authority.
func DecodeClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: %d segments", ErrMalformedToken, len(parts))
	}
	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	tenantID, _ := mc["tenantId"].(string)
	if tenantID == "" {
		return Claims{}, fmt.Errorf("%w: tenantId", ErrMissingClaim)
	}
	return Claims{Subject: sub, TenantID: tenantID}, nil
}

// identityFor decodes token, falling back to the placeholder identity.
func identityFor(token string) (*session.Identity, error) {
	c, err := DecodeClaims(token)
	if err != nil {
		return session.PlaceholderIdentity(), err
	}
	return c.Identity(), nil
}
