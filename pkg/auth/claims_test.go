package auth

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeClaims(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	padded := base64.URLEncoding.EncodeToString([]byte(`{"sub":"u2","tenantId":"t2"}`))

	tests := []struct {
		name    string
		token   string
		want    Claims
		wantErr error
	}{
		{"valid", "header." + enc(`{"sub":"u1","tenantId":"t1"}`) + ".signature", Claims{"u1", "t1"}, nil},
		{"padded payload", "h." + padded + ".s", Claims{"u2", "t2"}, nil},
		{"two segments", "h.e1", Claims{}, ErrMalformedToken},
		{"four segments", "a.b.c.d", Claims{}, ErrMalformedToken},
		{"not base64", "h.!!!.s", Claims{}, ErrMalformedToken},
		{"not json", "h." + enc("hello") + ".s", Claims{}, ErrMalformedToken},
		{"missing sub", "h." + enc(`{"tenantId":"t1"}`) + ".s", Claims{}, ErrMissingClaim},
		{"missing tenant", "h." + enc(`{"sub":"u1"}`) + ".s", Claims{}, ErrMissingClaim},
		{"numeric tenant", "h." + enc(`{"sub":"u1","tenantId":7}`) + ".s", Claims{}, ErrMissingClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClaims(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeClaims() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeClaims() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeClaims() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
