package httpkit

import (
	"net/http"
	"strings"

	perrs "domainsift/internal/platform/errors"
	pnet "domainsift/internal/platform/net"
)

// Owner returns the authenticated owner id from the request context
func Owner(r *http.Request) (string, error) {
	oid := pnet.OwnerID(r.Context())
	if oid == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return oid, nil
}

// MustOwner returns the authenticated owner id or panics
// only use on routes protected by the auth middleware
func MustOwner(r *http.Request) string {
	oid, err := Owner(r)
	if err != nil {
		panic(err)
	}
	return oid
}

// RequireAdmin errors unless the request context carries the admin role
func RequireAdmin(r *http.Request) error {
	if !pnet.IsAdmin(r.Context()) {
		return perrs.Forbiddenf("admin role required")
	}
	return nil
}

// BearerToken returns the raw bearer token from the Authorization header
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if strings.TrimSpace(authz) == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// case-insensitive Bearer prefix (don't trim the whole header first)
	const prefix = "bearer "
	if len(authz) < len(prefix) || strings.ToLower(authz[:len(prefix)]) != prefix {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// MustBearerToken returns the raw bearer token or panics
// only use on routes protected by the auth middleware
func MustBearerToken(r *http.Request) string {
	raw, err := BearerToken(r)
	if err != nil {
		panic(err)
	}
	return raw
}
