package middleware

import (
	"net/http"

	pnet "domainsift/internal/platform/net"
)

// AuthPort is the seam the identity service implements
type AuthPort interface {
	// Parse returns the authenticated owner id and role from the request or an error
	Parse(r *http.Request) (ownerID string, role string, err error)
}

// Auth resolves the request credential via the port and stashes owner id and
// role on the context. A nil port leaves requests anonymous
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			oid, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithOwner(r.Context(), oid, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
