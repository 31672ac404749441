// Package domain defines the core types and interfaces for the ident service
package domain

import (
	"context"
	"crypto/sha256"
)

// Principal is an authenticated account
type Principal struct {
	OwnerID string
	Role    string
}

// TokenHash is the stored digest of an API token. Raw tokens never touch
// the database
func TokenHash(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// ByTokenHash loads the account matching the token digest
	ByTokenHash(ctx context.Context, hash []byte) (Principal, bool, error)
}

// ResolverPort turns a bearer token into an authenticated principal.
// The auth middleware consumes this through the httpkit token seam
type ResolverPort interface {
	Resolve(ctx context.Context, token string) (ownerID, role string, err error)
}
