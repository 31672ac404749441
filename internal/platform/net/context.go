// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyOwnerID ctxKey = "owner_id"
	keyRole    ctxKey = "role"
)

// WithRequest annotates context with the request id so chimw.GetReqID can retrieve it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithOwner annotates context with the authenticated owner id and role
func WithOwner(ctx context.Context, ownerID, role string) context.Context {
	if ownerID != "" {
		ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	}
	if role != "" {
		ctx = context.WithValue(ctx, keyRole, role)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// OwnerID returns the owner id on the context if present
func OwnerID(ctx context.Context) string {
	if v, ok := ctx.Value(keyOwnerID).(string); ok {
		return v
	}
	return ""
}

// Role returns the authenticated role on the context if present
func Role(ctx context.Context) string {
	if v, ok := ctx.Value(keyRole).(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the context carries the admin role
func IsAdmin(ctx context.Context) bool { return Role(ctx) == "admin" }
