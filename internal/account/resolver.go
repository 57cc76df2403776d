// Package account resolves the active account ID for tool invocations.
//
// Every tool operation is scoped to exactly one account. Resolution happens
// on every call — the result is never cached here — so a changed environment
// takes effect immediately. An empty ID with a nil error means no account is
// configured, which callers treat as a terminal precondition failure.
package account

import (
	"context"
	"os"
)

// EnvAccountID is the environment variable consulted when no account is
// configured explicitly.
const EnvAccountID = "VECTORD_ACCOUNT_ID"

// Resolver supplies the active account ID for a call.
type Resolver interface {
	// ActiveAccount returns the account ID to scope the call to, or ""
	// when none is resolvable. A non-nil error indicates the resolution
	// itself failed, distinct from "no account configured".
	ActiveAccount(ctx context.Context) (string, error)
}

// EnvResolver resolves the account ID from an explicit configured value,
// falling back to the EnvAccountID environment variable.
type EnvResolver struct {
	// Configured is the account ID from the configuration file. Takes
	// precedence over the environment when non-empty.
	Configured string
}

// NewEnvResolver creates a resolver with the given configured account ID.
func NewEnvResolver(configured string) *EnvResolver {
	return &EnvResolver{Configured: configured}
}

// ActiveAccount implements Resolver. The environment is re-read on every
// call.
func (r *EnvResolver) ActiveAccount(ctx context.Context) (string, error) {
	if r.Configured != "" {
		return r.Configured, nil
	}
	return os.Getenv(EnvAccountID), nil
}
