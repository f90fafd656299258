package auth

import "context"

// CredentialStore port. Load bootstraps defaults exactly once when no store
// exists yet, then returns the full username -> credential mapping.
type CredentialStore interface {
	Load(ctx context.Context) (map[string]Credential, error)
}
