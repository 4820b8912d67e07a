package auth

import (
	"context"

	"github.com/jrsteele09/go-survey-gateway/identity"
)

// IdentityBackend issues session tokens. identity.Client is the production implementation.
type IdentityBackend interface {
	ExchangeCode(ctx context.Context, provider, code string) (string, error)
	Login(ctx context.Context, creds identity.Credentials) (string, error)
}

var _ IdentityBackend = (*identity.Client)(nil)
