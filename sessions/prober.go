package sessions

import (
	"context"

	"github.com/jrsteele09/go-survey-gateway/tokenstore"
)

// Prober answers "is there a session, and what is its token"
type Prober interface {
	Probe(ctx context.Context) (token string, ok bool, err error)
}

type ProberFunc func(ctx context.Context) (string, bool, error)

func (f ProberFunc) Probe(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

// StoreProber reads the token store directly
type StoreProber struct {
	Store tokenstore.Store
}

func (p StoreProber) Probe(context.Context) (string, bool, error) {
	token, ok := p.Store.Get()
	return token, ok, nil
}
