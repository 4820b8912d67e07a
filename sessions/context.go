// Package sessions tracks whether one client context (a browser request or a CLI run) is
// signed in. A Context starts Unknown, probes its token source once, and settles on
// Authenticated or Anonymous until Login or Logout moves it.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-survey-gateway/tokenstore"
)

// LoginPath is where Logout navigates to
const LoginPath = "/login"

type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Navigator moves the client to path once a transition completes
type Navigator func(path string)

// RemoteLogout asks the gateway to drop its copy of the session
type RemoteLogout func(ctx context.Context) error

// Context is not safe for concurrent use. Each owner drives its own transitions.
type Context struct {
	store        tokenstore.Store
	prober       Prober
	remoteLogout RemoteLogout
	navigate     Navigator
	ttl          time.Duration

	state State
	token string
}

type Option func(*Context)

// WithProber replaces the default prober, which reads the store directly
func WithProber(p Prober) Option {
	return func(c *Context) {
		c.prober = p
	}
}

func WithRemoteLogout(fn RemoteLogout) Option {
	return func(c *Context) {
		c.remoteLogout = fn
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Context) {
		c.navigate = n
	}
}

// WithTTL sets the lifetime passed to the store on Login
func WithTTL(ttl time.Duration) Option {
	return func(c *Context) {
		c.ttl = ttl
	}
}

func New(store tokenstore.Store, opts ...Option) *Context {
	c := &Context{
		store: store,
		ttl:   tokenstore.DefaultTTL,
		state: StateUnknown,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prober == nil {
		c.prober = StoreProber{Store: store}
	}
	return c
}

// Init probes for an existing session. Only the first call while Unknown probes; a failed
// probe leaves the context Anonymous and is not retried.
func (c *Context) Init(ctx context.Context) error {
	if c.state != StateUnknown {
		return nil
	}
	token, ok, err := c.prober.Probe(ctx)
	if err != nil {
		c.setAnonymous()
		return fmt.Errorf("[sessions Init] probe: %w", err)
	}
	if !ok {
		c.setAnonymous()
		return nil
	}
	c.state = StateAuthenticated
	c.token = token
	return nil
}

func (c *Context) Login(token string) error {
	if err := c.store.Set(token, c.ttl); err != nil {
		return fmt.Errorf("[sessions Login] %w", err)
	}
	c.state = StateAuthenticated
	c.token = token
	return nil
}

// Logout clears the session locally even when the remote call fails, then navigates to
// the login page. The remote and local errors are both returned.
func (c *Context) Logout(ctx context.Context) error {
	var remoteErr error
	if c.remoteLogout != nil {
		remoteErr = c.remoteLogout(ctx)
	}
	clearErr := c.store.Clear()
	c.setAnonymous()
	if c.navigate != nil {
		c.navigate(LoginPath)
	}
	if err := errors.Join(remoteErr, clearErr); err != nil {
		return fmt.Errorf("[sessions Logout] %w", err)
	}
	return nil
}

func (c *Context) State() State {
	return c.state
}

func (c *Context) IsLoading() bool {
	return c.state == StateUnknown
}

func (c *Context) Token() (string, bool) {
	return c.token, c.state == StateAuthenticated
}

// Allowed gates actions that need a signed-in user. It is false while the state is
// still Unknown.
func (c *Context) Allowed() bool {
	return c.state == StateAuthenticated
}

func (c *Context) setAnonymous() {
	c.state = StateAnonymous
	c.token = ""
}
