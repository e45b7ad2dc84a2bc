// Package console tracks one Session Controller per browser console,
// keyed by the console cookie, and tears down controllers that go idle.
package console

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/core/ports"
	"github.com/ecostation/monitoring-console/internal/core/service"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

// ClientFactory builds the per-console auth handle. Injected so the
// registry (and the controllers it owns) never touch a live backend in
// tests.
type ClientFactory func(consoleID string) ports.AuthClient

// Console pairs a controller with the auth client it consumes.
type Console struct {
	ID     string
	Ctrl   *service.Controller
	Client ports.AuthClient
}

// Options carries registry construction settings.
type Options struct {
	SeedAdminEmail      string
	SessionCheckTimeout time.Duration
	// IdleTTL is how long an untouched console survives before the
	// janitor closes it.
	IdleTTL time.Duration
	Logger  zerolog.Logger
}

// Registry is the single owner of live consoles.
type Registry struct {
	factory  ClientFactory
	profiles ports.ProfileSyncer
	opts     Options
	log      zerolog.Logger

	mu       sync.Mutex
	consoles map[string]*entry
}

type entry struct {
	console  *Console
	lastSeen time.Time
}

func NewRegistry(factory ClientFactory, profiles ports.ProfileSyncer, opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	return &Registry{
		factory:  factory,
		profiles: profiles,
		opts:     opts,
		log:      opts.Logger,
		consoles: make(map[string]*entry),
	}
}

// Get returns the console for id, creating and initializing it on first
// sight. Every call refreshes the idle clock.
func (r *Registry) Get(id string) *Console {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.consoles[id]; ok {
		e.lastSeen = time.Now()
		return e.console
	}

	client := r.factory(id)
	ctrl := service.NewController(client, r.profiles, service.ControllerOptions{
		SeedAdminEmail:      r.opts.SeedAdminEmail,
		SessionCheckTimeout: r.opts.SessionCheckTimeout,
		Logger:              r.log.With().Str("console", id).Logger(),
	})
	c := &Console{ID: id, Ctrl: ctrl, Client: client}
	r.consoles[id] = &entry{console: c, lastSeen: time.Now()}

	// The startup session determination runs off the request path; the
	// first snapshot simply reports loading.
	go ctrl.Initialize(context.Background())

	return c
}

// Run sweeps idle consoles until ctx is cancelled, then closes everything.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.consoles {
		if now.Sub(e.lastSeen) > r.opts.IdleTTL {
			e.console.Ctrl.Close()
			delete(r.consoles, id)
			r.log.Debug().Str("console", id).Msg("idle console closed")
		}
	}
}

// Close tears down every live console.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.consoles {
		e.console.Ctrl.Close()
		delete(r.consoles, id)
	}
}
