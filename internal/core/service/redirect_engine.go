package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// RedirectConfig configures page-entry routing.
type RedirectConfig struct {
	// PublicPages never force anonymous visitors away. The root path is
	// always public.
	PublicPages []domain.Page
	// AlwaysPublic pages also keep authenticated visitors in place.
	AlwaysPublic []domain.Page
	// Delay is handed to the client as a navigation hint.
	Delay time.Duration
}

// DefaultRedirectConfig uses the standard allow-lists and no delay.
func DefaultRedirectConfig() RedirectConfig {
	return RedirectConfig{
		PublicPages:  domain.PublicPages(),
		AlwaysPublic: domain.AlwaysPublicPages(),
	}
}

// RedirectEngine decides, on entry to a page, whether to render it, send the
// visitor to their role dashboard, or send them home.
type RedirectEngine struct {
	gate         *AccessGate
	public       map[domain.Page]struct{}
	alwaysPublic map[domain.Page]struct{}
	delay        time.Duration
	log          zerolog.Logger
}

func NewRedirectEngine(gate *AccessGate, cfg RedirectConfig, log zerolog.Logger) *RedirectEngine {
	return &RedirectEngine{
		gate:         gate,
		public:       pageSet(cfg.PublicPages),
		alwaysPublic: pageSet(cfg.AlwaysPublic),
		delay:        cfg.Delay,
		log:          log,
	}
}

func pageSet(pages []domain.Page) map[domain.Page]struct{} {
	set := make(map[domain.Page]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	return set
}

// Mount starts the evaluation lifecycle for a single page mount.
func (e *RedirectEngine) Mount(res *Resolution, path string) *Mount {
	return &Mount{engine: e, res: res, path: path, done: make(chan struct{})}
}

func (e *RedirectEngine) isPublic(page domain.Page, path string) bool {
	_, listed := e.public[page]
	return listed || domain.IsRootPath(path)
}

func (e *RedirectEngine) decide(ctx context.Context, res *Resolution, path string) domain.RedirectDecision {
	page := domain.PageFromPath(path)
	public := e.isPublic(page, path)
	roles, auth := e.gate.Roles(ctx, res)

	if auth.OK() && public {
		if _, stay := e.alwaysPublic[page]; !stay {
			return domain.RedirectDecision{
				Kind:   domain.RedirectToRoleDashboard,
				Target: domain.Dashboard(roles.Effective),
				Delay:  e.delay,
			}
		}
	}
	if !auth.OK() && !public {
		return domain.RedirectDecision{
			Kind:   domain.RedirectToPublicHome,
			Target: domain.PageHome,
			Delay:  e.delay,
		}
	}
	return domain.RedirectDecision{Kind: domain.RenderInPlace, Target: page}
}

// MountState is the lifecycle of a Mount.
type MountState int32

const (
	MountIdle MountState = iota
	MountChecking
	MountDone
)

func (s MountState) String() string {
	switch s {
	case MountChecking:
		return "checking"
	case MountDone:
		return "done"
	default:
		return "idle"
	}
}

// Mount evaluates at most once. Only the first Evaluate call performs the
// check; later calls wait for it and receive the same decision marked as
// replayed.
type Mount struct {
	engine *RedirectEngine
	res    *Resolution
	path   string

	state    atomic.Int32
	done     chan struct{}
	decision domain.RedirectDecision
}

func (m *Mount) State() MountState {
	return MountState(m.state.Load())
}

func (m *Mount) Evaluate(ctx context.Context) domain.RedirectDecision {
	if !m.state.CompareAndSwap(int32(MountIdle), int32(MountChecking)) {
		select {
		case <-m.done:
			d := m.decision
			d.Replayed = true
			return d
		case <-ctx.Done():
			return domain.RedirectDecision{Kind: domain.RenderInPlace, Replayed: true}
		}
	}

	m.decision = m.engine.decide(ctx, m.res, m.path)
	m.state.Store(int32(MountDone))
	close(m.done)

	m.engine.log.Debug().
		Str("path", m.path).
		Str("decision", string(m.decision.Kind)).
		Str("target", string(m.decision.Target)).
		Msg("page entry evaluated")
	return m.decision
}
