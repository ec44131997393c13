package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/logger"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/NikitaCOEUR/termsuggest/internal/trace"
)

// Observer is notified once per provider invocation.
type Observer interface {
	ObserveProvider(namespace, id string, items int, elapsed time.Duration, err error)
}

// Service owns a provider registry and answers completion requests.
type Service struct {
	registry *Registry
	config   Configuration
	files    fsys.Service
	log      *logger.Logger
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithObserver sets the invocation observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a service reading settings from cfg and listing
// directories through files.
func NewService(cfg Configuration, files fsys.Service, opts ...Option) *Service {
	s := &Service{
		registry: NewRegistry(),
		config:   cfg,
		files:    files,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Registry exposes the service's provider registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Register adds a provider. See Registry.Register.
func (s *Service) Register(namespace, id string, p *Provider, triggerCharacters ...string) Disposable {
	s.log.Debug().Str("namespace", namespace).Str("provider", id).Strs("triggers", triggerCharacters).Msg("Registering completion provider")
	return s.registry.Register(namespace, id, p, triggerCharacters...)
}

// Close drops every registration.
func (s *Service) Close() {
	s.registry.Close()
}

// ProvideCompletions invokes every eligible provider concurrently and
// returns their items concatenated in registration order. It returns nil
// when no provider is eligible. A failing provider contributes nothing.
// If ctx is done once all providers have returned, the results are
// discarded and ctx's error is returned.
func (s *Service) ProvideCompletions(ctx context.Context, req Request) ([]*Item, error) {
	defer trace.Region(ctx, "provideCompletions")()

	cursor := clampCursor(req.Value, req.Cursor)
	candidates := SelectProviders(
		s.registry.Registrations(),
		req.Value,
		cursor,
		req.TriggerCharacter,
		boolSetting(s.config, SettingEnableExtensionCompletions),
	)

	s.log.Debug().
		Int("length", len(req.Value)).
		Int("cursor", cursor).
		Str("shell", string(req.Shell)).
		Bool("trigger", req.TriggerCharacter).
		Int("candidates", len(candidates)).
		Msg("Completion requested")

	if len(candidates) == 0 {
		return nil, nil
	}

	devMode := boolSetting(s.config, SettingDevMode)
	results := make([][]*Item, len(candidates))

	var wg sync.WaitGroup
	for i, reg := range candidates {
		if !shell.Contains(reg.ShellTypes, req.Shell) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.invoke(ctx, reg, req.Value, cursor, devMode)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.log.Debug().Err(err).Msg("Completion request cancelled")
		return nil, err
	}

	items := make([]*Item, 0)
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}

func (s *Service) invoke(ctx context.Context, reg Registration, value string, cursor int, devMode bool) (items []*Item) {
	defer trace.Region(ctx, "provider:"+reg.Namespace+"/"+reg.ID)()

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = derrors.NewProviderError(reg.Namespace, reg.ID, "provider panicked", fmt.Errorf("%v", r))
			items = nil
		}
		s.finished(reg, len(items), time.Since(start), err)
	}()

	batch, err := reg.Complete(ctx, value, cursor)
	if err != nil {
		err = derrors.NewProviderError(reg.Namespace, reg.ID, "provider failed", err)
		return nil
	}

	var resources *ResourceRequest
	switch b := batch.(type) {
	case nil:
		return nil
	case Items:
		items = compact(b)
	case *ItemsWithResources:
		if b == nil {
			return nil
		}
		items = compact(b.Items)
		resources = b.Resources
	default:
		err = derrors.NewProviderError(reg.Namespace, reg.ID, fmt.Sprintf("unsupported batch type %T", batch), nil)
		return nil
	}

	if devMode {
		annotate(items, reg.ID)
	}

	if resources != nil {
		items = append(items, s.ResolveResources(ctx, resources, value, cursor)...)
	}
	return items
}

func (s *Service) finished(reg Registration, n int, elapsed time.Duration, err error) {
	s.log.Debug().
		Str("namespace", reg.Namespace).
		Str("provider", reg.ID).
		Int("items", n).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("Provider finished")

	if s.observer != nil {
		s.observer.ObserveProvider(reg.Namespace, reg.ID, n, elapsed, err)
	}
}

// compact copies items into a fresh slice, skipping nil entries.
func compact(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

// annotate prefixes each detail with the provider id unless it already
// mentions it. Items are replaced by copies so provider-owned values are
// never mutated.
func annotate(items []*Item, id string) {
	for i, item := range items {
		if strings.Contains(item.Detail, id) {
			continue
		}
		annotated := *item
		annotated.Detail = "(" + id + ") " + item.Detail
		items[i] = &annotated
	}
}
