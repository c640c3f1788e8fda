package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/memory"
	"schoolhub-be/internal/repository/unitofwork"
	"schoolhub-be/pkg/events"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	toasts map[uuid.UUID][]dto.Toast
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{toasts: map[uuid.UUID][]dto.Toast{}}
}

func (n *recordingNotifier) Notify(userID uuid.UUID, toast dto.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts[userID] = append(n.toasts[userID], toast)
}

func (n *recordingNotifier) For(userID uuid.UUID) []dto.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dto.Toast(nil), n.toasts[userID]...)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingEvents) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.EventType())
	}
	return out
}

type welcomeMail struct {
	To, School, Slug string
}

type fakeMailer struct {
	sent chan welcomeMail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan welcomeMail, 4)}
}

func (m *fakeMailer) SendTenantWelcome(toEmail, schoolName, slug string) error {
	m.sent <- welcomeMail{To: toEmail, School: schoolName, Slug: slug}
	return m.err
}

// flakyFactory fails profile reads while broken is set.
type flakyFactory struct {
	unitofwork.RepositoryFactory
	mu     sync.Mutex
	broken bool
}

func (f *flakyFactory) setBroken(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken = v
}

func (f *flakyFactory) isBroken() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.broken
}

func (f *flakyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &flakyUoW{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx), f: f}
}

type flakyUoW struct {
	unitofwork.UnitOfWork
	f *flakyFactory
}

func (u *flakyUoW) ProfileRepository() contract.ProfileRepository {
	return &flakyProfiles{ProfileRepository: u.UnitOfWork.ProfileRepository(), f: u.f}
}

type flakyProfiles struct {
	contract.ProfileRepository
	f *flakyFactory
}

func (r *flakyProfiles) FindByUserID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if r.f.isBroken() {
		return nil, errors.New("connection reset by peer")
	}
	return r.ProfileRepository.FindByUserID(ctx, id)
}

type env struct {
	factory   *flakyFactory
	deps      tenant.Deps
	completer *onboarding.Completer
	surface   *theme.MemorySurface
	theme     *theme.Resolver
	sessions  ISessionService
	notifier  *recordingNotifier
	log       logger.ILogger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.NewNopLogger()
	factory := &flakyFactory{RepositoryFactory: memory.NewRepositoryFactory(memory.NewDatabase())}
	deps := tenant.Deps{
		Resolver: tenant.NewResolver(factory, log, nil),
		Factory:  factory,
		Logger:   log,
		Timeout:  time.Second,
	}
	completer := onboarding.NewCompleter(factory, nil, theme.DefaultPalette, log, nil)
	surface := theme.NewMemorySurface()

	return &env{
		factory:   factory,
		deps:      deps,
		completer: completer,
		surface:   surface,
		theme:     theme.NewResolver(surface, theme.DefaultPalette, log, nil),
		sessions:  NewSessionService(time.Minute, deps, completer),
		notifier:  newRecordingNotifier(),
		log:       log,
	}
}

// seed onboards a school for a fresh user straight through the completer.
func (e *env) seed(t *testing.T, slug string, features ...string) (uuid.UUID, *entity.Tenant) {
	t.Helper()
	userID := uuid.New()
	created, err := e.completer.Finish(context.Background(), userID, onboarding.Draft{
		Info:      onboarding.Info{Name: "Green Valley High", Slug: slug, ContactEmail: "office@greenvalley.edu"},
		Branding:  onboarding.Branding{PrimaryColor: "#FF0000"},
		Selection: onboarding.Selection{Features: features},
	})
	require.NoError(t, err)
	return userID, created
}
