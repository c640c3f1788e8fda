package tenant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/metrics"
	"schoolhub-be/internal/pkg/validation"
	"schoolhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	OpLoad          = "tenant.load"
	OpUpdateTenant  = "tenant.update"
	OpToggleFeature = "feature.toggle"
)

var tracer = otel.Tracer("schoolhub-be/pkg/tenant")

// Deps is shared by every store of the process.
type Deps struct {
	Resolver  *Resolver
	Factory   unitofwork.RepositoryFactory
	Gate      *MutationGate
	Publisher ChangePublisher
	Logger    logger.ILogger
	Metrics   *metrics.TenantMetrics
	Catalog   constant.Catalog
	Timeout   time.Duration
}

// snapshot is immutable once published; mutations build a new one.
type snapshot struct {
	tenant   *entity.Tenant
	features []*entity.TenantFeature
	index    map[string]*entity.TenantFeature
	loading  bool
}

func newSnapshot(t *entity.Tenant, features []*entity.TenantFeature, catalog constant.Catalog) *snapshot {
	ordered := orderFeatures(features, catalog)
	index := make(map[string]*entity.TenantFeature, len(ordered))
	for _, f := range ordered {
		index[f.FeatureKey] = f
	}
	return &snapshot{tenant: t, features: ordered, index: index}
}

// orderFeatures puts catalog keys first in catalog order, then any other
// stored keys alphabetically.
func orderFeatures(features []*entity.TenantFeature, catalog constant.Catalog) []*entity.TenantFeature {
	rank := make(map[string]int, len(catalog))
	for i, k := range catalog {
		rank[string(k)] = i
	}
	out := make([]*entity.TenantFeature, len(features))
	copy(out, features)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].FeatureKey]
		rj, jok := rank[out[j].FeatureKey]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].FeatureKey < out[j].FeatureKey
		}
	})
	return out
}

// Snapshot is a caller-owned copy of the store state.
type Snapshot struct {
	Tenant   *entity.Tenant
	Features []entity.TenantFeature
	Loading  bool
}

// Store is the per-session tenant context: one resolved tenant plus its
// feature rows. Reads are lock-free copies of an immutable snapshot.
type Store struct {
	userID uuid.UUID
	deps   Deps

	mu   sync.RWMutex
	snap *snapshot

	loadMu sync.Mutex
}

func NewStore(userID uuid.UUID, deps Deps) *Store {
	if deps.Publisher == nil {
		deps.Publisher = NopPublisher()
	}
	if deps.Gate == nil {
		deps.Gate = NewMutationGate()
	}
	if deps.Catalog == nil {
		deps.Catalog = constant.DefaultCatalog
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Store{
		userID: userID,
		deps:   deps,
		snap:   &snapshot{loading: true, index: map[string]*entity.TenantFeature{}},
	}
}

func (s *Store) UserID() uuid.UUID {
	return s.userID
}

func (s *Store) Catalog() constant.Catalog {
	return s.deps.Catalog
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) swap(next *snapshot) *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snap
	s.snap = next
	return prev
}

// Tenant returns a copy of the current tenant, or nil.
func (s *Store) Tenant() *entity.Tenant {
	return s.current().tenant.Clone()
}

func (s *Store) IsLoading() bool {
	return s.current().loading
}

// Features returns copies of the loaded rows, catalog order first.
func (s *Store) Features() []entity.TenantFeature {
	snap := s.current()
	out := make([]entity.TenantFeature, 0, len(snap.features))
	for _, f := range snap.features {
		out = append(out, *f.Clone())
	}
	return out
}

func (s *Store) Feature(key constant.FeatureKey) (entity.TenantFeature, bool) {
	f, ok := s.current().index[string(key)]
	if !ok {
		return entity.TenantFeature{}, false
	}
	return *f.Clone(), true
}

func (s *Store) Snapshot() Snapshot {
	snap := s.current()
	out := Snapshot{Tenant: snap.tenant.Clone(), Loading: snap.loading}
	out.Features = make([]entity.TenantFeature, 0, len(snap.features))
	for _, f := range snap.features {
		out.Features = append(out.Features, *f.Clone())
	}
	return out
}

// Load resolves the tenant and its feature rows. ErrNotFound leaves an empty
// store; *ResolutionError keeps the last good snapshot.
func (s *Store) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ctx, span := tracer.Start(ctx, OpLoad, trace.WithAttributes(attribute.String("user.id", s.userID.String())))
	defer span.End()

	t, err := s.deps.Resolver.Resolve(ctx, s.userID)
	if errors.Is(err, ErrNotFound) {
		prev := s.swap(&snapshot{index: map[string]*entity.TenantFeature{}})
		if prev.tenant != nil {
			s.publish(ctx, Change{Kind: ChangeLoaded, TenantID: prev.tenant.Id, TenantReplaced: true})
		}
		span.SetAttributes(attribute.Bool("tenant.found", false))
		return err
	}
	if err != nil {
		s.keepLastKnownGood()
		s.fail(span, err)
		return err
	}

	rows, err := s.deps.Factory.NewUnitOfWork(ctx).TenantFeatureRepository().FindByTenantID(ctx, t.Id)
	if err != nil {
		s.keepLastKnownGood()
		rerr := &ResolutionError{UserID: s.userID, Err: fmt.Errorf("load features: %w", err)}
		s.fail(span, rerr)
		return rerr
	}
	for _, row := range rows {
		if row.ConfigMalformed {
			s.deps.Logger.Warn("TENANT_STORE", "Feature config is not a JSON object, treating as {}", map[string]interface{}{
				"tenant_id":   t.Id.String(),
				"feature_key": row.FeatureKey,
			})
			s.deps.Metrics.MalformedConfig()
		}
	}

	s.swap(newSnapshot(t, rows, s.deps.Catalog))
	span.SetAttributes(attribute.String("tenant.id", t.Id.String()), attribute.Int("tenant.features", len(rows)))
	s.publish(ctx, Change{Kind: ChangeLoaded, TenantID: t.Id, Tenant: t.Clone(), TenantReplaced: true})
	return nil
}

func (s *Store) keepLastKnownGood() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snap.loading {
		return
	}
	next := *s.snap
	next.loading = false
	s.snap = &next
}

// UpdateTenant merges patch into the tenant. Only the fields present in the
// patch are written; an empty patch is a no-op.
func (s *Store) UpdateTenant(ctx context.Context, patch entity.TenantPatch) error {
	cur := s.current()
	if cur.tenant == nil {
		return s.reject(OpUpdateTenant, ErrNoTenant)
	}
	if patch.IsEmpty() {
		return nil
	}
	for field, value := range patch.Colors() {
		if !validation.IsHexRGB(value) {
			return s.reject(OpUpdateTenant, fmt.Errorf("%w: %s=%q", ErrInvalidColor, field, value))
		}
	}
	tenantID := cur.tenant.Id

	ctx, span := tracer.Start(ctx, OpUpdateTenant, trace.WithAttributes(attribute.String("tenant.id", tenantID.String())))
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.deps.Gate.Lock(ctx, tenantID)
	if err != nil {
		return s.failUpdate(span, OpUpdateTenant, err)
	}
	defer unlock()

	if err := s.deps.Factory.NewUnitOfWork(ctx).TenantRepository().UpdateFields(ctx, tenantID, patch); err != nil {
		return s.failUpdate(span, OpUpdateTenant, err)
	}

	s.mu.Lock()
	base := s.snap
	if base.tenant == nil || base.tenant.Id != tenantID {
		// A concurrent Load moved the session to another tenant; the write
		// stands but this snapshot no longer describes it.
		s.mu.Unlock()
		s.deps.Metrics.Mutation(OpUpdateTenant, "ok")
		return nil
	}
	merged := base.tenant.Clone()
	patch.ApplyTo(merged)
	merged.UpdatedAt = time.Now()
	next := *base
	next.tenant = merged
	s.snap = &next
	s.mu.Unlock()

	s.deps.Metrics.Mutation(OpUpdateTenant, "ok")
	s.publish(ctx, Change{Kind: ChangeTenantUpdated, TenantID: tenantID, Tenant: merged.Clone(), TenantReplaced: true})
	return nil
}

// ToggleFeature upserts the (tenant, key) row writing is_enabled only.
// A catalog key without a row is provisioned with an empty config.
func (s *Store) ToggleFeature(ctx context.Context, key constant.FeatureKey, enabled bool) error {
	if !key.IsValid() || !s.deps.Catalog.Contains(key) {
		return s.reject(OpToggleFeature, fmt.Errorf("%w: %q", ErrUnknownFeature, key))
	}
	cur := s.current()
	if cur.tenant == nil {
		return s.reject(OpToggleFeature, ErrNoTenant)
	}
	tenantID := cur.tenant.Id

	ctx, span := tracer.Start(ctx, OpToggleFeature, trace.WithAttributes(
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("feature.key", string(key)),
		attribute.Bool("feature.enabled", enabled),
	))
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.deps.Gate.Lock(ctx, tenantID)
	if err != nil {
		return s.failUpdate(span, OpToggleFeature, err)
	}
	defer unlock()

	row := &entity.TenantFeature{
		TenantId:   tenantID,
		FeatureKey: string(key),
		IsEnabled:  enabled,
		Config:     map[string]interface{}{},
	}
	if err := s.deps.Factory.NewUnitOfWork(ctx).TenantFeatureRepository().Upsert(ctx, row); err != nil {
		return s.failUpdate(span, OpToggleFeature, err)
	}

	s.mu.Lock()
	base := s.snap
	if base.tenant == nil || base.tenant.Id != tenantID {
		s.mu.Unlock()
		s.deps.Metrics.Mutation(OpToggleFeature, "ok")
		return nil
	}
	features := make([]*entity.TenantFeature, 0, len(base.features)+1)
	for _, f := range base.features {
		if f.FeatureKey != row.FeatureKey {
			features = append(features, f)
		}
	}
	features = append(features, row)
	next := newSnapshot(base.tenant, features, s.deps.Catalog)
	s.snap = next
	s.mu.Unlock()

	s.deps.Metrics.Mutation(OpToggleFeature, "ok")
	s.publish(ctx, Change{Kind: ChangeFeatureToggled, TenantID: tenantID, FeatureKey: row.FeatureKey, Enabled: row.IsEnabled})
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.deps.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.deps.Timeout)
}

func (s *Store) reject(op string, err error) error {
	s.deps.Metrics.Mutation(op, "rejected")
	return &UpdateError{Op: op, Err: err}
}

func (s *Store) failUpdate(span trace.Span, op string, err error) error {
	uerr := &UpdateError{Op: op, Err: err}
	s.fail(span, uerr)
	s.deps.Metrics.Mutation(op, "failed")
	s.deps.Logger.Error("TENANT_STORE", "Mutation failed, snapshot unchanged", map[string]interface{}{
		"op":      op,
		"user_id": s.userID.String(),
		"error":   err.Error(),
	})
	return uerr
}

func (s *Store) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// publish is fire-and-forget; the state is already committed.
func (s *Store) publish(ctx context.Context, change Change) {
	change.UserID = s.userID
	change.OccurredAt = time.Now()
	if err := s.deps.Publisher.Publish(context.WithoutCancel(ctx), change); err != nil {
		s.deps.Logger.Warn("TENANT_STORE", "Failed to publish change", map[string]interface{}{
			"kind":  string(change.Kind),
			"error": err.Error(),
		})
	}
}
