// Package resolver maps free-text company references to canonical
// identities backed by the bulk company registry. Lookup runs against an
// in-memory index built once per process from a cached snapshot.
package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// DefaultCandidateLimit caps the candidates carried by a disambiguation.
const DefaultCandidateLimit = 10

// RegistrySource fetches a fresh registry snapshot from upstream.
type RegistrySource interface {
	DownloadRegistry(ctx context.Context) (*models.RegistrySnapshot, error)
}

// Resolver resolves company references against the registry index.
// Safe for concurrent use once loaded.
type Resolver struct {
	mu             sync.RWMutex
	loaded         bool
	byTicker       map[string]models.RegistryCompany
	byName         map[string]models.RegistryCompany
	byNormName     map[string]models.RegistryCompany
	companies      []models.RegistryCompany
	candidateLimit int

	storage interfaces.RegistryStorage
	source  RegistrySource
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.IdentityResolver = (*Resolver)(nil)

// Option configures the Resolver.
type Option func(*Resolver)

// WithCandidateLimit caps disambiguation candidate lists.
func WithCandidateLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.candidateLimit = n
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver over a snapshot cache and an upstream source.
func New(storage interfaces.RegistryStorage, source RegistrySource, opts ...Option) *Resolver {
	r := &Resolver{
		candidateLimit: DefaultCandidateLimit,
		storage:        storage,
		source:         source,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// EnsureLoaded builds the index if it has not been built yet. The cached
// snapshot is used when present; otherwise the registry is downloaded once
// and cached. Idempotent and safe under concurrent callers.
func (r *Resolver) EnsureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	snapshot, err := r.storage.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load registry snapshot: %w", err)
	}

	if snapshot == nil || len(snapshot.Companies) == 0 {
		snapshot, err = r.downloadAndCache(ctx)
		if err != nil {
			return err
		}
	}

	r.buildIndexLocked(snapshot)
	return nil
}

// Refresh discards any cached snapshot, downloads the registry again and
// rebuilds the index.
func (r *Resolver) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, err := r.downloadAndCache(ctx)
	if err != nil {
		return err
	}

	r.buildIndexLocked(snapshot)
	return nil
}

func (r *Resolver) downloadAndCache(ctx context.Context) (*models.RegistrySnapshot, error) {
	if r.source == nil {
		return nil, fmt.Errorf("no registry source configured")
	}

	snapshot, err := r.source.DownloadRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh registry: %w", err)
	}

	if err := r.storage.SaveSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("failed to cache registry snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *Resolver) buildIndexLocked(snapshot *models.RegistrySnapshot) {
	r.byTicker = make(map[string]models.RegistryCompany, len(snapshot.Companies))
	r.byName = make(map[string]models.RegistryCompany, len(snapshot.Companies))
	r.byNormName = make(map[string]models.RegistryCompany, len(snapshot.Companies))
	r.companies = snapshot.Companies

	for _, c := range snapshot.Companies {
		r.byTicker[c.StockCode] = c
		if _, exists := r.byName[c.Name]; !exists {
			r.byName[c.Name] = c
		}
		norm := common.NormalizeName(c.Name)
		if _, exists := r.byNormName[norm]; !exists {
			r.byNormName[norm] = c
		}
	}

	r.loaded = true

	if r.logger != nil {
		r.logger.Info().Int("companies", len(r.companies)).Msg("Company registry index built")
	}
}

func identity(c models.RegistryCompany) *models.CompanyIdentity {
	return &models.CompanyIdentity{
		DisplayName: c.Name,
		StockCode:   c.StockCode,
		CorpCode:    c.CorpCode,
		Status:      "resolved",
	}
}
