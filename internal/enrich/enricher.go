package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/signalis/connector-cli/internal/cache"
	"github.com/signalis/connector-cli/internal/enrich/provider"
	"github.com/signalis/connector-cli/internal/model"
)

// DefaultWorkers bounds batch concurrency. Three concurrent records keeps
// the combined request rate inside every vendor's limits.
const DefaultWorkers = 3

// ProgressFunc is invoked after each record in a batch completes, in
// completion order.
type ProgressFunc func(completed, total int)

// Enricher routes records through the classify → cache → waterfall pipeline.
type Enricher struct {
	registry *provider.Registry
	verifier provider.Verifier // nil when no verify credential is configured
	store    *cache.Store
	routes   Routes
	workers  int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithVerifier sets the email verification provider.
func WithVerifier(v provider.Verifier) Option {
	return func(e *Enricher) { e.verifier = v }
}

// WithRoutes overrides the default waterfall routes.
func WithRoutes(routes Routes) Option {
	return func(e *Enricher) {
		if routes != nil {
			e.routes = routes
		}
	}
}

// WithWorkers overrides the batch worker pool width.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Enricher over the given providers and cache store.
func New(registry *provider.Registry, store *cache.Store, opts ...Option) *Enricher {
	e := &Enricher{
		registry: registry,
		store:    store,
		routes:   DefaultRoutes(),
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichRecord enriches a single record in place: a successful lookup copies
// the discovered email and name fields onto the record. Every outcome is
// reported through the result; EnrichRecord never fails.
func (e *Enricher) EnrichRecord(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	start := time.Now()
	result := e.enrich(ctx, record)
	result.DurationMS = float64(time.Since(start).Microseconds()) / 1000
	return result
}

func (e *Enricher) enrich(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	action := Classify(record)
	log := zap.L().With(
		zap.String("record", record.RecordKey),
		zap.String("action", string(action)),
	)

	switch action {
	case model.ActionVerify:
		return e.verify(ctx, record)

	case model.ActionCannotRoute:
		return &model.EnrichmentResult{
			Action:  action,
			Outcome: model.OutcomeMissingInput,
			Source:  model.SourceNone,
			InputsPresent: map[string]bool{
				"email":       false,
				"domain":      record.Domain != "",
				"company":     record.Company != "",
				"person_name": record.FirstName != "" || record.FullName != "",
			},
		}
	}

	// FIND/SEARCH: cache first, then the provider waterfall.
	if contact, ok := e.store.Get(record); ok {
		log.Debug("cache hit", zap.String("source", contact.Source))
		applyContact(record, contact)
		return &model.EnrichmentResult{
			Action:        action,
			Outcome:       model.OutcomeEnriched,
			Email:         contact.Email,
			FirstName:     contact.FirstName,
			LastName:      contact.LastName,
			Title:         contact.Title,
			Verified:      contact.Verified,
			Source:        contact.Source,
			InputsPresent: map[string]bool{"cached": true},
		}
	}

	var attempted []string
	for _, name := range e.routes.For(action) {
		finder := e.registry.Get(name)
		if finder == nil {
			continue // provider not configured
		}

		attempted = append(attempted, name)
		result := finder.Find(ctx, record)
		if result == nil {
			continue // provider outage or nonsense response: try the next one
		}
		result.Action = action
		result.ProvidersAttempted = attempted

		switch result.Outcome {
		case model.OutcomeEnriched:
			applyResult(record, result)
			if err := e.store.Put(record, result); err != nil {
				log.Warn("cache write failed", zap.Error(err))
			}
			return result

		case model.OutcomeAuthError, model.OutcomeCreditsExhausted:
			// One dead credential stops the whole cascade for this record.
			log.Warn("waterfall aborted",
				zap.String("provider", name),
				zap.String("outcome", string(result.Outcome)),
			)
			return result
		}

		log.Debug("provider miss",
			zap.String("provider", name),
			zap.String("outcome", string(result.Outcome)),
		)
	}

	return &model.EnrichmentResult{
		Action:             action,
		Outcome:            model.OutcomeNotFound,
		Source:             model.SourceNone,
		ProvidersAttempted: attempted,
		InputsPresent: map[string]bool{
			"domain":      record.Domain != "",
			"company":     record.Company != "",
			"person_name": record.FirstName != "" || record.FullName != "",
		},
	}
}

// verify checks an existing email when a verifier is configured; without a
// definitive verdict the pre-existing email is trusted as-is.
func (e *Enricher) verify(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	if e.verifier != nil {
		if result := e.verifier.Verify(ctx, record.Email); result != nil {
			result.Action = model.ActionVerify
			return result
		}
	}

	return &model.EnrichmentResult{
		Action:        model.ActionVerify,
		Outcome:       model.OutcomeEnriched,
		Email:         record.Email,
		FirstName:     record.FirstName,
		LastName:      record.LastName,
		Title:         record.Title,
		Verified:      true,
		Source:        model.SourceExisting,
		InputsPresent: map[string]bool{"email": true},
	}
}

// EnrichBatch drives records through EnrichRecord on a bounded worker pool
// and collects results keyed by record identity. Individual records never
// fail the batch; the batch finishes only when every record has.
func (e *Enricher) EnrichBatch(ctx context.Context, records []*model.NormalizedRecord, onProgress ProgressFunc) map[string]*model.EnrichmentResult {
	results := make(map[string]*model.EnrichmentResult, len(records))
	total := len(records)

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, record := range records {
		record := record
		g.Go(func() error {
			result := e.EnrichRecord(gctx, record)

			mu.Lock()
			results[record.RecordKey] = result
			completed++
			done := completed
			if onProgress != nil {
				onProgress(done, total)
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // workers never return errors

	return results
}

// applyContact copies cached contact fields onto the record.
func applyContact(record *model.NormalizedRecord, contact *model.CachedContact) {
	record.Email = contact.Email
	if contact.FirstName != "" {
		record.FirstName = contact.FirstName
	}
	if contact.LastName != "" {
		record.LastName = contact.LastName
	}
	if contact.Title != "" {
		record.Title = contact.Title
	}
}

// applyResult copies a successful enrichment onto the record.
func applyResult(record *model.NormalizedRecord, result *model.EnrichmentResult) {
	record.Email = result.Email
	if result.FirstName != "" {
		record.FirstName = result.FirstName
	}
	if result.LastName != "" {
		record.LastName = result.LastName
	}
	if result.Title != "" {
		record.Title = result.Title
	}
}
