// Package tracksync reconciles a versioned track configuration document
// into the persisted store.
//
// A pass is gated by the module's stored version, walks the configuration
// tree depth-first (categories, items, questions, options) performing
// idempotent upserts, then deactivates everything the configuration no
// longer carries. Entities are never deleted: removal is a cascading
// transition to inactive, which preserves already-recorded responses.
//
// Recoverable problems with a single entity (missing parent, invalid enum
// value, structural change to an existing question) are logged and the
// entity is skipped; the pass carries on. A storage failure aborts the
// pass before the version commit, so the next launch retries the whole
// pass from scratch.
package tracksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/storage"
	"github.com/nikhilrearck/caremap-demo-sub000/internal/trackconfig"
)

// DefaultModule is the config domain this engine was built for
const DefaultModule = "track"

// ErrSyncInProgress is returned when a pass is already running on this Syncer
var ErrSyncInProgress = errors.New("sync pass already in progress")

// Syncer reconciles track configuration documents into a storage backend.
// At most one pass runs at a time per Syncer; overlapping Sync calls fail
// with ErrSyncInProgress instead of racing on storage rows.
type Syncer struct {
	store storage.Storage
	logf  LogFunc
	mu    sync.Mutex // held for the duration of a pass
}

// New creates a Syncer writing through store. A nil logf falls back to
// timestamped stderr output.
func New(store storage.Storage, logf LogFunc) *Syncer {
	if logf == nil {
		logf = StderrLogger()
	}
	return &Syncer{store: store, logf: logf}
}

// Options control a single sync pass
type Options struct {
	Module string // config domain, DefaultModule if empty
	DryRun bool   // report the gate decision without writing
	Force  bool   // run the pass even if the stored version is current
}

// Result reports what a pass did
type Result struct {
	Module        string `json:"module"`
	PassID        string `json:"pass_id"`
	StoredVersion int64  `json:"stored_version"`
	ConfigVersion int64  `json:"config_version"`
	NeedsSync     bool   `json:"needs_sync"`
	Applied       bool   `json:"applied"`

	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Unchanged   int `json:"unchanged"`
	Skipped     int `json:"skipped"`
	Deactivated int `json:"deactivated"`
}

// Sync runs one reconciliation pass of doc against the store.
//
// The pass is all-or-nothing with respect to the version commit: the
// module version row is written only after every upsert and deactivation
// step has completed, so an aborted pass is retried in full on the next
// call. Individual entity skips do not abort the pass.
func (s *Syncer) Sync(ctx context.Context, doc *trackconfig.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil configuration document")
	}

	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	module := opts.Module
	if module == "" {
		module = DefaultModule
	}

	sc := newSyncContext()
	res := &Result{Module: module, PassID: sc.passID, ConfigVersion: doc.Version}

	stored, err := s.storedVersion(ctx, module)
	if err != nil {
		return nil, err
	}
	res.StoredVersion = stored
	res.NeedsSync = shouldSync(stored, doc.Version)

	if !res.NeedsSync && !opts.Force {
		s.logf("[pass %s] module %s already at version %d, config offers %d, nothing to do",
			sc.passID, module, stored, doc.Version)
		return res, nil
	}
	if opts.DryRun {
		s.logf("[pass %s] dry run: module %s would sync %d -> %d",
			sc.passID, module, stored, doc.Version)
		return res, nil
	}

	s.logf("[pass %s] syncing module %s: version %d -> %d", sc.passID, module, stored, doc.Version)

	// Depth-first upsert over the configuration tree. Categories are
	// processed before the items that reference them, items before their
	// questions, questions before their options.
	for _, cat := range doc.PredefinedTrackCategories {
		if err := s.upsertCategory(ctx, sc, res, cat); err != nil {
			return res, err
		}
		for _, item := range doc.ItemsForCategory(cat.Code) {
			if err := s.upsertItem(ctx, sc, res, item); err != nil {
				return res, err
			}
			for _, q := range item.Questions {
				if err := s.upsertQuestion(ctx, sc, res, item.Code, q); err != nil {
					return res, err
				}
			}
		}
	}

	// Conditions referencing options removed by this same update must be
	// caught against the final post-upsert option set, before the missing
	// sweeps run.
	if err := s.deactivateQuestionsWithInvalidConditions(ctx, sc, res, doc.OptionCodes()); err != nil {
		return res, err
	}

	if err := s.deactivateMissingCategories(ctx, sc, res, doc.CategoryCodes()); err != nil {
		return res, err
	}
	if err := s.deactivateMissingItems(ctx, sc, res, doc.ItemCodes()); err != nil {
		return res, err
	}
	if err := s.deactivateMissingQuestions(ctx, sc, res, doc.QuestionCodes()); err != nil {
		return res, err
	}
	if err := s.deactivateMissingOptions(ctx, sc, res, doc.OptionCodes()); err != nil {
		return res, err
	}

	// Version commit happens last; a crash anywhere above leaves the
	// stored version untouched and the whole pass retries next launch.
	if err := s.store.UpsertModuleVersion(ctx, module, doc.Version, time.Now()); err != nil {
		return res, fmt.Errorf("failed to commit module version: %w", err)
	}
	res.Applied = true

	s.logf("[pass %s] module %s now at version %d: %d created, %d updated, %d unchanged, %d skipped, %d deactivated",
		sc.passID, module, doc.Version, res.Created, res.Updated, res.Unchanged, res.Skipped, res.Deactivated)
	return res, nil
}
