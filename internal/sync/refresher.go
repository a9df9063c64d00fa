package sync

import (
	"context"
	"sync/atomic"

	"github.com/ScribblesProject/tams/pkg/models"
	"go.uber.org/zap"
)

// Lister is the one backend operation the refresh path needs.
type Lister interface {
	List(ctx context.Context) []models.Asset
}

// Refresher owns the displayed-collection snapshot for a single view and
// decides, via Differs, whether a fetch requires re-rendering. Each view
// (list, map) holds its own Refresher; snapshots are never shared.
//
// Refresh calls are serialized by dropping: a call while another is
// outstanding does nothing and reports false.
type Refresher struct {
	lister   Lister
	log      *zap.Logger
	onChange func([]models.Asset)

	busy     atomic.Bool
	snapshot []models.Asset
}

// NewRefresher builds a refresher for one view. onChange fires with the new
// collection only when the diff engine detects a change; it may be nil.
func NewRefresher(lister Lister, log *zap.Logger, onChange func([]models.Asset)) *Refresher {
	return &Refresher{lister: lister, log: log, onChange: onChange}
}

// Refresh fetches the asset list, replaces the snapshot wholesale, and fires
// onChange if the collection differs from what was displayed. Returns false
// if the call was dropped because a refresh was already outstanding.
func (r *Refresher) Refresh(ctx context.Context) bool {
	if !r.busy.CompareAndSwap(false, true) {
		r.log.Debug("refresh dropped, one already outstanding")
		return false
	}
	defer r.busy.Store(false)

	fetched := r.lister.List(ctx)
	changed := Differs(r.snapshot, fetched)
	r.snapshot = fetched

	if changed {
		r.log.Debug("asset collection changed", zap.Int("count", len(fetched)))
		if r.onChange != nil {
			r.onChange(fetched)
		}
	}
	return true
}

// Snapshot returns the last collection this view rendered. Only the view's
// own refresh call site mutates it, so no locking beyond the refresh latch.
func (r *Refresher) Snapshot() []models.Asset {
	return r.snapshot
}
