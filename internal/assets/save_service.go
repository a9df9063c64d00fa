package assets

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ScribblesProject/tams/internal/backend"
	"github.com/ScribblesProject/tams/pkg/models"
	"go.uber.org/zap"
)

// ErrSaveInFlight is returned when Save is called while a previous save has
// not completed. The caller sees the condition instead of surprise queueing.
var ErrSaveInFlight = errors.New("a save operation is already in flight")

// Backend is the slice of the REST client the save flow needs. Satisfied by
// *backend.Client; mocked in tests.
type Backend interface {
	Create(ctx context.Context, asset models.Asset) (bool, int)
	Update(ctx context.Context, asset models.Asset) bool
	UploadImage(ctx context.Context, assetID int, image []byte, progress backend.ProgressFunc) bool
	UploadMemo(ctx context.Context, assetID int, fileRef string, progress backend.ProgressFunc) bool
}

// Result aggregates the outcome of one save. Success covers the metadata
// round-trip only: the asset is persisted server-side once Success is true,
// and the per-medium flags say which uploads made it. The caller is
// responsible for surfacing partial failure distinctly per medium.
type Result struct {
	Success       bool
	AssetID       int
	ImageUploaded bool
	MemoUploaded  bool
}

// SaveService sequences one save: metadata submit (create, update-if-changed,
// or id reuse), then image upload, then memo upload. Steps are strictly
// sequential; media failures are non-fatal, metadata failure is terminal.
type SaveService struct {
	backend Backend
	log     *zap.Logger
	saving  atomic.Bool

	// OnProgress, when set, receives upload progress per medium
	// ("image" or "memo") with a non-decreasing fraction in [0,1].
	OnProgress func(medium string, fraction float64)
}

func NewSaveService(b Backend, log *zap.Logger) *SaveService {
	return &SaveService{backend: b, log: log}
}

// Save consumes the session. A validation failure or an in-flight save is
// reported as an error and issues no network calls; every other failure is
// carried in the Result per the wire contract's boolean collapse.
func (s *SaveService) Save(ctx context.Context, session *EditSession) (Result, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return Result{}, ErrSaveInFlight
	}
	defer s.saving.Store(false)

	if err := session.Validate(); err != nil {
		return Result{}, err
	}

	asset := session.Compose()

	assetID, ok := s.submitMetadata(ctx, session, asset)
	if !ok {
		return Result{}, nil
	}

	result := Result{Success: true, AssetID: assetID}

	if session.HasPendingImage() {
		s.log.Info("uploading asset image", zap.Int("id", assetID))
		result.ImageUploaded = s.backend.UploadImage(ctx, assetID, session.pendingImage, s.progressFunc("image"))
		if !result.ImageUploaded {
			s.log.Warn("asset image upload failed", zap.Int("id", assetID))
		}
	}

	if session.HasPendingMemo() {
		s.log.Info("uploading asset voice memo", zap.Int("id", assetID))
		result.MemoUploaded = s.backend.UploadMemo(ctx, assetID, session.pendingMemoFileRef, s.progressFunc("memo"))
		if !result.MemoUploaded {
			s.log.Warn("asset voice memo upload failed", zap.Int("id", assetID))
		}
	}

	return result, nil
}

// submitMetadata runs the first step of the pipeline and resolves the asset
// id the uploads target. For an update session whose composed asset equals
// the original, the network round-trip is skipped and the existing id reused.
func (s *SaveService) submitMetadata(ctx context.Context, session *EditSession, asset models.Asset) (int, bool) {
	if !session.IsUpdate() {
		s.log.Info("creating asset", zap.String("name", asset.Name))
		ok, id := s.backend.Create(ctx, asset)
		if !ok {
			s.log.Warn("asset create failed", zap.String("name", asset.Name))
			return 0, false
		}
		return id, true
	}

	if !session.NeedsUpdate(asset) {
		s.log.Debug("asset unchanged, skipping update", zap.Int("id", asset.ID))
		return asset.ID, true
	}

	s.log.Info("updating asset", zap.Int("id", asset.ID))
	if !s.backend.Update(ctx, asset) {
		s.log.Warn("asset update failed", zap.Int("id", asset.ID))
		return 0, false
	}
	return asset.ID, true
}

func (s *SaveService) progressFunc(medium string) backend.ProgressFunc {
	if s.OnProgress == nil {
		return nil
	}
	return func(fraction float64) {
		s.OnProgress(medium, fraction)
	}
}
