package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/storage"
)

// AssetService ingests pre-rendered media: the caller supplies both the
// original and the blurred variant, already processed upstream. The service
// only stores objects and records, it never touches pixels.
type AssetService struct {
	assets repository.AssetRepository
	store  storage.ObjectStore
	log    *zap.SugaredLogger
}

func NewAssetService(assets repository.AssetRepository, store storage.ObjectStore, log *zap.SugaredLogger) *AssetService {
	return &AssetService{assets: assets, store: store, log: log}
}

// Upload stores both variants under asset-scoped keys and persists the
// record linking them.
func (s *AssetService) Upload(ctx context.Context, ownerID, contentType string, original, blurred []byte) (*models.Asset, error) {
	if len(original) == 0 || len(blurred) == 0 {
		return nil, apperr.ErrInvalidRequest
	}

	id := uuid.NewString()
	originalKey := fmt.Sprintf("assets/%s/%s/original", ownerID, id)
	blurredKey := fmt.Sprintf("assets/%s/%s/blurred", ownerID, id)

	if _, err := s.store.Upload(ctx, originalKey, contentType, original); err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}
	if _, err := s.store.Upload(ctx, blurredKey, contentType, blurred); err != nil {
		// keep the store consistent when the second put fails
		if derr := s.store.Delete(ctx, originalKey); derr != nil {
			s.log.Warnw("rollback original object", "key", originalKey, "err", derr)
		}
		return nil, fmt.Errorf("upload blurred: %w", err)
	}

	a := models.NewAsset(ownerID, originalKey, blurredKey, contentType)
	a.ID = id
	if err := s.assets.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	return a, nil
}

// Delete removes both objects and the record. Owner-only.
func (s *AssetService) Delete(ctx context.Context, ownerID, assetID string) error {
	found, err := s.assets.GetByIDs(ctx, []string{assetID})
	if err != nil {
		return fmt.Errorf("get asset: %w", err)
	}
	if len(found) == 0 {
		return apperr.ErrNotFound
	}
	a := found[0]
	if a.OwnerID != ownerID {
		return apperr.ErrNotAuthorized
	}

	for _, key := range []string{a.OriginalKey, a.BlurredKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warnw("delete object", "key", key, "err", err)
		}
	}
	if err := s.assets.Delete(ctx, assetID); err != nil {
		return fmt.Errorf("delete asset record: %w", err)
	}
	return nil
}
