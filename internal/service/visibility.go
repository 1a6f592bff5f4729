package service

import (
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

// CanViewOriginal decides whether a viewer gets the full-resolution asset
// of a message: the content is not exclusive, the viewer authored it, or
// the viewer purchased it (on the record or per the purchase oracle).
// Recomputed per viewer on every read, never stored.
func CanViewOriginal(viewerID string, senderID string, isExclusive bool, purchasedBy []string, oraclePurchased bool) bool {
	if !isExclusive {
		return true
	}
	if viewerID == senderID {
		return true
	}
	for _, u := range purchasedBy {
		if u == viewerID {
			return true
		}
	}
	return oraclePurchased
}

// ResolveAssetViews maps a message's assets to the URLs a viewer may see.
func ResolveAssetViews(viewerID string, m *models.Message, oraclePurchased bool, assets []*models.Asset, urls URLResolver) []models.AssetView {
	if len(assets) == 0 {
		return nil
	}
	original := CanViewOriginal(viewerID, m.SenderID, m.IsExclusive, m.PurchasedBy, oraclePurchased)
	views := make([]models.AssetView, 0, len(assets))
	for _, a := range assets {
		key := a.OriginalKey
		if !original {
			key = a.BlurredKey
		}
		views = append(views, models.AssetView{ID: a.ID, URL: urls.URL(key), Blurred: !original})
	}
	return views
}
