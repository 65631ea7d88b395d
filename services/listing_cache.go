package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/mreimer702/Rettnar/repositories"
)

const listingsCacheNamespace = "listings"

func listingDetailKey(id uint) string {
	return fmt.Sprintf("%s:detail:%d", listingsCacheNamespace, id)
}

// listingSearchKey incluye la generación actual: al invalidar, las búsquedas viejas quedan inaccesibles
func listingSearchKey(ctx context.Context, cache repositories.CacheRepository, filter repositories.ListingFilter) string {
	raw, _ := json.Marshal(filter)
	sum := sha256.Sum256(raw)
	gen := cache.Generation(ctx, listingsCacheNamespace)
	return fmt.Sprintf("%s:search:g%d:%s", listingsCacheNamespace, gen, hex.EncodeToString(sum[:16]))
}

// invalidateListing se llama después de cualquier cambio en un listing, sus imágenes o reseñas
func invalidateListing(ctx context.Context, cache repositories.CacheRepository, id uint) {
	if cache == nil {
		return
	}
	cache.Delete(ctx, listingDetailKey(id))
	cache.BumpGeneration(ctx, listingsCacheNamespace)
}
