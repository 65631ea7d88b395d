package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// KeywordStat es una fila del ranking de búsquedas
type KeywordStat struct {
	Keyword      string    `db:"keyword" json:"keyword"`
	Count        int64     `db:"search_count" json:"count"`
	LastSearched time.Time `db:"last_searched" json:"last_searched"`
}

// LocationStat es una fila del ranking de ubicaciones por cantidad de listings
type LocationStat struct {
	LocationID   uint   `db:"location_id" json:"location_id"`
	City         string `db:"city" json:"city"`
	State        string `db:"state" json:"state"`
	ZipCode      string `db:"zip_code" json:"zip_code"`
	Country      string `db:"country" json:"country"`
	ListingCount int64  `db:"listing_count" json:"listing_count"`
}

// AnalyticsRepository ejecuta las consultas agregadas en SQL plano
type AnalyticsRepository interface {
	TopKeywords(ctx context.Context, since time.Time, limit int) ([]KeywordStat, error)
	TopLocations(ctx context.Context, limit int) ([]LocationStat, error)
}

type analyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository recibe una conexión sqlx sobre la misma base que usa GORM
func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// TopKeywords agrupa las búsquedas por palabra clave desde since
func (r *analyticsRepository) TopKeywords(ctx context.Context, since time.Time, limit int) ([]KeywordStat, error) {
	const query = `
		SELECT LOWER(keyword) AS keyword, COUNT(*) AS search_count, MAX(searched_at) AS last_searched
		FROM search_logs
		WHERE searched_at >= ?
		GROUP BY LOWER(keyword)
		ORDER BY search_count DESC, last_searched DESC
		LIMIT ?
	`
	stats := []KeywordStat{}
	if err := r.db.SelectContext(ctx, &stats, r.db.Rebind(query), since, limit); err != nil {
		return nil, fmt.Errorf("AnalyticsRepository.TopKeywords: %w", err)
	}
	return stats, nil
}

// TopLocations devuelve las ubicaciones con más listings
func (r *analyticsRepository) TopLocations(ctx context.Context, limit int) ([]LocationStat, error) {
	const query = `
		SELECT l.id AS location_id, l.city, l.state, l.zip_code, l.country, COUNT(li.id) AS listing_count
		FROM locations l
		JOIN listings li ON li.location_id = l.id
		GROUP BY l.id, l.city, l.state, l.zip_code, l.country
		ORDER BY listing_count DESC, l.id ASC
		LIMIT ?
	`
	stats := []LocationStat{}
	if err := r.db.SelectContext(ctx, &stats, r.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("AnalyticsRepository.TopLocations: %w", err)
	}
	return stats, nil
}
