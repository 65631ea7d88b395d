package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
)

// canManage: el dueño del recurso o un admin
func canManage(actor *domain.User, ownerID uint) bool {
	return actor != nil && (actor.ID == ownerID || actor.IsAdmin())
}

// notFoundOr traduce ErrNotFound del repositorio a un 404 y ErrReferenced a un 409
func notFoundOr(err error, what string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError("%s not found", what)
	case errors.Is(err, repositories.ErrReferenced):
		return conflictError("%s is still referenced by other records", what)
	}
	return err
}

// publish no hace fallar la operación si el broker no responde
func publish(ctx context.Context, pub events.Publisher, ev events.Event) {
	if pub == nil {
		return
	}
	if ev.RequestID == "" {
		ev.RequestID = logger.RequestIDFromContext(ctx)
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warnf("Failed to publish event %s: %v", ev.Type, err)
	}
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return validationError("latitude and longitude must be provided together")
	}
	if lat != nil && (*lat < -90 || *lat > 90 || *lng < -180 || *lng > 180) {
		return validationError("latitude must be between -90 and 90 and longitude between -180 and 180")
	}
	return nil
}

// resolveLocation devuelve la ubicación existente con la misma dirección o crea una nueva
func resolveLocation(ctx context.Context, repo repositories.LocationRepository, in *dto.LocationInput) (*domain.Location, error) {
	loc, err := locationFromInput(in)
	if err != nil {
		return nil, err
	}
	existing, err := repo.FindExact(ctx, loc.Address, loc.City, loc.State, loc.ZipCode)
	if err == nil {
		// Completar coordenadas si la fila existente no las tenía
		if !existing.HasCoordinates() && loc.HasCoordinates() {
			existing.Latitude, existing.Longitude = loc.Latitude, loc.Longitude
			if err := repo.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if err := repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func locationFromInput(in *dto.LocationInput) (*domain.Location, error) {
	loc := &domain.Location{
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		ZipCode:   strings.TrimSpace(in.ZipCode),
		Country:   strings.TrimSpace(in.Country),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if loc.Address == "" || loc.City == "" || loc.State == "" || loc.ZipCode == "" || loc.Country == "" {
		return nil, validationError("address, city, state, zip_code and country are required")
	}
	if err := validateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}
	return loc, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// maxKeywordLength es el largo de la columna search_logs.keyword, en caracteres
const maxKeywordLength = 255

// truncateRunes corta s a n caracteres sin partir uno multibyte
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
