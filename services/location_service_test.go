package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
)

func austin() dto.LocationInput {
	return dto.LocationInput{Address: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", Country: "US"}
}

func TestCreateLocation_Dedupes(t *testing.T) {
	locations := newMockLocationRepository()
	service := NewLocationService(locations, &mockAnalyticsRepository{})
	ctx := context.Background()

	first, created, err := service.Create(ctx, austin())
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := service.Create(ctx, austin())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	in := austin()
	in.Latitude = floatPtr(30)
	_, _, err = service.Create(ctx, in)
	assertKind(t, err, ErrValidation)
}

func TestSearchLocations(t *testing.T) {
	locations := newMockLocationRepository()
	service := NewLocationService(locations, &mockAnalyticsRepository{})
	ctx := context.Background()
	_, _, err := service.Create(ctx, austin())
	require.NoError(t, err)

	_, err = service.Search(ctx, repositories.LocationFilter{})
	assertKind(t, err, ErrValidation)

	found, err := service.Search(ctx, repositories.LocationFilter{City: "aus"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = service.Search(ctx, repositories.LocationFilter{City: "Boston"})
	assertKind(t, err, ErrNotFound)
}

func TestUpdateLocation_Conflict(t *testing.T) {
	locations := newMockLocationRepository()
	service := NewLocationService(locations, &mockAnalyticsRepository{})
	ctx := context.Background()
	first, _, _ := service.Create(ctx, austin())
	other := austin()
	other.Address = "2 Main St"
	second, _, _ := service.Create(ctx, other)

	_, err := service.Update(ctx, second.ID, austin())
	assertKind(t, err, ErrConflict)

	in := austin()
	in.ZipCode = "78702"
	updated, err := service.Update(ctx, first.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "78702", updated.ZipCode)
}

func TestDeleteLocation_InUse(t *testing.T) {
	locations := newMockLocationRepository()
	service := NewLocationService(locations, &mockAnalyticsRepository{})
	ctx := context.Background()
	loc, _, _ := service.Create(ctx, austin())
	locations.refs[loc.ID] = [2]int64{1, 0}

	assertKind(t, service.Delete(ctx, loc.ID), ErrValidation)

	delete(locations.refs, loc.ID)
	require.NoError(t, service.Delete(ctx, loc.ID))
	assertKind(t, service.Delete(ctx, loc.ID), ErrNotFound)
}

func TestLocationAnalytics_Top20(t *testing.T) {
	analytics := &mockAnalyticsRepository{locations: []repositories.LocationStat{{LocationID: 1, City: "Austin", ListingCount: 3}}}
	service := NewLocationService(newMockLocationRepository(), analytics)

	stats, err := service.Analytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats, 1)
	assert.Equal(t, 20, analytics.limit)
}
