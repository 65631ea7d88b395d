package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
)

type listingFixture struct {
	service    ListingService
	listings   *mockListingRepository
	catalog    *mockCatalogRepository
	locations  *mockLocationRepository
	images     *mockImageRepository
	reviews    *mockReviewRepository
	users      *mockUserRepository
	searchLogs *mockSearchLogRepository
	blobs      *mockBlobRepository
	cache      *mockCache
	subcat     *domain.Subcategory
	owner      *domain.User
}

func newListingFixture() *listingFixture {
	f := &listingFixture{
		listings:   newMockListingRepository(),
		catalog:    newMockCatalogRepository(),
		locations:  newMockLocationRepository(),
		images:     newMockImageRepository(),
		reviews:    newMockReviewRepository(),
		users:      newMockUserRepository(),
		searchLogs: &mockSearchLogRepository{},
		blobs:      newMockBlobRepository(true),
		cache:      newMockCache(),
	}
	f.listings.images = f.images
	f.listings.locations = f.locations
	f.users.listings = f.listings

	ctx := context.Background()
	cat := &domain.Category{Name: "Outdoors"}
	_ = f.catalog.CreateCategory(ctx, cat)
	f.subcat = &domain.Subcategory{Name: "Boats", CategoryID: cat.ID}
	_ = f.catalog.CreateSubcategory(ctx, f.subcat)
	f.owner = f.users.add(&domain.User{FirstName: "Olivia", Email: "owner@example.com"})

	f.service = NewListingService(ListingDeps{
		Listings:   f.listings,
		Catalog:    f.catalog,
		Locations:  f.locations,
		Reviews:    f.reviews,
		Users:      f.users,
		SearchLogs: f.searchLogs,
		Blobs:      f.blobs,
		Cache:      f.cache,
	})
	return f
}

func (f *listingFixture) createRequest(title string) dto.CreateListingRequest {
	return dto.CreateListingRequest{
		Title:         title,
		Description:   "Two-seat kayak",
		Price:         intPtr(40),
		SubcategoryID: f.subcat.ID,
		Location: &dto.LocationInput{
			Address: "1 Lake Rd", City: "Austin", State: "TX", ZipCode: "78701", Country: "US",
		},
		Features: []dto.FeatureInput{{Key: "seats", Value: "2"}, {Key: " "}},
	}
}

// addAt publica un listing con coordenadas directo en el repositorio
func (f *listingFixture) addAt(title string, price int, lat, lng float64) *domain.Listing {
	return f.listings.add(&domain.Listing{
		Title:    title,
		Price:    price,
		OwnerID:  f.owner.ID,
		Location: &domain.Location{City: title, Latitude: floatPtr(lat), Longitude: floatPtr(lng)},
	})
}

func TestCreateListing_Success(t *testing.T) {
	f := newListingFixture()
	amenity := &domain.Amenity{Name: "Life vests"}
	_ = f.catalog.CreateAmenity(context.Background(), amenity)

	req := f.createRequest("Kayak")
	req.AmenityIDs = []uint{amenity.ID, amenity.ID}
	listing, err := f.service.Create(context.Background(), f.owner, req)

	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, listing.OwnerID)
	require.NotNil(t, listing.Location)
	assert.Equal(t, "Austin", listing.Location.City)
	assert.Len(t, listing.Amenities, 1)
	require.Len(t, listing.Features, 1)
	assert.Equal(t, "seats", listing.Features[0].Key)
}

func TestCreateListing_UnknownReferences(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()

	req := f.createRequest("Kayak")
	req.SubcategoryID = 999
	_, err := f.service.Create(ctx, f.owner, req)
	assertKind(t, err, ErrNotFound)

	req = f.createRequest("Kayak")
	req.AmenityIDs = []uint{999}
	_, err = f.service.Create(ctx, f.owner, req)
	assertKind(t, err, ErrNotFound)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	listing, err := f.service.Create(ctx, f.owner, f.createRequest("Kayak"))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, plainUser(50), listing.ID, dto.UpdateListingRequest{Title: strPtr("Stolen")})
	assertKind(t, err, ErrForbidden)

	updated, err := f.service.Update(ctx, adminUser(99), listing.ID, dto.UpdateListingRequest{
		Title:    strPtr("Canoe"),
		Price:    intPtr(55),
		Location: &dto.LocationPatch{City: strPtr("Dallas")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Canoe", updated.Title)
	assert.Equal(t, 55, updated.Price)
	assert.Equal(t, "Dallas", updated.Location.City)
	assert.Equal(t, "1 Lake Rd", updated.Location.Address)
}

// Test: cualquier cambio invalida el detalle cacheado
func TestGetListing_CacheInvalidatedOnUpdate(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	listing, err := f.service.Create(ctx, f.owner, f.createRequest("Kayak"))
	require.NoError(t, err)

	first, err := f.service.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kayak", first.Title)
	assert.Contains(t, f.cache.items, listingDetailKey(listing.ID))

	_, err = f.service.Update(ctx, f.owner, listing.ID, dto.UpdateListingRequest{Title: strPtr("Canoe")})
	require.NoError(t, err)

	second, err := f.service.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canoe", second.Title)
}

func TestSearchListings_Validation(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		q    dto.ListingQuery
	}{
		{"min above max", dto.ListingQuery{MinPrice: intPtr(50), MaxPrice: intPtr(10)}},
		{"lat without lng", dto.ListingQuery{Lat: floatPtr(10)}},
		{"radius without coordinates", dto.ListingQuery{Radius: floatPtr(5)}},
		{"distance sort without coordinates", dto.ListingQuery{Sort: "distance"}},
		{"lat out of range", dto.ListingQuery{Lat: floatPtr(95), Lng: floatPtr(0)}},
		{"lng out of range", dto.ListingQuery{Lat: floatPtr(0), Lng: floatPtr(-181)}},
		{"radius too big", dto.ListingQuery{Lat: floatPtr(0), Lng: floatPtr(0), Radius: floatPtr(501)}},
		{"radius zero", dto.ListingQuery{Lat: floatPtr(0), Lng: floatPtr(0), Radius: floatPtr(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Search(ctx, nil, tc.q)
			assertKind(t, err, ErrValidation)
		})
	}
}

func TestSearchListings_GeoDistance(t *testing.T) {
	f := newListingFixture()
	f.addAt("New York", 10, 40.7128, -74.0060)
	f.addAt("Newark", 20, 40.7357, -74.1724)
	f.addAt("Los Angeles", 30, 34.0522, -118.2437)

	resp, err := f.service.Search(context.Background(), nil, dto.ListingQuery{
		Lat: floatPtr(40.7128), Lng: floatPtr(-74.0060), Radius: floatPtr(50),
	})
	require.NoError(t, err)

	require.Len(t, resp.Listings, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	for _, l := range resp.Listings {
		require.NotNil(t, l.DistanceKm, l.Title)
		assert.Less(t, *l.DistanceKm, 50.0)
	}
	assert.Equal(t, 0.0, *resp.Listings[0].DistanceKm)
	assert.InDelta(t, 14.25, *resp.Listings[1].DistanceKm, 0.3)
}

func TestNearby_RequiresCoordinates(t *testing.T) {
	f := newListingFixture()
	_, err := f.service.Nearby(context.Background(), dto.ListingQuery{})
	assertKind(t, err, ErrValidation)
}

// Test: la búsqueda se cachea hasta que cambia algún listing
func TestSearchListings_CachedUntilMutation(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	listing, err := f.service.Create(ctx, f.owner, f.createRequest("Kayak"))
	require.NoError(t, err)

	q := dto.ListingQuery{MaxPrice: intPtr(100)}
	_, err = f.service.Search(ctx, nil, q)
	require.NoError(t, err)
	_, err = f.service.Search(ctx, nil, q)
	require.NoError(t, err)
	assert.Equal(t, 1, f.listings.searches)

	_, err = f.service.Update(ctx, f.owner, listing.ID, dto.UpdateListingRequest{Price: intPtr(500)})
	require.NoError(t, err)

	resp, err := f.service.Search(ctx, nil, q)
	require.NoError(t, err)
	assert.Equal(t, 2, f.listings.searches)
	assert.Empty(t, resp.Listings)
}

func TestSearchListings_LogsKeywordForUser(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()

	_, err := f.service.Search(ctx, nil, dto.ListingQuery{Search: "kayak"})
	require.NoError(t, err)
	assert.Empty(t, f.searchLogs.logs)

	_, err = f.service.Search(ctx, plainUser(7), dto.ListingQuery{Search: "  kayak "})
	require.NoError(t, err)
	require.Len(t, f.searchLogs.logs, 1)
	assert.Equal(t, "kayak", f.searchLogs.logs[0].Keyword)
	assert.Equal(t, uint(7), f.searchLogs.logs[0].UserID)
}

func TestSearchListings_LogsMultibyteKeyword(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()

	_, err := f.service.Search(ctx, plainUser(7), dto.ListingQuery{Search: strings.Repeat("ñ", 200)})
	require.NoError(t, err)
	_, err = f.service.Search(ctx, plainUser(7), dto.ListingQuery{Search: strings.Repeat("ñ", 300)})
	require.NoError(t, err)

	require.Len(t, f.searchLogs.logs, 2)
	assert.Equal(t, strings.Repeat("ñ", 200), f.searchLogs.logs[0].Keyword)
	// Se corta en 255 caracteres, no en 255 bytes
	stored := f.searchLogs.logs[1].Keyword
	assert.True(t, utf8.ValidString(stored))
	assert.Equal(t, 255, utf8.RuneCountInString(stored))
}

func TestSearchListings_IncludesRatings(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	l := f.addAt("Austin", 10, 30.26, -97.74)
	_ = f.reviews.Create(ctx, &domain.Review{UserID: 2, ListingID: l.ID, Rating: 5})
	_ = f.reviews.Create(ctx, &domain.Review{UserID: 3, ListingID: l.ID, Rating: 4})

	resp, err := f.service.Search(ctx, nil, dto.ListingQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, 4.5, resp.Listings[0].AverageRating)
	assert.Equal(t, int64(2), resp.Listings[0].ReviewCount)
}

func TestListByOwner_UnknownOwner(t *testing.T) {
	f := newListingFixture()
	_, err := f.service.ListByOwner(context.Background(), 999, dto.PageQuery{}.PageRequest())
	assertKind(t, err, ErrNotFound)
}

func TestDeleteListing_RemovesUploadedFiles(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	listing, err := f.service.Create(ctx, f.owner, f.createRequest("Kayak"))
	require.NoError(t, err)
	_ = f.images.Create(ctx,
		&domain.Image{ListingID: listing.ID, URL: "/api/images/1/file", BlobKey: "listings/1/a.png"},
		&domain.Image{ListingID: listing.ID, URL: "https://cdn.example.com/b.png"},
	)

	assertKind(t, f.service.Delete(ctx, plainUser(50), listing.ID), ErrForbidden)
	require.NoError(t, f.service.Delete(ctx, f.owner, listing.ID))

	assert.Equal(t, []string{"listings/1/a.png"}, f.blobs.deleted)
	_, err = f.service.Get(ctx, listing.ID)
	assertKind(t, err, ErrNotFound)
}

func TestFavorites(t *testing.T) {
	f := newListingFixture()
	ctx := context.Background()
	listing, err := f.service.Create(ctx, f.owner, f.createRequest("Kayak"))
	require.NoError(t, err)

	assertKind(t, f.service.AddFavorite(ctx, 2, 999), ErrNotFound)
	require.NoError(t, f.service.AddFavorite(ctx, 2, listing.ID))
	require.NoError(t, f.service.AddFavorite(ctx, 2, listing.ID))

	favs, err := f.service.ListFavorites(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	require.NoError(t, f.service.RemoveFavorite(ctx, 2, listing.ID))
	favs, err = f.service.ListFavorites(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, favs)
}
