package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// ============================================
// MOCKS de los repositorios para los tests
// ============================================

func paginate[T any](items []T, page utils.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ---------- Usuarios ----------

type mockUserRepository struct {
	users     map[uint]*domain.User
	favorites map[uint][]uint
	listings  *mockListingRepository
	nextID    uint
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[uint]*domain.User{}, favorites: map[uint][]uint{}}
}

// add inserta un usuario directo, sin pasar por el servicio
func (m *mockUserRepository) add(u *domain.User) *domain.User {
	_ = m.Create(context.Background(), u)
	return u
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) ReplaceRoles(_ context.Context, user *domain.User, roles []domain.Role) error {
	m.users[user.ID].Roles = roles
	return nil
}

func (m *mockUserRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	// Igual que la FK listings.owner_id
	if m.listings != nil {
		for _, l := range m.listings.listings {
			if l.OwnerID == id {
				return repositories.ErrReferenced
			}
		}
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) List(_ context.Context, page utils.PageRequest) ([]domain.User, int64, error) {
	var out []domain.User
	for id := uint(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

func (m *mockUserRepository) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepository) GetByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) ListFavorites(ctx context.Context, userID uint) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, id := range m.favorites[userID] {
		if l, err := m.listings.GetByID(ctx, id); err == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockUserRepository) AddFavorite(_ context.Context, userID, listingID uint) error {
	for _, id := range m.favorites[userID] {
		if id == listingID {
			return nil
		}
	}
	m.favorites[userID] = append(m.favorites[userID], listingID)
	return nil
}

func (m *mockUserRepository) RemoveFavorite(_ context.Context, userID, listingID uint) error {
	ids := m.favorites[userID][:0]
	for _, id := range m.favorites[userID] {
		if id != listingID {
			ids = append(ids, id)
		}
	}
	m.favorites[userID] = ids
	return nil
}

// ---------- Roles ----------

type mockRoleRepository struct {
	roles  map[uint]*domain.Role
	nextID uint
}

func newMockRoleRepository(names ...string) *mockRoleRepository {
	m := &mockRoleRepository{roles: map[uint]*domain.Role{}}
	for _, name := range names {
		_ = m.Create(context.Background(), &domain.Role{Name: name})
	}
	return m
}

func (m *mockRoleRepository) Create(_ context.Context, role *domain.Role) error {
	for _, r := range m.roles {
		if r.Name == role.Name {
			return repositories.ErrDuplicate
		}
	}
	m.nextID++
	role.ID = m.nextID
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepository) GetByID(_ context.Context, id uint) (*domain.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r, nil
}

func (m *mockRoleRepository) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockRoleRepository) GetByIDs(_ context.Context, ids []uint) ([]domain.Role, error) {
	var out []domain.Role
	for _, id := range ids {
		if r, ok := m.roles[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRoleRepository) List(_ context.Context) ([]domain.Role, error) {
	var out []domain.Role
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.roles[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRoleRepository) Update(_ context.Context, role *domain.Role) error {
	for _, r := range m.roles {
		if r.Name == role.Name && r.ID != role.ID {
			return repositories.ErrDuplicate
		}
	}
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.roles[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

// ---------- Ubicaciones ----------

type mockLocationRepository struct {
	locations map[uint]*domain.Location
	refs      map[uint][2]int64
	nextID    uint
}

func newMockLocationRepository() *mockLocationRepository {
	return &mockLocationRepository{locations: map[uint]*domain.Location{}, refs: map[uint][2]int64{}}
}

func (m *mockLocationRepository) Create(_ context.Context, loc *domain.Location) error {
	m.nextID++
	loc.ID = m.nextID
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepository) GetByID(_ context.Context, id uint) (*domain.Location, error) {
	l, ok := m.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l, nil
}

func (m *mockLocationRepository) FindExact(_ context.Context, address, city, state, zipCode string) (*domain.Location, error) {
	for id := uint(1); id <= m.nextID; id++ {
		l, ok := m.locations[id]
		if ok && l.Address == address && l.City == city && l.State == state && l.ZipCode == zipCode {
			return l, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockLocationRepository) List(_ context.Context, page utils.PageRequest) ([]domain.Location, int64, error) {
	var out []domain.Location
	for id := uint(1); id <= m.nextID; id++ {
		if l, ok := m.locations[id]; ok {
			out = append(out, *l)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

func (m *mockLocationRepository) Search(_ context.Context, f repositories.LocationFilter) ([]domain.Location, error) {
	match := func(field, want string) bool {
		return want == "" || strings.Contains(strings.ToLower(field), strings.ToLower(want))
	}
	var out []domain.Location
	for id := uint(1); id <= m.nextID; id++ {
		l, ok := m.locations[id]
		if ok && match(l.City, f.City) && match(l.State, f.State) && match(l.ZipCode, f.ZipCode) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLocationRepository) Update(_ context.Context, loc *domain.Location) error {
	if _, ok := m.locations[loc.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.locations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepository) CountReferences(_ context.Context, id uint) (int64, int64, error) {
	r := m.refs[id]
	return r[0], r[1], nil
}

// ---------- Catálogo ----------

type mockCatalogRepository struct {
	categories    map[uint]*domain.Category
	subcategories map[uint]*domain.Subcategory
	amenities     map[uint]*domain.Amenity
	inUse         map[uint]int64
	nextID        uint
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{
		categories:    map[uint]*domain.Category{},
		subcategories: map[uint]*domain.Subcategory{},
		amenities:     map[uint]*domain.Amenity{},
		inUse:         map[uint]int64{},
	}
}

func (m *mockCatalogRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockCatalogRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepository) GetCategory(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	for _, s := range m.subcategories {
		if s.CategoryID == id {
			cp.Subcategories = append(cp.Subcategories, *s)
		}
	}
	return &cp, nil
}

func (m *mockCatalogRepository) CreateCategory(_ context.Context, c *domain.Category) error {
	for _, other := range m.categories {
		if other.Name == c.Name {
			return repositories.ErrDuplicate
		}
	}
	c.ID = m.id()
	m.categories[c.ID] = c
	return nil
}

func (m *mockCatalogRepository) UpdateCategory(_ context.Context, c *domain.Category) error {
	for _, other := range m.categories {
		if other.Name == c.Name && other.ID != c.ID {
			return repositories.ErrDuplicate
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCatalogRepository) DeleteCategory(_ context.Context, id uint) error {
	if _, ok := m.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCatalogRepository) ListSubcategories(_ context.Context, categoryID *uint) ([]domain.Subcategory, error) {
	var out []domain.Subcategory
	for _, s := range m.subcategories {
		if categoryID == nil || s.CategoryID == *categoryID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepository) GetSubcategory(_ context.Context, id uint) (*domain.Subcategory, error) {
	s, ok := m.subcategories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return s, nil
}

func (m *mockCatalogRepository) CreateSubcategory(_ context.Context, s *domain.Subcategory) error {
	s.ID = m.id()
	m.subcategories[s.ID] = s
	return nil
}

func (m *mockCatalogRepository) UpdateSubcategory(_ context.Context, s *domain.Subcategory) error {
	m.subcategories[s.ID] = s
	return nil
}

func (m *mockCatalogRepository) DeleteSubcategory(_ context.Context, id uint) error {
	if _, ok := m.subcategories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.subcategories, id)
	return nil
}

func (m *mockCatalogRepository) CountListingsInSubcategory(_ context.Context, id uint) (int64, error) {
	return m.inUse[id], nil
}

func (m *mockCatalogRepository) ListAmenities(_ context.Context) ([]domain.Amenity, error) {
	var out []domain.Amenity
	for _, a := range m.amenities {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepository) GetAmenity(_ context.Context, id uint) (*domain.Amenity, error) {
	a, ok := m.amenities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (m *mockCatalogRepository) GetAmenitiesByIDs(_ context.Context, ids []uint) ([]domain.Amenity, error) {
	var out []domain.Amenity
	for _, id := range ids {
		if a, ok := m.amenities[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockCatalogRepository) CreateAmenity(_ context.Context, a *domain.Amenity) error {
	for _, other := range m.amenities {
		if other.Name == a.Name {
			return repositories.ErrDuplicate
		}
	}
	a.ID = m.id()
	m.amenities[a.ID] = a
	return nil
}

func (m *mockCatalogRepository) UpdateAmenity(_ context.Context, a *domain.Amenity) error {
	m.amenities[a.ID] = a
	return nil
}

func (m *mockCatalogRepository) DeleteAmenity(_ context.Context, id uint) error {
	if _, ok := m.amenities[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.amenities, id)
	return nil
}

// ---------- Listings ----------

type mockListingRepository struct {
	listings  map[uint]*domain.Listing
	images    *mockImageRepository
	locations *mockLocationRepository
	nextID    uint
	searches  int
}

func newMockListingRepository() *mockListingRepository {
	return &mockListingRepository{listings: map[uint]*domain.Listing{}}
}

// add inserta un listing directo, sin pasar por el servicio
func (m *mockListingRepository) add(l *domain.Listing) *domain.Listing {
	_ = m.Create(context.Background(), l)
	return l
}

func (m *mockListingRepository) Create(_ context.Context, l *domain.Listing) error {
	m.nextID++
	l.ID = m.nextID
	m.listings[l.ID] = l
	return nil
}

func (m *mockListingRepository) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	if m.images != nil {
		cp.Images, _ = m.images.ListByListing(ctx, id)
	}
	if m.locations != nil && cp.LocationID != nil {
		cp.Location, _ = m.locations.GetByID(ctx, *cp.LocationID)
	}
	return &cp, nil
}

func (m *mockListingRepository) Update(_ context.Context, l *domain.Listing) error {
	if _, ok := m.listings[l.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *mockListingRepository) ReplaceAmenities(_ context.Context, l *domain.Listing, amenities []domain.Amenity) error {
	m.listings[l.ID].Amenities = amenities
	return nil
}

func (m *mockListingRepository) ReplaceFeatures(_ context.Context, listingID uint, features []domain.ListingFeature) error {
	m.listings[listingID].Features = features
	return nil
}

func (m *mockListingRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.listings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

// Search filtra por dueño, precio y radio; alcanza para probar el servicio
func (m *mockListingRepository) Search(_ context.Context, f repositories.ListingFilter) ([]domain.Listing, int64, error) {
	m.searches++
	var out []domain.Listing
	for id := uint(1); id <= m.nextID; id++ {
		l, ok := m.listings[id]
		if !ok {
			continue
		}
		if f.OwnerID != nil && l.OwnerID != *f.OwnerID {
			continue
		}
		if f.MinPrice != nil && l.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			continue
		}
		if f.Geo != nil {
			if !l.Location.HasCoordinates() ||
				utils.HaversineKm(f.Geo.Lat, f.Geo.Lng, *l.Location.Latitude, *l.Location.Longitude) > f.Geo.RadiusKm {
				continue
			}
		}
		out = append(out, *l)
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

// ---------- Imágenes ----------

type mockImageRepository struct {
	images map[uint]*domain.Image
	nextID uint
}

func newMockImageRepository() *mockImageRepository {
	return &mockImageRepository{images: map[uint]*domain.Image{}}
}

func (m *mockImageRepository) ListByListing(_ context.Context, listingID uint) ([]domain.Image, error) {
	var out []domain.Image
	for id := uint(1); id <= m.nextID; id++ {
		if img, ok := m.images[id]; ok && img.ListingID == listingID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (m *mockImageRepository) GetByID(_ context.Context, id uint) (*domain.Image, error) {
	img, ok := m.images[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (m *mockImageRepository) Create(_ context.Context, images ...*domain.Image) error {
	for _, img := range images {
		m.nextID++
		img.ID = m.nextID
		cp := *img
		m.images[img.ID] = &cp
	}
	return nil
}

func (m *mockImageRepository) Update(_ context.Context, img *domain.Image) error {
	if _, ok := m.images[img.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *img
	m.images[img.ID] = &cp
	return nil
}

func (m *mockImageRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.images[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.images, id)
	return nil
}

func (m *mockImageRepository) SetPrimary(_ context.Context, listingID, imageID uint) error {
	target, ok := m.images[imageID]
	if !ok || target.ListingID != listingID {
		return repositories.ErrNotFound
	}
	for _, img := range m.images {
		if img.ListingID == listingID {
			img.IsPrimary = img.ID == imageID
		}
	}
	return nil
}

// primaries cuenta las imágenes principales de un listing
func (m *mockImageRepository) primaries(listingID uint) []uint {
	var out []uint
	for id := uint(1); id <= m.nextID; id++ {
		if img, ok := m.images[id]; ok && img.ListingID == listingID && img.IsPrimary {
			out = append(out, id)
		}
	}
	return out
}

// ---------- Disponibilidad ----------

type mockAvailabilityRepository struct {
	windows map[uint]*domain.Availability
	nextID  uint
}

func newMockAvailabilityRepository() *mockAvailabilityRepository {
	return &mockAvailabilityRepository{windows: map[uint]*domain.Availability{}}
}

func (m *mockAvailabilityRepository) ListByListing(_ context.Context, listingID uint) ([]domain.Availability, error) {
	var out []domain.Availability
	for id := uint(1); id <= m.nextID; id++ {
		if w, ok := m.windows[id]; ok && w.ListingID == listingID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepository) GetByID(_ context.Context, id uint) (*domain.Availability, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return w, nil
}

func (m *mockAvailabilityRepository) Create(_ context.Context, a *domain.Availability) error {
	m.nextID++
	a.ID = m.nextID
	m.windows[a.ID] = a
	return nil
}

func (m *mockAvailabilityRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.windows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.windows, id)
	return nil
}

// ---------- Reservas ----------

// mockBookingRepository aplica la misma regla de superposición que la consulta SQL
type mockBookingRepository struct {
	mu           sync.Mutex
	bookings     map[uint]*domain.Booking
	availability *mockAvailabilityRepository
	listings     *mockListingRepository
	nextID       uint
}

func newMockBookingRepository(listings *mockListingRepository, availability *mockAvailabilityRepository) *mockBookingRepository {
	return &mockBookingRepository{bookings: map[uint]*domain.Booking{}, listings: listings, availability: availability}
}

func (m *mockBookingRepository) CreateIfAvailable(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings.listings[b.ListingID]; !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range m.bookings {
		if existing.ListingID == b.ListingID && existing.Status != domain.BookingCancelled &&
			existing.Overlaps(b.StartDate, b.EndDate) {
			return repositories.ErrBookingOverlap
		}
	}
	if m.availability != nil {
		for _, w := range m.availability.windows {
			if w.ListingID == b.ListingID && !w.IsAvailable &&
				w.StartDate.Before(b.EndDate) && b.StartDate.Before(w.EndDate) {
				return repositories.ErrListingUnavailable
			}
		}
	}
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepository) GetByID(_ context.Context, id uint) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	if l, ok := m.listings.listings[b.ListingID]; ok {
		lc := *l
		cp.Listing = &lc
	}
	return &cp, nil
}

func (m *mockBookingRepository) List(_ context.Context, f repositories.BookingFilter) ([]domain.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for id := uint(1); id <= m.nextID; id++ {
		b, ok := m.bookings[id]
		if !ok {
			continue
		}
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.ListingID != nil && b.ListingID != *f.ListingID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

func (m *mockBookingRepository) UpdateStatus(_ context.Context, id uint, from, to domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return repositories.ErrStaleStatus
	}
	b.Status = to
	return nil
}

// ---------- Pagos ----------

type mockPaymentRepository struct {
	payments []domain.Payment
}

func (m *mockPaymentRepository) Create(_ context.Context, p *domain.Payment) error {
	p.ID = uint(len(m.payments) + 1)
	m.payments = append(m.payments, *p)
	return nil
}

func (m *mockPaymentRepository) ListByUser(_ context.Context, userID uint, page utils.PageRequest) ([]domain.Payment, int64, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

// ---------- Mensajes ----------

type mockMessageRepository struct {
	messages []*domain.Message
}

func (m *mockMessageRepository) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = uint(len(m.messages) + 1)
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *mockMessageRepository) Conversation(_ context.Context, a, b uint) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) ConversationStats(_ context.Context, userID uint) ([]repositories.ConversationStat, error) {
	index := map[uint]int{}
	var out []repositories.ConversationStat
	for _, msg := range m.messages {
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		other := msg.SenderID
		if other == userID {
			other = msg.ReceiverID
		}
		i, ok := index[other]
		if !ok {
			i = len(out)
			index[other] = i
			out = append(out, repositories.ConversationStat{OtherID: other})
		}
		if msg.ID > out[i].LastMessageID {
			out[i].LastMessageID = msg.ID
		}
		if msg.ReceiverID == userID && msg.ReadAt == nil {
			out[i].UnreadCount++
		}
	}
	return out, nil
}

func (m *mockMessageRepository) ListByIDs(_ context.Context, ids []uint) ([]domain.Message, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Message
	for i := len(m.messages) - 1; i >= 0; i-- {
		if want[m.messages[i].ID] {
			out = append(out, *m.messages[i])
		}
	}
	return out, nil
}

func (m *mockMessageRepository) MarkRead(_ context.Context, receiverID, senderID uint, at time.Time) (int64, error) {
	var n int64
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID && msg.ReadAt == nil {
			t := at
			msg.ReadAt = &t
			n++
		}
	}
	return n, nil
}

// ---------- Reseñas ----------

type mockReviewRepository struct {
	reviews map[uint]*domain.Review
	nextID  uint
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: map[uint]*domain.Review{}}
}

func (m *mockReviewRepository) Create(_ context.Context, r *domain.Review) error {
	for _, other := range m.reviews {
		if other.UserID == r.UserID && other.ListingID == r.ListingID {
			return repositories.ErrDuplicate
		}
	}
	m.nextID++
	r.ID = m.nextID
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewRepository) GetByID(_ context.Context, id uint) (*domain.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r, nil
}

func (m *mockReviewRepository) Delete(_ context.Context, id uint) error {
	if _, ok := m.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) Exists(_ context.Context, userID, listingID uint) (bool, error) {
	for _, r := range m.reviews {
		if r.UserID == userID && r.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReviewRepository) ListByListing(_ context.Context, listingID uint, page utils.PageRequest) ([]domain.Review, int64, error) {
	var out []domain.Review
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.reviews[id]; ok && r.ListingID == listingID {
			out = append(out, *r)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

func (m *mockReviewRepository) Summaries(_ context.Context, ids []uint) (map[uint]repositories.RatingSummary, error) {
	out := map[uint]repositories.RatingSummary{}
	for _, id := range ids {
		var sum, n int
		for _, r := range m.reviews {
			if r.ListingID == id {
				sum += r.Rating
				n++
			}
		}
		if n > 0 {
			out[id] = repositories.RatingSummary{ListingID: id, Average: float64(sum) / float64(n), Count: int64(n)}
		}
	}
	return out, nil
}

// ---------- Notificaciones ----------

type mockNotificationRepository struct {
	general  map[uint]*domain.GeneralNotification
	delivery map[uint]*domain.DeliveryNotification
	nextID   uint
	fail     error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		general:  map[uint]*domain.GeneralNotification{},
		delivery: map[uint]*domain.DeliveryNotification{},
	}
}

func (m *mockNotificationRepository) CreateGeneral(_ context.Context, ns ...*domain.GeneralNotification) error {
	if m.fail != nil {
		return m.fail
	}
	for _, n := range ns {
		m.nextID++
		n.ID = m.nextID
		cp := *n
		m.general[n.ID] = &cp
	}
	return nil
}

func (m *mockNotificationRepository) GetGeneral(_ context.Context, id uint) (*domain.GeneralNotification, error) {
	n, ok := m.general[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNotificationRepository) ListGeneral(_ context.Context, f repositories.NotificationFilter) ([]domain.GeneralNotification, int64, error) {
	var out []domain.GeneralNotification
	for id := m.nextID; id >= 1; id-- {
		n, ok := m.general[id]
		if !ok {
			continue
		}
		if f.UserID != nil && n.UserID != *f.UserID {
			continue
		}
		if f.IsRead != nil && n.IsRead != *f.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

func (m *mockNotificationRepository) SetGeneralRead(_ context.Context, id uint, isRead bool) error {
	n, ok := m.general[id]
	if !ok {
		return repositories.ErrNotFound
	}
	n.IsRead = isRead
	return nil
}

func (m *mockNotificationRepository) DeleteGeneral(_ context.Context, id uint) error {
	if _, ok := m.general[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.general, id)
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, g := range m.general {
		if g.UserID == userID && !g.IsRead {
			g.IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepository) CountUnread(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, g := range m.general {
		if g.UserID == userID && !g.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepository) CreateDelivery(_ context.Context, n *domain.DeliveryNotification) error {
	m.nextID++
	n.ID = m.nextID
	cp := *n
	m.delivery[n.ID] = &cp
	return nil
}

func (m *mockNotificationRepository) GetDelivery(_ context.Context, id uint) (*domain.DeliveryNotification, error) {
	n, ok := m.delivery[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return n, nil
}

func (m *mockNotificationRepository) ListDelivery(_ context.Context, f repositories.NotificationFilter) ([]domain.DeliveryNotification, int64, error) {
	var out []domain.DeliveryNotification
	for id := uint(1); id <= m.nextID; id++ {
		n, ok := m.delivery[id]
		if !ok {
			continue
		}
		if f.UserID != nil && n.UserID != *f.UserID {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		out = append(out, *n)
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

func (m *mockNotificationRepository) DeleteDelivery(_ context.Context, id uint) error {
	if _, ok := m.delivery[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.delivery, id)
	return nil
}

// generalFor devuelve los mensajes de las notificaciones de un usuario
func (m *mockNotificationRepository) generalFor(userID uint) []string {
	var out []string
	for id := uint(1); id <= m.nextID; id++ {
		if n, ok := m.general[id]; ok && n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

// ---------- Entregas ----------

type mockDeliveryRepository struct {
	deliveries map[uint]*domain.Delivery
	nextID     uint
}

func newMockDeliveryRepository() *mockDeliveryRepository {
	return &mockDeliveryRepository{deliveries: map[uint]*domain.Delivery{}}
}

func (m *mockDeliveryRepository) Create(_ context.Context, d *domain.Delivery) error {
	m.nextID++
	d.ID = m.nextID
	cp := *d
	m.deliveries[d.ID] = &cp
	return nil
}

func (m *mockDeliveryRepository) GetByID(_ context.Context, id uint) (*domain.Delivery, error) {
	d, ok := m.deliveries[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDeliveryRepository) ListByUser(_ context.Context, userID uint, page utils.PageRequest) ([]domain.Delivery, int64, error) {
	var out []domain.Delivery
	for id := uint(1); id <= m.nextID; id++ {
		if d, ok := m.deliveries[id]; ok && d.UserID == userID {
			out = append(out, *d)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

func (m *mockDeliveryRepository) UpdateStatus(_ context.Context, id uint, status domain.DeliveryStatus) error {
	d, ok := m.deliveries[id]
	if !ok {
		return repositories.ErrNotFound
	}
	d.Status = status
	return nil
}

// ---------- Búsquedas y analytics ----------

type mockSearchLogRepository struct {
	logs []domain.SearchLog
}

func (m *mockSearchLogRepository) Create(_ context.Context, l *domain.SearchLog) error {
	l.ID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, *l)
	return nil
}

func (m *mockSearchLogRepository) ListByUser(_ context.Context, userID uint, page utils.PageRequest) ([]domain.SearchLog, int64, error) {
	var out []domain.SearchLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

type mockAnalyticsRepository struct {
	since     time.Time
	limit     int
	keywords  []repositories.KeywordStat
	locations []repositories.LocationStat
}

func (m *mockAnalyticsRepository) TopKeywords(_ context.Context, since time.Time, limit int) ([]repositories.KeywordStat, error) {
	m.since, m.limit = since, limit
	return m.keywords, nil
}

func (m *mockAnalyticsRepository) TopLocations(_ context.Context, limit int) ([]repositories.LocationStat, error) {
	m.limit = limit
	return m.locations, nil
}

// ---------- Caché, blobs y eventos ----------

type mockCache struct {
	items       map[string][]byte
	generations map[string]uint64
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string][]byte{}, generations: map[string]uint64{}}
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) bool {
	raw, ok := m.items[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err == nil {
		m.items[key] = raw
	}
}

func (m *mockCache) Delete(_ context.Context, key string) {
	delete(m.items, key)
}

func (m *mockCache) Generation(_ context.Context, namespace string) uint64 {
	return m.generations[namespace]
}

func (m *mockCache) BumpGeneration(_ context.Context, namespace string) {
	m.generations[namespace]++
}

type mockBlobRepository struct {
	enabled bool
	files   map[string][]byte
	deleted []string
}

func newMockBlobRepository(enabled bool) *mockBlobRepository {
	return &mockBlobRepository{enabled: enabled, files: map[string][]byte{}}
}

func (m *mockBlobRepository) Enabled() bool { return m.enabled }

func (m *mockBlobRepository) Put(_ context.Context, key, _ string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.files[key] = raw
	return nil
}

func (m *mockBlobRepository) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := m.files[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (m *mockBlobRepository) Delete(_ context.Context, key string) error {
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// ---------- Helpers ----------

func adminUser(id uint) *domain.User {
	return &domain.User{ID: id, Email: "admin@renttar.test", Roles: []domain.Role{{ID: 1, Name: domain.RoleAdmin}}}
}

func plainUser(id uint) *domain.User {
	return &domain.User{ID: id, FirstName: "User", Email: "user@renttar.test", Roles: []domain.Role{{ID: 2, Name: domain.RoleUser}}}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func strPtr(v string) *string     { return &v }
