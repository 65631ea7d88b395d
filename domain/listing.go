package domain

import "time"

// Category agrupa subcategorías (ej: "Vehicles", "Tools", "Venues")
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// TableName especifica el nombre de la tabla
func (Category) TableName() string {
	return "categories"
}

// Subcategory pertenece a una Category; cada listing tiene una
type Subcategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

// TableName especifica el nombre de la tabla
func (Subcategory) TableName() string {
	return "subcategories"
}

// Amenity es una comodidad que se puede asociar a varios listings
type Amenity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// TableName especifica el nombre de la tabla
func (Amenity) TableName() string {
	return "amenities"
}

// Listing es un ítem o espacio que se puede alquilar
type Listing struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Title         string           `gorm:"type:varchar(100);not null" json:"title"`
	Description   string           `gorm:"type:text" json:"description"`
	Price         int              `gorm:"not null" json:"price"`
	OwnerID       uint             `gorm:"not null;index" json:"owner_id"`
	Owner         *ListingOwner    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SubcategoryID uint             `gorm:"index" json:"subcategory_id"`
	Subcategory   *Subcategory     `json:"subcategory,omitempty"`
	LocationID    *uint            `gorm:"index" json:"location_id"`
	Location      *Location        `json:"location,omitempty"`
	Images        []Image          `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	Features      []ListingFeature `gorm:"constraint:OnDelete:CASCADE" json:"features"`
	Amenities     []Amenity        `gorm:"many2many:listing_amenities;constraint:OnDelete:CASCADE" json:"amenities"`
	Availability  []Availability   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reviews       []Review         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bookings      []Booking        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Se calculan al leer, nunca se guardan
	DistanceKm    *float64 `gorm:"-" json:"distance_km,omitempty"`
	AverageRating float64  `gorm:"-" json:"average_rating"`
	ReviewCount   int64    `gorm:"-" json:"review_count"`
}

// TableName especifica el nombre de la tabla
func (Listing) TableName() string {
	return "listings"
}

// ListingOwner es la vista pública del dueño, sin email ni teléfono.
// Se lee de la tabla users.
type ListingOwner struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TableName lee de la misma tabla que User
func (ListingOwner) TableName() string {
	return "users"
}

// ListingFeature es un atributo libre clave/valor ("seats": "4")
type ListingFeature struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ListingID uint   `gorm:"not null;index" json:"-"`
	Key       string `gorm:"type:varchar(100)" json:"key"`
	Value     string `gorm:"type:varchar(100)" json:"value"`
}

// TableName especifica el nombre de la tabla
func (ListingFeature) TableName() string {
	return "listing_features"
}

// Image pertenece a un listing. BlobKey sólo se usa para imágenes subidas.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ListingID   uint      `gorm:"not null;index" json:"listing_id"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	IsPrimary   bool      `gorm:"not null;default:false" json:"is_primary"`
	BlobKey     string    `gorm:"type:varchar(255)" json:"-"`
	ContentType string    `gorm:"type:varchar(100)" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName especifica el nombre de la tabla
func (Image) TableName() string {
	return "images"
}

// Availability es una ventana que el dueño abrió o bloqueó sobre un listing
type Availability struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ListingID   uint      `gorm:"not null;index" json:"listing_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
}

// TableName especifica el nombre de la tabla
func (Availability) TableName() string {
	return "availability"
}
