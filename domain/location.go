package domain

// Location es una dirección postal con coordenadas opcionales
type Location struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Address   string   `gorm:"type:varchar(200);not null" json:"address"`
	City      string   `gorm:"type:varchar(100);not null;index" json:"city"`
	State     string   `gorm:"type:varchar(100);not null;index" json:"state"`
	ZipCode   string   `gorm:"type:varchar(20);not null;index" json:"zip_code"`
	Country   string   `gorm:"type:varchar(100);not null" json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TableName especifica el nombre de la tabla
func (Location) TableName() string {
	return "locations"
}

// HasCoordinates indica si están cargadas latitud y longitud
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}
