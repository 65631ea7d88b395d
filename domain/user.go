package domain

import "time"

// Nombres de roles. RoleAdmin habilita las rutas de administración
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role es un nivel de acceso asignado a un usuario
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName especifica el nombre de la tabla
func (Role) TableName() string {
	return "roles"
}

// User representa un usuario del marketplace
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(50)" json:"last_name"`
	Email      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"` // El "-" oculta el password en JSON
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	LocationID *uint     `json:"location_id"`
	Location   *Location `json:"location,omitempty"`
	Roles      []Role    `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles"`
	Favorites  []Listing `gorm:"many2many:favorites;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName especifica el nombre de la tabla
func (User) TableName() string {
	return "users"
}

// HasRole indica si el usuario tiene el rol
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin es un atajo de HasRole(RoleAdmin)
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// FullName une nombre y apellido; si no hay ninguno devuelve el email
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
