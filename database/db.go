package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mreimer702/Rettnar/config"
	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/utils"
)

// Open conecta con MySQL o PostgreSQL según DB_DRIVER
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		// lib/pq como driver de database/sql
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN()})
	default:
		dialector = mysql.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// SQLX envuelve la misma conexión para las consultas en SQL plano
func SQLX(db *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, driver), nil
}

// Migrate crea o actualiza todas las tablas
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Seed crea los roles base y, si está configurado, un usuario admin inicial
func Seed(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string) error {
	log := logger.FromContext(ctx)
	tx := db.WithContext(ctx)

	roles := make(map[string]domain.Role, 2)
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		role := domain.Role{Name: name}
		if err := tx.Where(domain.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
		roles[name] = role
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	var existing domain.User
	err := tx.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := domain.User{
		FirstName: "Admin",
		Email:     adminEmail,
		Password:  hash,
		Roles:     []domain.Role{roles[domain.RoleAdmin], roles[domain.RoleUser]},
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Infof("Seeded admin user %s", adminEmail)
	return nil
}

// Ping se usa en el health check
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
