package repositories

import (
	"context"
	"database/sql/driver"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mreimer702/Rettnar/database"
	"github.com/mreimer702/Rettnar/domain"
)

var registerSQLFuncs sync.Once

// newTestDB abre una base SQLite en memoria con el esquema completo y las FKs activas.
// SQLite no tiene LEAST/GREATEST; se registran para que corra la fórmula de distancia.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	registerSQLFuncs.Do(func() {
		gosqlite.MustRegisterDeterministicScalarFunction("least", 2, floatFunc(math.Min))
		gosqlite.MustRegisterDeterministicScalarFunction("greatest", 2, floatFunc(math.Max))
	})

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// Una sola conexión: cada conexión a :memory: es una base distinta
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func floatFunc(pick func(a, b float64) float64) func(*gosqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if args[0] == nil || args[1] == nil {
			return nil, nil
		}
		a, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return pick(a, b), nil
	}
}

func toFloat(v driver.Value) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("unexpected argument type %T", v)
}

// ---------- Datos de prueba ----------

type seedData struct {
	db     *gorm.DB
	owner  *domain.User
	subcat *domain.Subcategory
}

func newSeed(t *testing.T, db *gorm.DB) *seedData {
	t.Helper()
	owner := &domain.User{FirstName: "Olivia", LastName: "Owner", Email: "owner@example.com", Password: "hash", Phone: "555-0100"}
	require.NoError(t, db.Create(owner).Error)
	cat := &domain.Category{Name: "Outdoors"}
	require.NoError(t, db.Create(cat).Error)
	subcat := &domain.Subcategory{Name: "Boats", CategoryID: cat.ID}
	require.NoError(t, db.Create(subcat).Error)
	return &seedData{db: db, owner: owner, subcat: subcat}
}

func (s *seedData) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{FirstName: email, Email: email, Password: "hash"}
	require.NoError(t, s.db.Create(u).Error)
	return u
}

func (s *seedData) location(t *testing.T, city, zip string, lat, lng *float64) *domain.Location {
	t.Helper()
	loc := &domain.Location{Address: "1 Main St", City: city, State: "TX", ZipCode: zip, Country: "US", Latitude: lat, Longitude: lng}
	require.NoError(t, s.db.Create(loc).Error)
	return loc
}

func (s *seedData) listing(t *testing.T, title, description string, price int, loc *domain.Location) *domain.Listing {
	t.Helper()
	l := &domain.Listing{Title: title, Description: description, Price: price, OwnerID: s.owner.ID, SubcategoryID: s.subcat.ID}
	if loc != nil {
		l.LocationID = &loc.ID
	}
	require.NoError(t, NewListingRepository(s.db).Create(context.Background(), l))
	return l
}

func coord(v float64) *float64 {
	return &v
}

func day(n int) time.Time {
	return time.Date(2031, time.January, n, 0, 0, 0, 0, time.UTC)
}
