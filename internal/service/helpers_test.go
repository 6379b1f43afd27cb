package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"harvesthub/internal/db"
	"harvesthub/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, conn.WithContext(context.Background()).Create(user).Error)
	return user
}

func seedListing(t *testing.T, conn *gorm.DB, ownerID uint, description string) *model.FoodListing {
	t.Helper()
	listing := &model.FoodListing{
		UserID:      ownerID,
		Description: description,
		Location:    "Warehouse 1",
		Status:      model.ListingStatusAvailable,
	}
	require.NoError(t, conn.WithContext(context.Background()).Create(listing).Error)
	return listing
}
