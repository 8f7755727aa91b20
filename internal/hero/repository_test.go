package hero

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Hero{}))
	return db
}

func TestFindCurrentNoActiveHero(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()

	require.NoError(t, repo.Save(db, &Hero{Heading: "inactive", IsActive: false}))

	_, err := repo.FindCurrent(db)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindCurrentPicksMostRecentlyUpdatedActive(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()

	older := Hero{Heading: "older", IsActive: true}
	newer := Hero{Heading: "newer", IsActive: true}
	inactive := Hero{Heading: "inactive", IsActive: false}
	require.NoError(t, repo.Save(db, &older))
	require.NoError(t, repo.Save(db, &newer))
	require.NoError(t, repo.Save(db, &inactive))

	// Force distinct update timestamps; sqlite clock granularity can
	// collapse back-to-back saves.
	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&older).Update("updated_at", base).Error)
	require.NoError(t, db.Model(&newer).Update("updated_at", base.Add(time.Minute)).Error)
	require.NoError(t, db.Model(&inactive).Update("updated_at", base.Add(2*time.Minute)).Error)

	current, err := repo.FindCurrent(db)
	require.NoError(t, err)
	assert.Equal(t, "newer", current.Heading)
}
