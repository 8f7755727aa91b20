package cms

import (
	"fmt"
	"strings"
	"testing"

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
	require.NoError(t, db.AutoMigrate(&Settings{}))
	return db
}

func TestGetCreatesSingletonWithDefaults(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()

	s, err := repo.Get(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.ID)
	assert.True(t, s.HeroSection)
	assert.True(t, s.AgentsSection)
	assert.True(t, s.PropertiesSection)
	assert.True(t, s.LeadFormSection)
	assert.True(t, s.MarketingSection)
}

func TestGetNeverCreatesASecondRow(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()

	for i := 0; i < 5; i++ {
		_, err := repo.Get(db)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateKeepsFixedID(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()

	s, err := repo.Get(db)
	require.NoError(t, err)

	s.LeadFormSection = false
	require.NoError(t, repo.Update(db, s))

	reloaded, err := repo.Get(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), reloaded.ID)
	assert.False(t, reloaded.LeadFormSection)
	assert.True(t, reloaded.HeroSection)

	var count int64
	require.NoError(t, db.Model(&Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
