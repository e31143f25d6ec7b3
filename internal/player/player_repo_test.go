package player_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/khelsetu/academy/internal/player"
)

func newTestRepo(t *testing.T) (player.PlayerRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&player.Player{}))
	return player.NewPlayerRepository(db), db
}

func TestGetByPublicID(t *testing.T) {
	repo, db := newTestRepo(t)
	seeded := &player.Player{
		PublicID:    "PLR-4821",
		UserID:      7,
		FullName:    "Arjun Mehta",
		DateOfBirth: time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(seeded).Error)

	p, err := repo.GetByPublicID("PLR-4821")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, seeded.UserID, p.UserID)
	assert.Equal(t, seeded.FullName, p.FullName)

	p, err = repo.GetByPublicID("PLR-0000")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPublicIDExists(t *testing.T) {
	repo, db := newTestRepo(t)
	require.NoError(t, db.Create(&player.Player{PublicID: "PLR-1234", UserID: 7}).Error)

	exists, err := repo.PublicIDExists("PLR-1234")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.PublicIDExists("PLR-5678")
	require.NoError(t, err)
	assert.False(t, exists)
}
