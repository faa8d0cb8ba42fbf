package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fableforge/fable/internal/db/models"
)

// newTestDB creates an in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.StoryJob{}, &models.Story{}, &models.StoryNode{})
	require.NoError(t, err, "Failed to run database migrations")

	return db
}

// fakeGenerator is a test double for the generation collaborator. It can
// inject an artificial delay, a failure, or an arbitrary behaviour via fn.
type fakeGenerator struct {
	delay   time.Duration
	err     error
	storyID uint
	fn      func(ctx context.Context, sessionID, theme string) (uint, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, sessionID, theme string) (uint, error) {
	if f.fn != nil {
		return f.fn(ctx, sessionID, theme)
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.storyID, nil
}
