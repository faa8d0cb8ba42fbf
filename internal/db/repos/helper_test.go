package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fableforge/fable/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	ctx       context.Context
	jobRepo   *JobRepository
	storyRepo *StoryRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
	err = db.AutoMigrate(&models.StoryJob{}, &models.Story{}, &models.StoryNode{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.ctx = context.Background()
	s.jobRepo = NewJobRepository(db)
	s.storyRepo = NewStoryRepository(db)
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// createTestJob creates a pending job with unique identifiers
func (s *DBRepositoryTestSuite) createTestJob() *models.StoryJob {
	job := &models.StoryJob{
		JobID:     uuid.NewString(),
		SessionID: uuid.NewString(),
		Theme:     "pirate treasure",
		Status:    models.JobStatusPending,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

// createTestStory creates a story with a root node and one ending child
func (s *DBRepositoryTestSuite) createTestStory() (*models.Story, []models.StoryNode) {
	story := &models.Story{
		Title:     "The Test Voyage",
		SessionID: uuid.NewString(),
	}
	s.Require().NoError(s.storyRepo.Create(s.ctx, story))

	ending := &models.StoryNode{
		StoryID:         story.ID,
		Content:         "You found the treasure.",
		IsEnding:        true,
		IsWinningEnding: true,
	}
	s.Require().NoError(s.storyRepo.CreateNode(s.ctx, ending))

	root := &models.StoryNode{
		StoryID: story.ID,
		Content: "You stand at the dock.",
		IsRoot:  true,
		Options: models.StoryOptions{
			{Text: "Board the ship", NodeID: &ending.ID},
		},
	}
	s.Require().NoError(s.storyRepo.CreateNode(s.ctx, root))

	return story, []models.StoryNode{*root, *ending}
}
