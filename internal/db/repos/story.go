package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fableforge/fable/internal/db/models"
)

// ErrStoryNotFound is returned when a story does not exist in the database
var ErrStoryNotFound = errors.New("story not found")

// StoryRepository handles database operations for stories and their nodes
type StoryRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new instance of StoryRepository
func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{
		db: db,
	}
}

// Create creates a new story in the database
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// GetByID retrieves a story by its ID
func (r *StoryRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Where(&models.Story{Model: gorm.Model{ID: id}}).
		First(&story).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &story, nil
}

// CreateNode creates a new story node in the database
func (r *StoryRepository) CreateNode(ctx context.Context, node *models.StoryNode) error {
	return r.db.WithContext(ctx).Create(node).Error
}

// UpdateNode updates an existing story node in the database
func (r *StoryRepository) UpdateNode(ctx context.Context, node *models.StoryNode) error {
	return r.db.WithContext(ctx).Save(node).Error
}

// GetNodesByStoryID retrieves all nodes belonging to a story
func (r *StoryRepository) GetNodesByStoryID(ctx context.Context, storyID uint) ([]models.StoryNode, error) {
	var nodes []models.StoryNode
	err := r.db.WithContext(ctx).
		Where(models.StoryNode{StoryID: storyID}).
		Find(&nodes).Error
	return nodes, err
}

// Transaction runs fn inside a database transaction against a repository
// bound to that transaction
func (r *StoryRepository) Transaction(ctx context.Context, fn func(tx *StoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStoryRepository(tx))
	})
}
