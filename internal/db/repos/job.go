package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fableforge/fable/internal/db/models"
)

// ErrJobNotFound is returned when a job does not exist in the database
var ErrJobNotFound = errors.New("job not found")

// JobRepository handles database operations for story jobs
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new instance of JobRepository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{
		db: db,
	}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.StoryJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByJobID retrieves a job by its public job identifier
func (r *JobRepository) GetByJobID(ctx context.Context, jobID string) (*models.StoryJob, error) {
	var job models.StoryJob
	err := r.db.WithContext(ctx).
		Where(models.StoryJob{JobID: jobID}).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// Update updates an existing job in the database
func (r *JobRepository) Update(ctx context.Context, job *models.StoryJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// UpdateStatus updates only the status of a job in the database
func (r *JobRepository) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	return r.db.WithContext(ctx).Model(&models.StoryJob{}).
		Where(models.StoryJob{JobID: jobID}).
		Update(models.JobStatusField, status).Error
}

// ListBySession retrieves all jobs for a session, newest first
func (r *JobRepository) ListBySession(ctx context.Context, sessionID string, opts *models.ListOptions) ([]models.StoryJob, error) {
	var jobs []models.StoryJob
	query := r.db.WithContext(ctx).
		Where(models.StoryJob{SessionID: sessionID}).
		Order("created_at DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&jobs).Error
	return jobs, err
}
