package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fableforge/fable/internal/db/models"
	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/generator"
	"github.com/fableforge/fable/internal/logger"
)

// Job handles the lifecycle of story generation jobs: synchronous submission
// and the asynchronous executor that drives a job to its terminal state.
type Job struct {
	db         *gorm.DB
	repo       *repos.JobRepository
	generator  generator.Generator
	dispatcher *Dispatcher
}

// NewJobService creates a new instance of the job service
func NewJobService(db *gorm.DB, repo *repos.JobRepository, gen generator.Generator, dispatcher *Dispatcher) *Job {
	return &Job{
		db:         db,
		repo:       repo,
		generator:  gen,
		dispatcher: dispatcher,
	}
}

// Submit creates a pending job, schedules its execution, and returns without
// waiting for generation. The task is enqueued only after the record is
// committed, so the executor always finds it.
func (s *Job) Submit(ctx context.Context, sessionID, theme string) (*models.StoryJob, error) {
	job := &models.StoryJob{
		JobID:     uuid.NewString(),
		SessionID: sessionID,
		Theme:     theme,
		Status:    models.JobStatusPending,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.dispatcher.Enqueue(GenerationTask{
		JobID:     job.JobID,
		Theme:     theme,
		SessionID: sessionID,
	})

	return job, nil
}

// Get retrieves a job by its public identifier
func (s *Job) Get(ctx context.Context, jobID string) (*models.StoryJob, error) {
	return s.repo.GetByJobID(ctx, jobID)
}

// ListBySession retrieves the jobs submitted by one session, newest first
func (s *Job) ListBySession(ctx context.Context, sessionID string, opts *models.ListOptions) ([]models.StoryJob, error) {
	return s.repo.ListBySession(ctx, sessionID, opts)
}

// Execute runs one generation job to its terminal state. It is called on a
// worker goroutine after the submitting request has returned, so it uses a
// fresh database session and a background context, never state owned by the
// request. Generation failures are recorded on the job and absorbed here;
// nothing propagates to a caller.
func (s *Job) Execute(task GenerationTask) {
	ctx := context.Background()
	repo := repos.NewJobRepository(s.db.Session(&gorm.Session{NewDB: true}))

	job, err := repo.GetByJobID(ctx, task.JobID)
	if errors.Is(err, repos.ErrJobNotFound) {
		// The record was never committed or has been deleted since
		// scheduling. Not a fault; there is simply nothing to do.
		return
	}
	if err != nil {
		logger.Errorf("Failed to load job %s for execution: %v", task.JobID, err)
		return
	}

	// Commit the intermediate state before generating, so a crash mid-way
	// is observable as "processing" rather than silently lost.
	job.Status = models.JobStatusProcessing
	if err := repo.Update(ctx, job); err != nil {
		logger.Errorf("Failed to mark job %s as processing: %v", job.JobID, err)
		return
	}

	storyID, genErr := s.generator.Generate(ctx, task.SessionID, task.Theme)

	now := time.Now()
	job.CompletedAt = &now
	if genErr != nil {
		job.Status = models.JobStatusFailed
		job.Error = genErr.Error()
		logger.WarnWithFields("Story generation failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  genErr.Error(),
		})
	} else {
		job.Status = models.JobStatusCompleted
		job.StoryID = &storyID
		logger.InfoWithFields("Story generation completed", map[string]interface{}{
			"job_id":   job.JobID,
			"story_id": storyID,
		})
	}

	if err := repo.Update(ctx, job); err != nil {
		logger.Errorf("Failed to record terminal state for job %s: %v", job.JobID, err)
	}
}
