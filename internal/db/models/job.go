package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field names for the story job model
const (
	// JobStatusField is the field name for job status
	JobStatusField = "status"
	// JobIDField is the field name for the public job identifier
	JobIDField = "job_id"
)

// JobStatus represents the current state of a story generation job
type JobStatus string

// Job status constants
const (
	// JobStatusUnknown represents an unknown or invalid job status
	JobStatusUnknown JobStatus = "unknown"
	// JobStatusPending indicates the job has been accepted but not started
	JobStatusPending JobStatus = "pending"
	// JobStatusProcessing indicates the job is currently generating a story
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates the job has finished and a story exists
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates story generation failed
	JobStatusFailed JobStatus = "failed"
)

// StoryJob tracks one asynchronous story generation request until it reaches
// a terminal state. The submission path creates it in pending state; after
// that only its own executor writes to it.
type StoryJob struct {
	gorm.Model
	JobID       string     `json:"job_id" gorm:"not null;uniqueIndex"`
	SessionID   string     `json:"session_id" gorm:"not null;index"`
	Theme       string     `json:"theme" gorm:"not null;type:text"`
	Status      JobStatus  `json:"status" gorm:"not null;index"`
	StoryID     *uint      `json:"story_id,omitempty" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

// String returns the string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status allows no further transitions
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ParseJobStatus converts a string to a JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch str {
	case string(JobStatusUnknown):
		return JobStatusUnknown, nil
	case string(JobStatusPending):
		return JobStatusPending, nil
	case string(JobStatusProcessing):
		return JobStatusProcessing, nil
	case string(JobStatusCompleted):
		return JobStatusCompleted, nil
	case string(JobStatusFailed):
		return JobStatusFailed, nil
	default:
		return JobStatusUnknown, fmt.Errorf("invalid job status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// MarshalJSON implements json.Marshaler for JobStatus
func (s *JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Validate ensures that the job data is valid
func (j *StoryJob) Validate() error {
	if j.JobID == "" {
		return fmt.Errorf("job id cannot be empty")
	}
	if j.Theme == "" {
		return fmt.Errorf("job theme cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new job
func (j *StoryJob) BeforeCreate(_ *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobStatusPending
	}
	return j.Validate()
}
