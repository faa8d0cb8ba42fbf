// Package types defines the request and response types of the story API
package types

import (
	"time"

	"github.com/fableforge/fable/internal/db/models"
)

// Slug is a type for the slug field in the response
// It is mainly used for the client to understand the type of the response
type Slug string

// Response slugs
const (
	SuccessSlug      Slug = "success"
	InvalidInputSlug Slug = "invalid-input"
	NotFoundSlug     Slug = "not-found"
	ServerErrorSlug  Slug = "server-error"
)

// SlugResponse is the envelope type for all API responses
type SlugResponse struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrInvalidInput returns a SlugResponse with the InvalidInputSlug and the error message
func ErrInvalidInput(msg string) SlugResponse {
	return SlugResponse{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

// ErrNotFound returns a SlugResponse with the NotFoundSlug and the error message
func ErrNotFound(msg string) SlugResponse {
	return SlugResponse{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

// ErrServer returns a SlugResponse with the ServerErrorSlug and the error message
func ErrServer(msg string) SlugResponse {
	return SlugResponse{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}

// Success returns a SlugResponse with the SuccessSlug and the data
func Success(data interface{}) SlugResponse {
	return SlugResponse{
		Slug: SuccessSlug,
		Data: data,
	}
}

// JobResponse is the serializable summary of a story job returned by the
// submission and polling endpoints
type JobResponse struct {
	JobID       string           `json:"job_id"`
	Status      models.JobStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	StoryID     *uint            `json:"story_id,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// NewJobResponse builds a JobResponse from a job record
func NewJobResponse(job *models.StoryJob) JobResponse {
	return JobResponse{
		JobID:       job.JobID,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		StoryID:     job.StoryID,
		CompletedAt: job.CompletedAt,
		Error:       job.Error,
	}
}

// StoryOptionResponse is one outgoing edge of a node in an assembled story
type StoryOptionResponse struct {
	Text   string `json:"text"`
	NodeID *uint  `json:"node_id,omitempty"`
}

// StoryNodeResponse is the presentation shape of one story node
type StoryNodeResponse struct {
	ID              uint                  `json:"id"`
	Content         string                `json:"content"`
	IsEnding        bool                  `json:"is_ending"`
	IsWinningEnding bool                  `json:"is_winning_ending"`
	Options         []StoryOptionResponse `json:"options"`
}

// CompleteStoryResponse is a fully assembled story tree. AllNodes maps node
// id to node so option edges can be resolved without further queries.
type CompleteStoryResponse struct {
	ID        uint                       `json:"id"`
	Title     string                     `json:"title"`
	SessionID string                     `json:"session_id,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	RootNode  StoryNodeResponse          `json:"root_node"`
	AllNodes  map[uint]StoryNodeResponse `json:"all_nodes"`
}
