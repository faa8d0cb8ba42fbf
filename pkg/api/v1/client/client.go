// Package client provides the API client for interacting with the story service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/fableforge/fable/internal/types"
	"github.com/fableforge/fable/pkg/api/v1/handlers"
	"github.com/fableforge/fable/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Story Endpoints
	CreateStory(ctx context.Context, theme string) (types.JobResponse, error)
	GetCompleteStory(ctx context.Context, storyID string) (types.CompleteStoryResponse, error)

	// Job Endpoints
	GetJob(ctx context.Context, jobID string) (types.JobResponse, error)
	ListJobs(ctx context.Context, queryParams url.Values) ([]types.JobResponse, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// SessionID identifies the caller's session; empty means the server
	// mints one on the first submission
	SessionID string
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	timeout   time.Duration
	sessionID string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL:   opts.BaseURL,
		timeout:   opts.Timeout,
		sessionID: opts.SessionID,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.sessionID != "" {
		agent.Set(handlers.SessionHeaderName, c.sessionID)
	}

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the enveloped response into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		var slugResponse types.SlugResponse
		if err := json.Unmarshal(body, &slugResponse); err == nil && slugResponse.Error != "" {
			return &fiber.Error{
				Code:    statusCode,
				Message: slugResponse.Error,
			}
		}
		// If we can't decode the error response, use the raw body as the message
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	if v == nil || len(body) == 0 {
		return nil
	}

	// Unwrap the slug envelope and decode the data payload
	var slugResponse types.SlugResponse
	if err := json.Unmarshal(body, &slugResponse); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	if slugResponse.Data == nil {
		return nil
	}

	dataJSON, err := json.Marshal(slugResponse.Data)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	return json.Unmarshal(dataJSON, v)
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, routes.HealthCheckURL(), nil)
	if err != nil {
		return nil, err
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status %d", statusCode)
	}

	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return health, nil
}

// CreateStory submits a new story generation job
func (c *APIClient) CreateStory(ctx context.Context, theme string) (types.JobResponse, error) {
	var job types.JobResponse
	req := types.CreateStoryRequest{Theme: theme}
	err := c.executeRequest(ctx, http.MethodPost, routes.CreateStoryURL(), req, &job)
	return job, err
}

// GetCompleteStory retrieves a fully assembled story tree
func (c *APIClient) GetCompleteStory(ctx context.Context, storyID string) (types.CompleteStoryResponse, error) {
	var story types.CompleteStoryResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.GetCompleteStoryURL(storyID), nil, &story)
	return story, err
}

// GetJob polls a story job by its public identifier
func (c *APIClient) GetJob(ctx context.Context, jobID string) (types.JobResponse, error) {
	var job types.JobResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.GetJobURL(jobID), nil, &job)
	return job, err
}

// ListJobs retrieves the jobs of the client's session
func (c *APIClient) ListJobs(ctx context.Context, queryParams url.Values) ([]types.JobResponse, error) {
	var jobs []types.JobResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.ListJobsURL(queryParams), nil, &jobs)
	return jobs, err
}
