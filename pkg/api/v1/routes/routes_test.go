package routes

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRoute(t *testing.T) {
	assert.Equal(t, "/health", GetRoute(HealthCheck))
	assert.Equal(t, "/api/v1/stories/", GetRoute(CreateStory))
	assert.Equal(t, "/api/v1/stories/:id/complete", GetRoute(GetCompleteStory))
	assert.Equal(t, "/api/v1/jobs/:id", GetRoute(GetJob))
	assert.Equal(t, "", GetRoute("NoSuchRoute"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "/api/v1/stories", CreateStoryURL())
	assert.Equal(t, "/api/v1/stories/42/complete", GetCompleteStoryURL("42"))
	assert.Equal(t, "/api/v1/jobs/abc-123", GetJobURL("abc-123"))
	assert.Equal(t, "/health", HealthCheckURL())
}

func TestBuildURLWithQueryParams(t *testing.T) {
	query := url.Values{}
	query.Set("limit", "10")
	query.Set("offset", "20")

	built := ListJobsURL(query)
	assert.Equal(t, "/api/v1/jobs?limit=10&offset=20", built)
}

func TestBuildURLUnknownRoute(t *testing.T) {
	assert.Equal(t, "", BuildURL("Unknown", nil, nil))
}
