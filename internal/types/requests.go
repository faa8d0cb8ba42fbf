package types

// CreateStoryRequest is the request body for submitting a new story job
type CreateStoryRequest struct {
	// Theme is the free-text theme the story should be generated around
	Theme string `json:"theme"`
}
