// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidReqBody = "Invalid request body"
)

// Story error messages
const (
	ErrMsgThemeRequired       = "Theme is required"
	ErrMsgInvalidStoryID      = "Invalid story id"
	ErrMsgStoryNotFound       = "Story not found"
	ErrMsgStoryAssembleFailed = "Failed to assemble story"
	ErrMsgStorySubmitFailed   = "Failed to submit story job"
)

// Job error messages
const (
	ErrMsgJobIDRequired   = "Job id is required"
	ErrMsgJobNotFound     = "Job not found"
	ErrMsgJobGetFailed    = "Failed to get job"
	ErrMsgJobListFailed   = "Failed to list jobs"
	ErrMsgSessionRequired = "Session id is required"
)
