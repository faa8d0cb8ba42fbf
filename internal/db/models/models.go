// Package models defines the database models for the story service
package models

// ListOptions contains common options for listing resources
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}

// DefaultListLimit is the default number of items returned by list queries
const DefaultListLimit = 50
