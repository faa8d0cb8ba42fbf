package generator

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validation errors for parsed stories
var (
	// ErrEmptyStory is returned when the model response has no usable content
	ErrEmptyStory = errors.New("generated story is empty")
	// ErrMissingRoot is returned when the model response has no root node.
	// A story without exactly one root is never persisted.
	ErrMissingRoot = errors.New("generated story has no root node")
)

// storySpec is the wire shape of a generated story
type storySpec struct {
	Title    string    `json:"title"`
	RootNode *nodeSpec `json:"rootNode"`
}

// nodeSpec is the wire shape of one generated node and its subtree
type nodeSpec struct {
	Content         string       `json:"content"`
	IsEnding        bool         `json:"isEnding"`
	IsWinningEnding bool         `json:"isWinningEnding"`
	Options         []optionSpec `json:"options"`
}

// optionSpec is one generated choice leading to a child subtree
type optionSpec struct {
	Text     string    `json:"text"`
	NextNode *nodeSpec `json:"nextNode"`
}

// parseStory decodes and validates a generated story document
func parseStory(data []byte) (*storySpec, error) {
	var spec storySpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode generated story: %w", err)
	}
	if spec.Title == "" {
		return nil, ErrEmptyStory
	}
	if spec.RootNode == nil || spec.RootNode.Content == "" {
		return nil, ErrMissingRoot
	}
	return &spec, nil
}
