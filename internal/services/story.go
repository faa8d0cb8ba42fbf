package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fableforge/fable/internal/db/models"
	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/types"
)

// ErrRootNodeMissing is returned when a story exists but none of its nodes
// carries the root flag. This is corrupted data, a server-side fault, and is
// deliberately distinct from the not-found case.
var ErrRootNodeMissing = errors.New("story root node not found")

// Story handles read operations over persisted stories
type Story struct {
	repo *repos.StoryRepository
}

// NewStoryService creates a new instance of the story service
func NewStoryService(repo *repos.StoryRepository) *Story {
	return &Story{
		repo: repo,
	}
}

// AssembleTree reconstructs the full narrative tree for a story from its flat
// node set. It never writes. Returns repos.ErrStoryNotFound when the story
// does not exist and ErrRootNodeMissing when it exists but has no root node
// (a story with zero nodes is the degenerate case of the latter).
func (s *Story) AssembleTree(ctx context.Context, storyID uint) (*types.CompleteStoryResponse, error) {
	story, err := s.repo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.repo.GetNodesByStoryID(ctx, story.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load story nodes: %w", err)
	}

	allNodes := make(map[uint]types.StoryNodeResponse, len(nodes))
	for _, node := range nodes {
		options := make([]types.StoryOptionResponse, 0, len(node.Options))
		for _, opt := range node.Options {
			options = append(options, types.StoryOptionResponse{
				Text:   opt.Text,
				NodeID: opt.NodeID,
			})
		}
		allNodes[node.ID] = types.StoryNodeResponse{
			ID:              node.ID,
			Content:         node.Content,
			IsEnding:        node.IsEnding,
			IsWinningEnding: node.IsWinningEnding,
			Options:         options,
		}
	}

	// First root flag in load order wins; the write path guarantees there is
	// exactly one.
	var root *models.StoryNode
	for i := range nodes {
		if nodes[i].IsRoot {
			root = &nodes[i]
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("story %d: %w", story.ID, ErrRootNodeMissing)
	}

	return &types.CompleteStoryResponse{
		ID:        story.ID,
		Title:     story.Title,
		SessionID: story.SessionID,
		CreatedAt: story.CreatedAt,
		RootNode:  allNodes[root.ID],
		AllNodes:  allNodes,
	}, nil
}
