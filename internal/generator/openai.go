package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/fableforge/fable/internal/db/models"
	"github.com/fableforge/fable/internal/db/repos"
)

const (
	// DefaultModel is the OpenAI model used when none is configured
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout is the timeout for a single generation call
	DefaultTimeout = 60 * time.Second

	// MaxRetries is the maximum number of retries on rate limit errors
	MaxRetries = 3

	// BaseBackoff is the base wait time for exponential backoff
	BaseBackoff = 2 * time.Second

	// MaxBackoff is the maximum wait time for exponential backoff
	MaxBackoff = 32 * time.Second
)

// ErrAPIKeyNotSet is returned when no OpenAI API key is configured
var ErrAPIKeyNotSet = errors.New("OpenAI API key not set: please set OPENAI_API_KEY environment variable")

// OpenAI generates stories through the OpenAI chat completions API and
// persists them through the story repository
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
	stories *repos.StoryRepository
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates a new OpenAI generator. An empty model selects
// DefaultModel.
func NewOpenAI(apiKey, model string, stories *repos.StoryRepository) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAI{
		client:  client,
		model:   model,
		timeout: DefaultTimeout,
		stories: stories,
	}, nil
}

// SetTimeout sets the timeout for a single generation call
func (g *OpenAI) SetTimeout(timeout time.Duration) {
	g.timeout = timeout
}

// Generate produces a story for the theme and returns the persisted story id.
// The whole story tree is written in one transaction, so a half-generated
// story is never visible.
func (g *OpenAI) Generate(ctx context.Context, sessionID, theme string) (uint, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.completeWithRetry(ctx, theme)
	if err != nil {
		return 0, err
	}

	spec, err := parseStory([]byte(content))
	if err != nil {
		return 0, err
	}

	var storyID uint
	err = g.stories.Transaction(ctx, func(tx *repos.StoryRepository) error {
		id, err := persistStory(ctx, tx, sessionID, spec)
		if err != nil {
			return err
		}
		storyID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to persist generated story: %w", err)
	}

	return storyID, nil
}

func (g *OpenAI) completeWithRetry(ctx context.Context, theme string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := time.Duration(math.Pow(2, float64(attempt-1))) * BaseBackoff
			if backoffDuration > MaxBackoff {
				backoffDuration = MaxBackoff
			}

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDuration):
			}
		}

		params := openai.ChatCompletionNewParams{
			Model: shared.ChatModel(g.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt(theme)),
			},
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{
					Type: "json_object",
				},
			},
		}

		completion, err := g.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err

			if isRateLimitError(err) {
				continue
			}

			return "", fmt.Errorf("OpenAI API call failed: %w", err)
		}

		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("no completion choices returned")
		}

		return completion.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// persistStory writes the story record and its node tree
func persistStory(ctx context.Context, tx *repos.StoryRepository, sessionID string, spec *storySpec) (uint, error) {
	story := &models.Story{
		Title:     spec.Title,
		SessionID: sessionID,
	}
	if err := tx.Create(ctx, story); err != nil {
		return 0, err
	}

	if _, err := persistNode(ctx, tx, story.ID, spec.RootNode, true); err != nil {
		return 0, err
	}

	return story.ID, nil
}

// persistNode writes one node and its subtree. Children are inserted first so
// the node's option edges can reference their ids.
func persistNode(ctx context.Context, tx *repos.StoryRepository, storyID uint, spec *nodeSpec, isRoot bool) (uint, error) {
	options := make(models.StoryOptions, 0, len(spec.Options))
	for _, opt := range spec.Options {
		var childID *uint
		if opt.NextNode != nil {
			id, err := persistNode(ctx, tx, storyID, opt.NextNode, false)
			if err != nil {
				return 0, err
			}
			childID = &id
		}
		options = append(options, models.StoryOption{Text: opt.Text, NodeID: childID})
	}

	node := &models.StoryNode{
		StoryID:         storyID,
		Content:         spec.Content,
		IsRoot:          isRoot,
		IsEnding:        spec.IsEnding,
		IsWinningEnding: spec.IsWinningEnding,
		Options:         options,
	}
	if err := tx.CreateNode(ctx, node); err != nil {
		return 0, err
	}

	return node.ID, nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	return false
}
