package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fableforge/fable/internal/db/models"
	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/services"
	"github.com/fableforge/fable/internal/types"
	"github.com/fableforge/fable/pkg/api/v1/handlers"
	"github.com/fableforge/fable/pkg/api/v1/routes"
)

// treeGenerator is a generation double that persists a minimal two-node
// story, exercising the same write path the real generator uses
type treeGenerator struct {
	stories *repos.StoryRepository
}

func (g *treeGenerator) Generate(ctx context.Context, sessionID, theme string) (uint, error) {
	story := &models.Story{Title: "Generated: " + theme, SessionID: sessionID}
	if err := g.stories.Create(ctx, story); err != nil {
		return 0, err
	}
	ending := &models.StoryNode{
		StoryID:         story.ID,
		Content:         "The end.",
		IsEnding:        true,
		IsWinningEnding: true,
	}
	if err := g.stories.CreateNode(ctx, ending); err != nil {
		return 0, err
	}
	root := &models.StoryNode{
		StoryID: story.ID,
		Content: "It begins.",
		IsRoot:  true,
		Options: models.StoryOptions{{Text: "Onward", NodeID: &ending.ID}},
	}
	if err := g.stories.CreateNode(ctx, root); err != nil {
		return 0, err
	}
	return story.ID, nil
}

type testEnv struct {
	app       *fiber.App
	storyRepo *repos.StoryRepository
	jobRepo   *repos.JobRepository
	cleanup   func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")
	require.NoError(t, db.AutoMigrate(&models.StoryJob{}, &models.Story{}, &models.StoryNode{}))

	jobRepo := repos.NewJobRepository(db)
	storyRepo := repos.NewStoryRepository(db)

	dispatcher := services.NewDispatcher(8)
	jobService := services.NewJobService(db, jobRepo, &treeGenerator{stories: storyRepo}, dispatcher)
	storyService := services.NewStoryService(storyRepo)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	dispatcher.Start(ctx, &wg, 1, jobService)

	app := fiber.New()
	routes.RegisterRoutes(app,
		handlers.NewStoryHandler(jobService, storyService),
		handlers.NewJobHandler(jobService),
	)

	return &testEnv{
		app:       app,
		storyRepo: storyRepo,
		jobRepo:   jobRepo,
		cleanup: func() {
			cancel()
			wg.Wait()
		},
	}
}

// decodeEnvelope decodes a slug response, unmarshaling Data into target
func decodeEnvelope(t *testing.T, resp *http.Response, target interface{}) types.SlugResponse {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope types.SlugResponse
	require.NoError(t, json.Unmarshal(body, &envelope))

	if target != nil && envelope.Data != nil {
		dataJSON, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataJSON, target))
	}
	return envelope
}

func TestCreateStoryAndFetchTree(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	// Submit a story job
	reqBody, _ := json.Marshal(types.CreateStoryRequest{Theme: "pirate treasure"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var job types.JobResponse
	envelope := decodeEnvelope(t, resp, &job)
	assert.Equal(t, types.SuccessSlug, envelope.Slug)
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Nil(t, job.StoryID)

	// A session cookie is set for the caller
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, handlers.SessionCookieName, cookies[0].Name)

	// Poll the job until it completes in the background
	var final types.JobResponse
	require.Eventually(t, func() bool {
		pollReq := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.JobID, nil)
		pollResp, err := env.app.Test(pollReq)
		if err != nil || pollResp.StatusCode != fiber.StatusOK {
			return false
		}
		body, err := io.ReadAll(pollResp.Body)
		if err != nil {
			return false
		}
		var envelope struct {
			Data types.JobResponse `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return false
		}
		final = envelope.Data
		return final.Status == models.JobStatusCompleted
	}, 3*time.Second, 20*time.Millisecond)

	require.NotNil(t, final.StoryID)
	assert.NotNil(t, final.CompletedAt)
	assert.Empty(t, final.Error)

	// Fetch the assembled tree
	treeReq := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/stories/%d/complete", *final.StoryID), nil)
	treeResp, err := env.app.Test(treeReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, treeResp.StatusCode)

	var tree types.CompleteStoryResponse
	decodeEnvelope(t, treeResp, &tree)
	assert.Equal(t, *final.StoryID, tree.ID)
	assert.Len(t, tree.AllNodes, 2)
	assert.Equal(t, "It begins.", tree.RootNode.Content)
	require.Len(t, tree.RootNode.Options, 1)
	require.NotNil(t, tree.RootNode.Options[0].NodeID)
	assert.True(t, tree.AllNodes[*tree.RootNode.Options[0].NodeID].IsEnding)
}

func TestCreateStoryRequiresTheme(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	reqBody, _ := json.Marshal(types.CreateStoryRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp, nil)
	assert.Equal(t, types.InvalidInputSlug, envelope.Slug)
}

func TestGetCompleteStoryNotFound(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stories/999999/complete", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp, nil)
	assert.Equal(t, types.NotFoundSlug, envelope.Slug)
}

func TestGetCompleteStoryMissingRootIsServerFault(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	// An existing story whose node set has no root is corrupted data
	story := &models.Story{Title: "Broken"}
	require.NoError(t, env.storyRepo.Create(context.Background(), story))
	require.NoError(t, env.storyRepo.CreateNode(context.Background(), &models.StoryNode{
		StoryID: story.ID,
		Content: "Adrift",
	}))

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/stories/%d/complete", story.ID), nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	envelope := decodeEnvelope(t, resp, nil)
	assert.Equal(t, types.ServerErrorSlug, envelope.Slug)
}

func TestGetJobNotFound(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/no-such-job", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp, nil)
	assert.Equal(t, types.NotFoundSlug, envelope.Slug)
}

func TestListJobsBySessionHeader(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	// Submit two jobs under an explicit session
	for _, theme := range []string{"first", "second"} {
		reqBody, _ := json.Marshal(types.CreateStoryRequest{Theme: theme})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stories", bytes.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(handlers.SessionHeaderName, "session-list-test")
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/", nil)
	req.Header.Set(handlers.SessionHeaderName, "session-list-test")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var jobs []types.JobResponse
	decodeEnvelope(t, resp, &jobs)
	assert.Len(t, jobs, 2)

	// Without a session there is nothing to list
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/", nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
