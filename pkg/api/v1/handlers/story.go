package handlers

import (
	"errors"
	"strconv"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/services"
	"github.com/fableforge/fable/internal/types"
)

// SessionCookieName is the cookie carrying the client session identifier
const SessionCookieName = "session_id"

// SessionHeaderName is the request header alternative to the session cookie
const SessionHeaderName = "X-Session-ID"

// StoryHandler handles HTTP requests for stories
type StoryHandler struct {
	jobService   *services.Job
	storyService *services.Story
}

// NewStoryHandler creates a new instance of StoryHandler
func NewStoryHandler(jobService *services.Job, storyService *services.Story) *StoryHandler {
	return &StoryHandler{
		jobService:   jobService,
		storyService: storyService,
	}
}

// CreateStory handles submitting a new story generation job. It returns the
// pending job immediately; generation happens in the background.
func (h *StoryHandler) CreateStory(c *fiber.Ctx) error {
	var req types.CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if req.Theme == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgThemeRequired))
	}

	sessionID := resolveSessionID(c)
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		HTTPOnly: true,
	})

	job, err := h.jobService.Submit(c.Context(), sessionID, req.Theme)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(ErrMsgStorySubmitFailed))
	}

	return c.Status(fiber.StatusAccepted).JSON(types.Success(types.NewJobResponse(job)))
}

// GetCompleteStory handles retrieving a fully assembled story tree
func (h *StoryHandler) GetCompleteStory(c *fiber.Ctx) error {
	storyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidStoryID))
	}

	story, err := h.storyService.AssembleTree(c.Context(), uint(storyID))
	if errors.Is(err, repos.ErrStoryNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(ErrMsgStoryNotFound))
	}
	if err != nil {
		// Covers the missing-root case: an existing story without a root is
		// corrupted data and must surface as a server fault, not a 404.
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(story))
}

// resolveSessionID returns the caller's session id from the cookie or header,
// minting a fresh one when neither is present
func resolveSessionID(c *fiber.Ctx) string {
	if sessionID := c.Cookies(SessionCookieName); sessionID != "" {
		return sessionID
	}
	if sessionID := c.Get(SessionHeaderName); sessionID != "" {
		return sessionID
	}
	return uuid.NewString()
}
