package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/fableforge/fable/internal/db/models"
	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/services"
	"github.com/fableforge/fable/internal/types"
)

// JobHandler handles HTTP requests for story jobs
type JobHandler struct {
	jobService *services.Job
}

// NewJobHandler creates a new instance of JobHandler
func NewJobHandler(jobService *services.Job) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// GetJob handles polling a job by its public identifier
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	job, err := h.jobService.Get(c.Context(), jobID)
	if errors.Is(err, repos.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(ErrMsgJobNotFound))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(ErrMsgJobGetFailed))
	}

	return c.JSON(types.Success(types.NewJobResponse(job)))
}

// ListJobs handles retrieving the jobs of the caller's session
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	sessionID := resolveSessionIDForList(c)
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgSessionRequired))
	}

	limit := c.QueryInt("limit", models.DefaultListLimit)
	offset := c.QueryInt("offset", 0)

	jobs, err := h.jobService.ListBySession(c.Context(), sessionID, &models.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(ErrMsgJobListFailed))
	}

	responses := make([]types.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, types.NewJobResponse(&jobs[i]))
	}

	return c.JSON(types.Success(responses))
}

// resolveSessionIDForList reads the session id without minting a new one;
// listing jobs for a session nobody owns is meaningless
func resolveSessionIDForList(c *fiber.Ctx) string {
	if sessionID := c.Cookies(SessionCookieName); sessionID != "" {
		return sessionID
	}
	return c.Get(SessionHeaderName)
}
