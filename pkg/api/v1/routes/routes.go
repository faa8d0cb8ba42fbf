// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/fableforge/fable/pkg/api/v1/handlers"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Story routes
	CreateStory      = "CreateStory"
	GetCompleteStory = "GetCompleteStory"

	// Job routes
	GetJob   = "GetJob"
	ListJobs = "ListJobs"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered.
func RegisterRoutes(
	app *fiber.App,
	storyHandler *handlers.StoryHandler,
	jobHandler *handlers.JobHandler,
) {
	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// Story endpoints
	stories := v1.Group("/stories")
	stories.Get("/:id/complete", storyHandler.GetCompleteStory).Name(GetCompleteStory)
	stories.Post("/", storyHandler.CreateStory).Name(CreateStory)

	// Job endpoints
	jobs := v1.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs).Name(ListJobs)
	jobs.Get("/:id", jobHandler.GetJob).Name(GetJob)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Create empty handlers for route registration
		mockStoryHandler := &handlers.StoryHandler{}
		mockJobHandler := &handlers.JobHandler{}

		RegisterRoutes(app, mockStoryHandler, mockJobHandler)

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()

	// Initialize cache if needed
	if routeCache == nil {
		routeCacheMu.RUnlock()
		initRouteCache()
		routeCacheMu.RLock()
	}

	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Story route helpers

// CreateStoryURL returns the URL for submitting a story job
func CreateStoryURL() string {
	return BuildURL(CreateStory, nil, nil)
}

// GetCompleteStoryURL returns the URL for fetching an assembled story
func GetCompleteStoryURL(id string) string {
	return BuildURL(GetCompleteStory, map[string]string{"id": id}, nil)
}

// Job route helpers

// GetJobURL returns the URL for polling a job
func GetJobURL(id string) string {
	return BuildURL(GetJob, map[string]string{"id": id}, nil)
}

// ListJobsURL returns the URL for listing the session's jobs
func ListJobsURL(queryParams url.Values) string {
	return BuildURL(ListJobs, nil, queryParams)
}
