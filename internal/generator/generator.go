// Package generator produces branching stories from a theme and persists
// them as node trees
package generator

import "context"

// Generator turns a theme into a complete, persisted story. Implementations
// return the id of the stored story; any error means nothing usable was
// produced and the caller records the failure.
type Generator interface {
	Generate(ctx context.Context, sessionID, theme string) (uint, error)
}
