// Package tasks agenda tarefas periódicas em background, como as varreduras
// de tokens CSRF e de contadores expirados.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TaskFunc is the unit of work. The logger is already scoped to the task.
type TaskFunc func(ctx context.Context, logger zerolog.Logger) error

type TaskStatus struct {
	Name       string    `json:"name,omitempty"`
	Running    bool      `json:"running,omitempty"`
	LastRun    time.Time `json:"last_run"`
	LastResult string    `json:"last_result,omitempty"`
	NextRun    time.Time `json:"next_run"`
}

type TaskNotFoundError struct {
	Name string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.Name)
}

type TaskAlreadyRunningError struct {
	Name string
}

func (e TaskAlreadyRunningError) Error() string {
	return fmt.Sprintf("task %q is already running", e.Name)
}
