package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strrl/lain/internal/datastore"
	"github.com/strrl/lain/pkg/models"
)

// Message types for async operations
type (
	// ProjectsLoadedMsg carries the project directory
	ProjectsLoadedMsg struct {
		Request  datastore.Request
		Projects map[string]models.Project
		Error    error
	}

	// StatsLoadedMsg carries one stats response. Responses can arrive out of
	// order; the controller drops superseded ones.
	StatsLoadedMsg struct {
		Request  datastore.Request
		Snapshot *models.StatsSnapshot
		Error    error
	}

	// TickMsg is sent periodically for spinner animation
	TickMsg time.Time
)

// loadProjectsCmd fetches the project directory
func loadProjectsCmd(ctx context.Context, exec *datastore.Executor, src datastore.Source, req datastore.Request) tea.Cmd {
	fetchCtx := exec.Context(ctx, req)
	return func() tea.Msg {
		defer exec.Done(req)
		projects, err := src.FetchProjects(fetchCtx)
		return ProjectsLoadedMsg{
			Request:  req,
			Projects: projects,
			Error:    err,
		}
	}
}

// loadStatsCmd fetches stats for the request's query. The fetch context is
// taken when the command is built, which cancels any older stats fetch.
func loadStatsCmd(ctx context.Context, exec *datastore.Executor, src datastore.Source, req datastore.Request) tea.Cmd {
	fetchCtx := exec.Context(ctx, req)
	return func() tea.Msg {
		defer exec.Done(req)
		snap, err := src.FetchStats(fetchCtx, req.Query)
		return StatsLoadedMsg{
			Request:  req,
			Snapshot: snap,
			Error:    err,
		}
	}
}

// tickCmd creates a ticker for spinner animation
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
