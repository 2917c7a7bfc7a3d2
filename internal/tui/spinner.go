package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/lain/internal/theme"
)

// Spinner cycles through braille frames while fetches are outstanding
type Spinner struct {
	frames []string
	frame  int
}

func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	}
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(s.frames)
}

func (s *Spinner) View() string {
	return s.frames[s.frame]
}

// LoadingIndicator is a spinner with a message
type LoadingIndicator struct {
	spinner *Spinner
	message string
}

func NewLoadingIndicator(message string) *LoadingIndicator {
	return &LoadingIndicator{
		spinner: NewSpinner(),
		message: message,
	}
}

func (l *LoadingIndicator) SetMessage(message string) {
	l.message = message
}

func (l *LoadingIndicator) Tick() {
	l.spinner.Next()
}

func (l *LoadingIndicator) View(styles theme.Styles) string {
	return fmt.Sprintf("%s %s",
		styles.Cursor.Render(l.spinner.View()),
		styles.Muted.Render(l.message))
}

// LoadingOverlay centres the indicator in a width x height box
func LoadingOverlay(width, height int, indicator *LoadingIndicator, styles theme.Styles) string {
	hint := styles.Footer.Render("[q to quit]")
	content := fmt.Sprintf("%s\n\n%s", indicator.View(styles), hint)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
