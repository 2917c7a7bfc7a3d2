package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

// Card is one summary metric.
type Card struct {
	Label string
	Value string
}

// Cards derives the five summary metrics. A nil snapshot renders every
// value as "-".
func Cards(snap *models.StatsSnapshot) []Card {
	if snap == nil {
		snap = &models.StatsSnapshot{}
	}
	return []Card{
		{Label: "API Calls", Value: FormatNumber(snap.APICalls)},
		{Label: "Sessions", Value: FormatNumber(snap.Sessions)},
		{Label: "Input Tokens", Value: FormatNumber(snap.InputTokens)},
		{Label: "Output Tokens", Value: FormatNumber(snap.OutputTokens)},
		{Label: "Cost", Value: FormatCost(snap.Cost)},
	}
}

// FormatCards lays the cards out in a row, each width/len(cards) wide.
func FormatCards(cards []Card, width int, styles theme.Styles) string {
	if len(cards) == 0 {
		return ""
	}
	// border + padding take four cells per card
	inner := width/len(cards) - 4
	if inner < 8 {
		inner = 8
	}

	boxes := make([]string, len(cards))
	for i, c := range cards {
		body := styles.Muted.Render(fitCell(c.Label, inner, false)) + "\n" +
			styles.Accent.Bold(true).Render(fitCell(c.Value, inner, false))
		boxes[i] = styles.Card.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
