package ui

import (
	"fmt"
	"strings"
)

const help = "j/k move • a add • / search • F favorites • C color filter • f favorite • c color • d delete • r refresh • q quit"

func (m Model) View() string {
	var b strings.Builder

	state := m.board.State()
	visible := m.board.Visible()

	b.WriteString(titleStyle.Render("Todos"))
	if summary := querySummary(state.Query.Search, state.Query.OnlyFavorites, state.Query.Color); summary != "" {
		b.WriteString("  " + mutedStyle.Render(summary))
	}
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("  nothing to show"))
		b.WriteString("\n")
	}

	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = "> "
		}

		star := mutedStyle.Render(starOff)
		if t.IsFavorite {
			star = favoriteStyle.Render(starOn)
		}

		title := t.Title
		if i == m.cursor {
			title = selectedStyle.Render(title)
		}

		fmt.Fprintf(&b, "%s%s %s %s", cursor, star, swatchFor(t.ColorText()), title)
		if description := t.DescriptionText(); description != "" {
			b.WriteString(" " + mutedStyle.Render(description))
		}
		b.WriteString("\n")
	}

	if m.mode != modeList {
		b.WriteString("\n" + m.input.View() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(help) + "\n")

	return b.String()
}

func querySummary(search string, onlyFavorites bool, color string) string {
	var parts []string
	if search != "" {
		parts = append(parts, fmt.Sprintf("search %q", search))
	}
	if onlyFavorites {
		parts = append(parts, "favorites")
	}
	if color != "" {
		parts = append(parts, "color "+color)
	}

	return strings.Join(parts, ", ")
}
