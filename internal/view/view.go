// Package view renders tracker state as fixed-width text tables.
package view

import (
	"fmt"
	"io"
	"strings"

	"backlog/internal/domain"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Column fits text into a cell of the given display width. Short text is
// padded with spaces; long text is cut and ends in "...". Cells of width 3
// or less that overflow are filled with dots.
func Column(text string, width int) string {
	if width <= 0 {
		return ""
	}

	textWidth := runewidth.StringWidth(text)
	switch {
	case textWidth == width:
		return text
	case textWidth < width:
		return runewidth.FillRight(text, width)
	case width <= len(ellipsis):
		return strings.Repeat(".", width)
	}
	return runewidth.FillRight(runewidth.Truncate(text, width, ellipsis), width)
}

// row joins cells with the column separator
func row(cells ...string) string {
	return strings.Join(cells, "|")
}

func banner(title string) string {
	const total = 65
	title = " " + title + " "
	left := (total - len(title)) / 2
	right := total - len(title) - left
	return strings.Repeat("-", left) + title + strings.Repeat("-", right)
}

// RenderBoard writes the epics table, one row per epic in id order
func RenderBoard(w io.Writer, state *domain.State) error {
	var b strings.Builder
	b.WriteString(banner("EPICS") + "\n")
	b.WriteString(row(Column("     id", 11), Column("               name", 32), Column("      status", 17)) + "\n")

	for _, id := range state.EpicIDs() {
		epic := state.Epics[id]
		b.WriteString(row(
			Column(fmt.Sprintf(" %d", id), 11),
			Column(" "+epic.Name, 32),
			Column(" "+epic.Status.Label(), 17),
		) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderEpic writes the epic details followed by its stories in list order
func RenderEpic(w io.Writer, id uint32, epic *domain.Epic, state *domain.State) error {
	var b strings.Builder
	b.WriteString(banner("EPIC") + "\n")
	b.WriteString(row(Column("  id", 5), Column("     name", 12), Column("         description", 27), Column("    status", 13)) + "\n")
	b.WriteString(row(
		Column(fmt.Sprintf(" %d", id), 5),
		Column(" "+epic.Name, 12),
		Column(" "+epic.Description, 27),
		Column(" "+epic.Status.Label(), 13),
	) + "\n\n")

	b.WriteString(banner("STORIES") + "\n")
	b.WriteString(row(Column("     id", 11), Column("               name", 32), Column("      status", 17)) + "\n")
	for _, storyID := range epic.Stories {
		story, ok := state.Stories[storyID]
		if !ok {
			continue
		}
		b.WriteString(row(
			Column(fmt.Sprintf(" %d", storyID), 11),
			Column(" "+story.Name, 32),
			Column(" "+story.Status.Label(), 17),
		) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderStory writes a single story row with its description
func RenderStory(w io.Writer, id uint32, story *domain.Story) error {
	var b strings.Builder
	b.WriteString(banner("STORY") + "\n")
	b.WriteString(row(Column("  id", 5), Column("     name", 12), Column("         description", 27), Column("    status", 13)) + "\n")
	b.WriteString(row(
		Column(fmt.Sprintf(" %d", id), 5),
		Column(" "+story.Name, 12),
		Column(" "+story.Description, 27),
		Column(" "+story.Status.Label(), 13),
	) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
