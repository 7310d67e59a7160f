package view

import (
	"bytes"
	"strings"
	"testing"

	"backlog/internal/domain"

	"github.com/mattn/go-runewidth"
)

func TestColumn(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"testmetest", 0, ""},
		{"testmetest", 1, "."},
		{"testmetest", 2, ".."},
		{"testmetest", 3, "..."},
		{"testmetest", 4, "t..."},
		{"", 6, "      "},
		{"test", 6, "test  "},
		{"testme", 6, "testme"},
		{"testmetest", 6, "tes..."},
		{"", 0, ""},
		{"日本語テキスト", 8, "日本... "},
	}

	for _, tt := range tests {
		if got := Column(tt.text, tt.width); got != tt.want {
			t.Errorf("Column(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestColumnWidthIsExact(t *testing.T) {
	for _, text := range []string{"", "a", "a much longer piece of text", "日本語"} {
		for width := 0; width < 12; width++ {
			got := Column(text, width)
			if w := runewidth.StringWidth(got); w != width {
				t.Errorf("Column(%q, %d) = %q has display width %d", text, width, got, w)
			}
		}
	}
}

func sampleState() *domain.State {
	state := domain.NewState()
	epic := domain.NewEpic("epic_1", "a description that is far too long for its column")
	epic.Stories = []uint32{3, 2}
	state.Epics[1] = epic
	state.Stories[2] = domain.NewStory("story_1", "")
	closed := domain.NewStory("story_2", "")
	closed.Status = domain.StatusClosed
	state.Stories[3] = closed
	state.Epics[4] = domain.NewEpic("epic_2", "")
	state.LastItemID = 4
	return state
}

func TestRenderBoard(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderBoard(&buf, sampleState()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], " EPICS ") {
		t.Errorf("expected banner, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], " 1 ") || !strings.Contains(lines[2], "epic_1") || !strings.Contains(lines[2], "OPEN") {
		t.Errorf("unexpected first row %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], " 4 ") {
		t.Errorf("expected epics in id order, got %q", lines[3])
	}
	for _, line := range lines[1:] {
		if len(line) != 11+32+17+2 {
			t.Errorf("row %q has width %d", line, len(line))
		}
	}
}

func TestRenderEpic(t *testing.T) {
	state := sampleState()
	var buf bytes.Buffer
	if err := RenderEpic(&buf, 1, state.Epics[1], state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, " a description that is f...") {
		t.Errorf("expected truncated description in:\n%s", out)
	}
	first := strings.Index(out, "story_2")
	second := strings.Index(out, "story_1")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected stories in epic order in:\n%s", out)
	}
	if !strings.Contains(out, "CLOSED") {
		t.Errorf("expected status label in:\n%s", out)
	}
}

func TestRenderStory(t *testing.T) {
	var buf bytes.Buffer
	story := domain.NewStory("story_1", "short")
	story.Status = domain.StatusInProgress
	if err := RenderStory(&buf, 2, story); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "IN PROGRESS") || !strings.Contains(buf.String(), " short") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
