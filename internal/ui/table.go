package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"proj/internal/scm"
)

const (
	nameWidth       = 30
	idWidth         = 12
	visibilityWidth = 12
	separatorWidth  = 67

	createdAtLayout = "2006-01-02 15:04:05"
)

// WriteProjectTable writes the fixed-width project listing: a header, a separator and one row per project.
func WriteProjectTable(w io.Writer, projects []scm.Project) {
	fmt.Fprintln(w, align("Project name", nameWidth), align("Project ID", idWidth), align("Visibility", visibilityWidth), "Created at")
	fmt.Fprintln(w, strings.Repeat("-", separatorWidth))

	for _, p := range projects {
		fmt.Fprintln(w,
			align(p.Name, nameWidth),
			align(strconv.FormatInt(p.ID, 10), idWidth),
			align(string(p.Visibility), visibilityWidth),
			formatCreatedAt(p.CreatedAt),
		)
	}
}

// PrintProjects writes the project table to the console output.
func (c *Console) PrintProjects(projects []scm.Project) {
	WriteProjectTable(c.out, projects)
}

// align pads s to width runes, cutting long values so the columns stay put.
func align(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		r = append(r[:width-1], '~')
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(createdAtLayout)
}
