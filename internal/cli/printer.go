package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/board"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

var (
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

// printer writes human-readable output. Colors follow fatih/color, which
// turns itself off for non-terminals and when NO_COLOR is set.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) success(format string, a ...any) {
	green.Fprintf(p.w, "✓ "+format+"\n", a...)
}

func (p *printer) line(format string, a ...any) {
	fmt.Fprintf(p.w, format+"\n", a...)
}

func (p *printer) boards(boards []*kanban.Board) {
	if len(boards) == 0 {
		p.line("No boards yet. Create one with: kanban board create NAME")
		return
	}
	for _, b := range boards {
		fmt.Fprintf(p.w, "%s  %s\n", faint.Sprint(b.ID), b.Name)
	}
}

// snapshot renders a board as an indented outline with each item's key.
func (p *printer) snapshot(sn *board.Snapshot) {
	bold.Fprintf(p.w, "%s", sn.Board.Name)
	fmt.Fprintf(p.w, " (%s)\n", sn.Board.ID)
	if len(sn.Columns) == 0 {
		p.line("  (no columns)")
		return
	}
	for _, c := range sn.Columns {
		fmt.Fprintf(p.w, "  %s %s (%s)\n", cyan.Sprintf("%-6s", c.Position), c.Name, c.ID)
		for _, t := range c.Tasks {
			fmt.Fprintf(p.w, "    %s %s (%s)\n", faint.Sprintf("%-6s", t.Position), t.Title, t.ID)
		}
	}
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
