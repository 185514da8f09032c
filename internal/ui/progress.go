// Package ui provides terminal UI components for veridoc.
// This file implements the live progress display used by one-shot commands
// for the search pipeline stages and upload batches.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// RowStatus represents the display status of a single progress row.
type RowStatus int

const (
	RowPending RowStatus = iota // Not reached yet
	RowActive                   // Currently in progress
	RowDone                     // Finished successfully
	RowFailed                   // Terminal failure
)

// row holds the display state of one line.
type row struct {
	id      string
	label   string
	status  RowStatus
	detail  string
	percent int // -1 when the row has no percentage
}

// Display manages a live-updating terminal progress view. On a TTY it
// redraws in place with ANSI escapes; otherwise it prints one line per
// status transition so piped output stays readable.
type Display struct {
	mu          sync.Mutex
	header      string
	rows        []*row
	rowIndex    map[string]int
	started     bool
	isTTY       bool
	linesDrawn  int
	lastPrinted map[string]RowStatus
}

// NewDisplay creates a Display with the given header line.
func NewDisplay(header string) *Display {
	return &Display{
		header:      header,
		rowIndex:    make(map[string]int),
		lastPrinted: make(map[string]RowStatus),
		isTTY:       term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// AddRow registers a pending row. Rows render in registration order.
func (d *Display) AddRow(id, label string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rowIndex[id] = len(d.rows)
	d.rows = append(d.rows, &row{id: id, label: label, status: RowPending, percent: -1})
}

// Start draws the initial display.
func (d *Display) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.started = true
	d.render()
}

// SetActive marks the row as in progress.
func (d *Display) SetActive(id string) {
	d.update(id, func(r *row) { r.status = RowActive })
}

// SetPercent updates the row's percentage (implies active).
func (d *Display) SetPercent(id string, percent int) {
	d.update(id, func(r *row) {
		r.status = RowActive
		r.percent = percent
	})
}

// SetDone marks the row as finished.
func (d *Display) SetDone(id string) {
	d.update(id, func(r *row) {
		r.status = RowDone
		if r.percent >= 0 {
			r.percent = 100
		}
	})
}

// SetFailed marks the row as failed with a detail message.
func (d *Display) SetFailed(id, detail string) {
	d.update(id, func(r *row) {
		r.status = RowFailed
		r.detail = detail
	})
}

// Finish moves the cursor below the display and prints a summary line.
func (d *Display) Finish(summary string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isTTY && d.linesDrawn > 0 {
		fmt.Print("\n")
	}
	if summary != "" {
		fmt.Println(summary)
	}
}

func (d *Display) update(id string, fn func(*row)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.rowIndex[id]
	if !ok {
		return
	}
	fn(d.rows[idx])

	if d.started {
		d.render()
	}
}

// render draws or redraws the display.
func (d *Display) render() {
	if !d.isTTY {
		d.renderPlain()
		return
	}
	d.renderTTY()
}

// renderTTY draws using ANSI escape codes for in-place updates.
func (d *Display) renderTTY() {
	if d.linesDrawn > 0 {
		fmt.Printf("\033[%dA", d.linesDrawn)
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("\033[2K\033[1m%s\033[0m\n", d.header))
	for _, r := range d.rows {
		buf.WriteString("\033[2K")
		buf.WriteString(formatRow(r))
		buf.WriteString("\n")
	}

	fmt.Print(buf.String())
	d.linesDrawn = len(d.rows) + 1
}

// renderPlain writes non-TTY output, one line per status transition.
func (d *Display) renderPlain() {
	for _, r := range d.rows {
		if r.status == RowPending {
			continue
		}
		if prev, seen := d.lastPrinted[r.id]; seen && prev == r.status {
			continue
		}
		fmt.Println(formatRowPlain(r))
		d.lastPrinted[r.id] = r.status
	}
}

// formatRow formats a row with ANSI colors and status icons.
func formatRow(r *row) string {
	icon := statusIcon(r.status)

	label := r.label
	if len(label) > 45 {
		label = label[:42] + "..."
	}

	detail := ""
	switch {
	case r.status == RowFailed && r.detail != "":
		detail = fmt.Sprintf("  \033[31m%s\033[0m", r.detail)
	case r.status == RowActive && r.percent >= 0:
		detail = fmt.Sprintf("  \033[33m%s %3d%%\033[0m", percentBar(r.percent), r.percent)
	}

	return fmt.Sprintf("  %s %s%s", icon, label, detail)
}

// formatRowPlain formats a row for non-TTY output.
func formatRowPlain(r *row) string {
	var status string
	switch r.status {
	case RowActive:
		status = "RUNNING"
	case RowDone:
		status = "DONE"
	case RowFailed:
		status = "FAILED"
	default:
		status = "PENDING"
	}
	if r.status == RowFailed && r.detail != "" {
		return fmt.Sprintf("[%s] %s - %s", status, r.label, r.detail)
	}
	return fmt.Sprintf("[%s] %s", status, r.label)
}

// statusIcon returns the icon for a row status.
func statusIcon(status RowStatus) string {
	switch status {
	case RowDone:
		return "\033[32m✓\033[0m" // green check
	case RowActive:
		return "\033[33m▸\033[0m" // yellow arrow
	case RowFailed:
		return "\033[31m✗\033[0m" // red cross
	default:
		return "\033[90m○\033[0m" // dim circle
	}
}

// percentBar renders a ten-cell progress bar.
func percentBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
