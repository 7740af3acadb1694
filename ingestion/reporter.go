package ingestion

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/poiesic/tcembed/core"
)

// DefaultDescriptionWidth is the display width descriptions are truncated to.
const DefaultDescriptionWidth = 48

// Reporter receives progress of a run.
type Reporter interface {
	// Start is called once the batch is loaded.
	Start(runID string, total int)
	// Record is called after each record is processed.
	Record(tc core.TestCase, result RecordResult)
	// Finish is called with the final (possibly partial) report.
	Finish(report *Report)
}

type nopReporter struct{}

func (nopReporter) Start(string, int)                  {}
func (nopReporter) Record(core.TestCase, RecordResult) {}
func (nopReporter) Finish(*Report)                     {}

// ConsoleReporter writes one line per record and a summary block.
type ConsoleReporter struct {
	writer    io.Writer
	total     int
	current   int
	descWidth int

	okStyle      lipgloss.Style
	failStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	summaryStyle lipgloss.Style
	labelStyle   lipgloss.Style
}

var _ Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a reporter writing to w (typically os.Stdout).
// Colors are used only when w is a terminal.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	renderer := lipgloss.NewRenderer(w)
	return &ConsoleReporter{
		writer:    w,
		descWidth: DefaultDescriptionWidth,

		okStyle:   renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failStyle: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dimStyle:  renderer.NewStyle().Foreground(lipgloss.Color("8")),
		summaryStyle: renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		labelStyle: renderer.NewStyle().Bold(true),
	}
}

// WithDescriptionWidth sets the display width descriptions are truncated to.
func (r *ConsoleReporter) WithDescriptionWidth(width int) *ConsoleReporter {
	if width > 0 {
		r.descWidth = width
	}
	return r
}

// Start resets the counters for a new run.
func (r *ConsoleReporter) Start(runID string, total int) {
	r.total = total
	r.current = 0
	fmt.Fprintf(r.writer, "%s %s (%d records)\n",
		r.labelStyle.Render("Run"), runID, total)
}

// Record prints the outcome of one record.
func (r *ConsoleReporter) Record(tc core.TestCase, result RecordResult) {
	r.current++
	prefix := r.dimStyle.Render(fmt.Sprintf("[%d/%d]", r.current, r.total))
	desc := r.truncate(tc.Description)

	if result.Stored() {
		e := result.Embedding
		fmt.Fprintf(r.writer, "%s %s %s %s | status %d | cost $%.6f | tokens %d | dims %d\n",
			prefix, r.okStyle.Render("OK"), tc.ID, desc,
			e.Status, e.Cost, e.Tokens, e.Dimensions)
		return
	}

	fmt.Fprintf(r.writer, "%s %s %s %s | %s: %v\n",
		prefix, r.failStyle.Render("FAIL"), tc.ID, desc,
		result.Outcome, result.Err)
}

// Finish prints the summary block.
func (r *ConsoleReporter) Finish(report *Report) {
	t := report.Totals
	lines := []string{
		r.labelStyle.Render("Summary"),
		fmt.Sprintf("Stored:       %d/%d", t.Stored, t.Records),
		fmt.Sprintf("Failed:       %d", t.Failed),
		fmt.Sprintf("Total cost:   $%.6f", t.Cost),
		fmt.Sprintf("Total tokens: %d", t.Tokens),
		fmt.Sprintf("Average cost: $%.6f", t.AverageCost()),
		fmt.Sprintf("Duration:     %s", report.Duration().Round(time.Millisecond)),
	}
	fmt.Fprintln(r.writer, r.summaryStyle.Render(strings.Join(lines, "\n")))
}

// truncate flattens whitespace and cuts the description to the display width.
func (r *ConsoleReporter) truncate(desc string) string {
	flat := strings.Join(strings.Fields(desc), " ")
	return runewidth.Truncate(flat, r.descWidth, "…")
}
