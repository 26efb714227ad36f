package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// TextOptions tunes the text renderer.
type TextOptions struct {
	// Diffs adds a unified diff of each modified entry.
	Diffs bool

	// Lang selects digit grouping for counts. Defaults to English.
	Lang language.Tag
}

// styles are bound to a renderer so colour follows the destination writer.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	added    lipgloss.Style
	removed  lipgloss.Style
	modified lipgloss.Style
	muted    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true),
		label:    r.NewStyle().Bold(true),
		added:    r.NewStyle().Foreground(lipgloss.Color("2")),
		removed:  r.NewStyle().Foreground(lipgloss.Color("1")),
		modified: r.NewStyle().Foreground(lipgloss.Color("3")),
		muted:    r.NewStyle().Faint(true),
	}
}

type textWriter struct {
	w   io.Writer
	st  styles
	p   *message.Printer
	opt TextOptions
	err error
}

func newTextWriter(w io.Writer, opts TextOptions) *textWriter {
	lang := opts.Lang
	if lang == language.Und {
		lang = language.English
	}
	return &textWriter{
		w:   w,
		st:  newStyles(w),
		p:   message.NewPrinter(lang),
		opt: opts,
	}
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// count formats n with locale digit grouping.
func (t *textWriter) count(n int) string {
	return t.p.Sprintf("%d", n)
}

// Text writes a human-readable report.
func Text(w io.Writer, report *domain.Report, opts TextOptions) error {
	t := newTextWriter(w, opts)
	t.report(report)
	return t.err
}

// TextRun writes a run summary followed by its report.
func TextRun(w io.Writer, result *domain.RunResult, opts TextOptions) error {
	t := newTextWriter(w, opts)

	t.printf("%s\n", t.st.title.Render(fmt.Sprintf("Run %s", result.RunID)))
	t.printf("  %s %s\n", t.st.label.Render("Mode:"), result.Mode.Description())
	t.printf("  %s %s\n", t.st.label.Render("Entries parsed:"), t.count(result.EntriesParsed))
	if result.Mode == domain.RunModeComparison {
		t.printf("  %s %s\n", t.st.label.Render("Previous entries:"), t.count(result.PreviousEntries))
	}
	t.printf("  %s %s\n", t.st.label.Render("Digest:"), result.Digest)

	switch {
	case result.DryRun:
		t.printf("  %s dry run, baseline unchanged\n", t.st.label.Render("Baseline:"))
	case result.Committed:
		t.printf("  %s committed (version %s)\n", t.st.label.Render("Baseline:"), result.Version)
	default:
		t.printf("  %s %s\n", t.st.label.Render("Baseline:"), t.st.removed.Render("NOT committed"))
	}

	if result.Report != nil {
		t.printf("\n")
		t.report(result.Report)
	}
	return t.err
}

func (t *textWriter) report(r *domain.Report) {
	if r == nil {
		t.printf("No report.\n")
		return
	}

	t.printf("%s  %s  %s\n",
		t.st.added.Render("Added: "+t.count(r.Counts.Added)),
		t.st.removed.Render("Removed: "+t.count(r.Counts.Removed)),
		t.st.modified.Render("Modified: "+t.count(r.Counts.Modified)),
	)

	if !r.HasChanges() {
		t.printf("%s\n", t.st.muted.Render("No changes."))
		return
	}

	if len(r.Added) > 0 {
		t.printf("\n%s\n", t.st.title.Render("Added"))
		for _, e := range r.Added {
			t.printf("  %s %s\n", t.st.added.Render("+"), EntryLine(e))
		}
	}

	if len(r.Removed) > 0 {
		t.printf("\n%s\n", t.st.title.Render("Removed"))
		for _, e := range r.Removed {
			t.printf("  %s %s\n", t.st.removed.Render("-"), EntryLine(e))
		}
	}

	if len(r.Modified) > 0 {
		t.printf("\n%s\n", t.st.title.Render("Modified"))
		for _, m := range r.Modified {
			t.printf("  %s %s\n", t.st.modified.Render("~"), EntryLine(m.New))
			for _, c := range m.Changes {
				t.printf("      %s\n", DescribeChange(c))
			}
			if t.opt.Diffs {
				t.diff(m)
			}
		}
	}
}

func (t *textWriter) diff(m domain.Modification) {
	patch, err := EntryDiff(m)
	if err != nil {
		t.err = err
		return
	}
	for _, line := range strings.Split(strings.TrimRight(patch, "\n"), "\n") {
		style := t.st.muted
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			style = t.st.added
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			style = t.st.removed
		}
		t.printf("      %s\n", style.Render(line))
	}
}

// EntryLine formats an entry as "REF  NAME  (aka A; B)".
func EntryLine(e domain.Entry) string {
	line := fmt.Sprintf("%s  %s", e.ReferenceNumber, e.Name)
	if len(e.Aliases) > 0 {
		line += fmt.Sprintf("  (aka %s)", strings.Join(e.Aliases, "; "))
	}
	return line
}

// DescribeChange renders a field change on one line.
func DescribeChange(c domain.FieldChange) string {
	if c.Field != domain.FieldAliases {
		return fmt.Sprintf("%s: %q -> %q", c.Field, c.Old, c.New)
	}

	var parts []string
	for _, a := range c.Added {
		parts = append(parts, "+"+a)
	}
	for _, r := range c.Removed {
		parts = append(parts, "-"+r)
	}
	if c.Reordered {
		parts = append(parts, "reordered")
	}
	return "aliases: " + strings.Join(parts, " ")
}

// EntryDiff returns a unified diff of the old and new entry as indented JSON.
func EntryDiff(m domain.Modification) (string, error) {
	oldJSON, err := json.MarshalIndent(NewEntryView(m.Old), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode old entry: %w", err)
	}
	newJSON, err := json.MarshalIndent(NewEntryView(m.New), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode new entry: %w", err)
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldJSON) + "\n"),
		B:        difflib.SplitLines(string(newJSON) + "\n"),
		FromFile: "previous/" + m.ReferenceNumber,
		ToFile:   "current/" + m.ReferenceNumber,
		Context:  3,
	})
}
