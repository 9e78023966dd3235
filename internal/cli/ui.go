package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/ppiankov/yojana/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	heading  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

func banner(title string) {
	fmt.Fprintln(os.Stderr, rule)
	fmt.Fprintf(os.Stderr, "  %s\n", heading(title))
	fmt.Fprintln(os.Stderr, rule)
}

func step(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "⚙️  "+format+"\n", a...)
}

func success(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s "+format+"\n", append([]any{okMark}, a...)...)
}

func failure(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s "+format+"\n", append([]any{failMark}, a...)...)
}

func warning(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s "+format+"\n", append([]any{warnMark}, a...)...)
}

// newProgress draws on stderr and disappears when done
func newProgress(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// fieldMarks renders which fields a record has, e.g. "name ✓ elig ✗"
func fieldMarks(rec model.SchemeRecord) string {
	short := map[model.Field]string{
		model.FieldSchemeName:         "name",
		model.FieldDescription:        "desc",
		model.FieldEligibility:        "elig",
		model.FieldBenefits:           "benefits",
		model.FieldApplicationProcess: "apply",
		model.FieldDeadline:           "deadline",
		model.FieldCategory:           "category",
	}

	parts := make([]string, 0, len(model.TranslatableFields))
	for _, f := range model.TranslatableFields {
		mark := failMark
		if rec.Get(f) != nil {
			mark = okMark
		}
		parts = append(parts, short[f]+" "+mark)
	}
	return strings.Join(parts, "  ")
}

// printCorpusSummary writes per-level counts and field coverage to stderr
func printCorpusSummary(corpus model.Corpus) {
	for _, level := range model.Levels {
		records := corpus[level]
		if len(records) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "\n%s (%d)\n", heading(strings.ToUpper(string(level))), len(records))
		for _, id := range corpus.IDs(level) {
			rec := records[id]
			name := "(unnamed)"
			if rec.SchemeName != nil {
				name = truncate(*rec.SchemeName, 40)
			}
			fmt.Fprintf(os.Stderr, "  %-22s %-42s %s\n", id, name, fieldMarks(rec))
		}
	}
	fmt.Fprintln(os.Stderr)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
