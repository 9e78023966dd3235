package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/yojana/internal/catalog"
	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/score"
	"github.com/ppiankov/yojana/internal/textract"
)

var (
	inspectShowText bool
	inspectJSON     bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Show what extraction finds in a single PDF",
	Long: `Inspect runs extraction on one PDF without writing anything and prints the
assembled record together with the central/state indicators that decided its
level.

Example:
  yojana inspect data/raw_pdfs/pm-kisan.pdf
  yojana inspect data/raw_pdfs/pm-kisan.pdf --text
  yojana inspect data/raw_pdfs/pm-kisan.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <corpus.json>...",
	Short: "Check corpus files against the corpus schema",
	Long: `Validate checks processed_schemes*.json files against the corpus JSON
schema used by the serve command. Invalid files would be served as empty.

Example:
  yojana validate data/processed/processed_schemes.json
  yojana validate data/processed/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(validateCmd)

	inspectCmd.Flags().BoolVar(&inspectShowText, "text", false, "also print the normalized text")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the record as JSON on stdout")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	text, err := textract.NewExtractor().Extract(data)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	rec := corpus.NewDefaultAssembler(cfg.Extract).Assemble(text, filepath.Base(path))

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	levelScore := score.NewClassifier().Score(text)
	pages, _ := textract.PageCount(data)

	fmt.Println(rule)
	fmt.Printf("  %s\n", heading(filepath.Base(path)))
	fmt.Println(rule)
	fmt.Printf("Pages:       %d\n", pages)
	fmt.Printf("Characters:  %d\n", len(text))
	fmt.Printf("Level:       %s\n", levelScore)
	if len(levelScore.Matched) > 0 {
		fmt.Printf("Indicators:  %s\n", strings.Join(levelScore.Matched, ", "))
	}
	fmt.Printf("Source link: %s\n", rec.SourceLink)
	fmt.Println()

	for _, f := range model.TranslatableFields {
		v := rec.Get(f)
		if v == nil {
			fmt.Printf("%s %-20s -\n", failMark, f)
			continue
		}
		fmt.Printf("%s %-20s %s\n", okMark, f, *v)
	}

	if inspectShowText {
		fmt.Println()
		fmt.Println(rule)
		fmt.Println(text)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			failure("%s: %v", path, err)
			invalid++
			continue
		}
		if err := catalog.ValidateCorpus(data); err != nil {
			failure("%s: %v", path, err)
			invalid++
			continue
		}
		cp, err := corpus.DecodeCorpus(data)
		if err != nil {
			failure("%s: %v", path, err)
			invalid++
			continue
		}
		success("%s (%d schemes)", path, cp.Count())
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files invalid", invalid, len(args))
	}
	return nil
}
