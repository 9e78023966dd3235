package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/pipeline"
	"github.com/ppiankov/yojana/internal/worker"
)

var (
	processPDFDir    string
	processOutputDir string
	processWorkers   int
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract structured records from downloaded PDFs",
	Long: `Process reads every PDF in the PDF directory, extracts the scheme fields,
classifies each scheme as central or state, and writes processed_schemes.json
grouped by level.

Documents that cannot be decoded are skipped and listed in run_manifest.json.

Example:
  yojana process
  yojana process --pdf-dir data/raw_pdfs --out data/processed --workers 8`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processPDFDir, "pdf-dir", "", "directory holding the PDFs (default from config)")
	processCmd.Flags().StringVar(&processOutputDir, "out", "", "output directory (default from config)")
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "documents processed concurrently (default from config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if processPDFDir != "" {
		cfg.Fetch.PDFDir = processPDFDir
	}
	if processOutputDir != "" {
		cfg.Output.Dir = processOutputDir
	}
	if processWorkers > 0 {
		cfg.Concurrency.Workers = processWorkers
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	store := pipeline.NewDirStore(cfg.Fetch.PDFDir)
	p := pipeline.NewPipeline(cfg, store, logger)

	docs, err := p.Documents()
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	banner("Processing scheme documents")
	summary := corpus.NewRunSummary("process")
	summary.Documents = len(docs)

	if len(docs) == 0 {
		warning("No PDFs found in %s", store.Dir())
	}

	bar := newProgress(len(docs), "extracting")
	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).
		OnDone(func(*worker.DocumentResult) { _ = bar.Add(1) }).
		ProcessDocuments(ctx, docs)
	_ = bar.Finish()

	records := make([]model.SchemeRecord, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			stage := model.StageExtract
			var stageErr *pipeline.StageError
			if errors.As(r.Error, &stageErr) {
				stage = stageErr.Stage
			}
			summary.Fail(r.Document, stage, r.Error)
			continue
		}
		if r.Record != nil {
			records = append(records, *r.Record)
		}
	}

	// results keep input order, so ids follow file-name order
	out := corpus.GroupAndIdentify(records)
	summary.Processed = out.Count()

	outPath := filepath.Join(cfg.Output.Dir, corpus.CanonicalFileName)
	if err := corpus.WriteCorpus(outPath, out); err != nil {
		summary.Fail(outPath, model.StageWrite, err)
		return fmt.Errorf("write corpus: %w", err)
	}

	corpus.Finish(summary, out)
	if err := corpus.WriteManifest(cfg.Output.Dir, summary); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printCorpusSummary(out)

	success("Processed %d/%d documents", summary.Processed, summary.Documents)
	for _, level := range model.Levels {
		if n := summary.Counts[level]; n > 0 {
			fmt.Printf("  %-12s %d\n", level, n)
		}
	}
	for _, failed := range summary.Failures {
		failure("%s (%s): %s", failed.Document, failed.Stage, failed.Error)
	}
	success("Wrote %s", outPath)

	logger.Info().
		Str("run_id", summary.RunID).
		Int("documents", summary.Documents).
		Int("records", summary.Processed).
		Int("failures", len(summary.Failures)).
		Msg("process complete")

	return ctx.Err()
}
