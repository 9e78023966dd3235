package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/yojana/internal/cache"
	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/translate"
)

var (
	translateLangs     []string
	translateOutputDir string
	translateGeneral   string
	translateModel     string
	translateNoCache   bool
)

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate the processed corpus into each configured language",
	Long: `Translate reads processed_schemes.json and writes one
processed_schemes_<language>.json per target language, with the same levels
and scheme identifiers.

Languages served by IndicTrans (when INDIC_TRANS_API_KEY and
INDIC_TRANS_API_URL are set) use it first; everything else, and any
IndicTrans failure, goes to the general backend. Fields that still fail after
retries keep their English text and are counted in run_manifest.json.

Example:
  yojana translate
  yojana translate --lang hi --lang mr
  yojana translate --backend openai --model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringSliceVar(&translateLangs, "lang", nil, "target language codes (default: all configured languages)")
	translateCmd.Flags().StringVar(&translateOutputDir, "out", "", "directory holding processed_schemes.json (default from config)")
	translateCmd.Flags().StringVar(&translateGeneral, "backend", "", "general backend (google, openai, anthropic, ollama, none)")
	translateCmd.Flags().StringVar(&translateModel, "model", "", "model for LLM backends")
	translateCmd.Flags().BoolVar(&translateNoCache, "no-cache", false, "disable the translation cache")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if translateOutputDir != "" {
		cfg.Output.Dir = translateOutputDir
	}
	if translateGeneral != "" {
		cfg.Translate.General = translateGeneral
	}
	if translateModel != "" {
		cfg.Translate.Model = translateModel
	}
	if translateNoCache {
		cfg.Cache.Enabled = false
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	targets, err := targetLanguages(cfg, translateLangs)
	if err != nil {
		return err
	}

	source, err := corpus.ReadCorpus(filepath.Join(cfg.Output.Dir, corpus.CanonicalFileName))
	if err != nil {
		return fmt.Errorf("run 'yojana process' first: %w", err)
	}

	router, err := translate.NewRouterFromConfig(ctx,
		translate.ConfigFromModel(cfg.Translate, cfg.HTTP),
		translate.WithRouterLogger(logger),
	)
	if err != nil {
		if errors.Is(err, translate.ErrNoBackend) {
			return fmt.Errorf("no translation backend configured: set INDIC_TRANS_API_KEY/INDIC_TRANS_API_URL or a general backend key")
		}
		return fmt.Errorf("create translation backend: %w", err)
	}

	banner("Translating scheme corpus")
	step("Backends: %s", strings.Join(router.Backends(), ", "))

	memo := cache.New(cfg.Cache)
	translator := translate.NewTranslator(router,
		cfg.Translate.MinInterval,
		cfg.Translate.BaseDelay,
		cfg.Translate.MaxAttempts,
	).WithCache(memo).
		WithCacheScope(router.Name() + ":" + cfg.Translate.Model).
		WithLogger(logger)

	summary := corpus.NewRunSummary("translate")
	summary.Documents = source.Count()

	for _, lang := range targets {
		bar := newProgress(source.Count(), "→ "+lang.Name)
		translator.OnRecord(func(string) { _ = bar.Add(1) })

		translated := translator.TranslateCorpus(ctx, source, lang.Code)
		_ = bar.Finish()

		if err := ctx.Err(); err != nil {
			return err
		}

		outPath := filepath.Join(cfg.Output.Dir, corpus.TranslatedFileName(lang.Name))
		if err := corpus.WriteCorpus(outPath, translated); err != nil {
			summary.Fail(outPath, model.StageWrite, err)
			failure("%s: %v", lang.Name, err)
			continue
		}
		summary.Languages = append(summary.Languages, lang.Code)

		degraded := translator.Degraded()[lang.Code]
		if degraded > 0 {
			warning("%s: %d fields kept in English after retries", lang.Name, degraded)
		}
		success("Wrote %s", outPath)
	}

	if sr, ok := memo.(cache.StatsReporter); ok {
		stats := sr.Stats()
		step("Cache: %d hits (%d from disk), %d misses", stats.Hits(), stats.DiskHits, stats.Misses)
	}

	if d := translator.Degraded(); len(d) > 0 {
		summary.Degraded = d
	}
	corpus.Finish(summary, source)
	summary.Processed = len(summary.Languages)
	if err := corpus.WriteManifest(cfg.Output.Dir, summary); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Strs("languages", summary.Languages).
		Int("schemes", source.Count()).
		Msg("translate complete")
	return nil
}

// targetLanguages resolves --lang codes against the configured languages
func targetLanguages(cfg *model.Config, codes []string) ([]model.Language, error) {
	if len(codes) == 0 {
		if len(cfg.Languages) == 0 {
			return nil, fmt.Errorf("no target languages configured")
		}
		return cfg.Languages, nil
	}

	out := make([]model.Language, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		name, ok := cfg.LanguageName(code)
		if !ok {
			return nil, fmt.Errorf("language %q is not configured (add it under languages:)", code)
		}
		out = append(out, model.Language{Code: code, Name: name})
	}
	return out, nil
}
