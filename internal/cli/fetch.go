package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/discover"
	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/pipeline"
	"github.com/ppiankov/yojana/internal/util"
	"github.com/ppiankov/yojana/internal/worker"
)

var (
	fetchURLsFile string
	fetchPDFDir   string
	fetchTimeout  time.Duration
	fetchNoProbe  bool
	fetchNoRobots bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [listing-url...]",
	Short: "Download scheme PDFs linked from listing pages",
	Long: `Fetch downloads every PDF linked from one or more listing pages into the
PDF directory. URLs that already point at a PDF are downloaded directly.

Requests honour robots.txt (including Crawl-delay), are rate limited per
domain and are retried with exponential backoff. Links are HEAD-probed first
so dead links are reported instead of downloaded.

Example:
  yojana fetch https://agriwelfare.gov.in/en/Major
  yojana fetch --urls-file portals.txt --pdf-dir data/raw_pdfs
  yojana fetch https://example.gov.in/schemes.pdf --no-probe`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && fetchURLsFile == "" {
			return fmt.Errorf("provide at least one listing URL or --urls-file")
		}
		return nil
	},
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchURLsFile, "urls-file", "", "file with one listing URL per line")
	fetchCmd.Flags().StringVar(&fetchPDFDir, "pdf-dir", "", "directory to save PDFs into (default from config)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Minute, "overall fetch timeout")
	fetchCmd.Flags().BoolVar(&fetchNoProbe, "no-probe", false, "skip HEAD probing of discovered links")
	fetchCmd.Flags().BoolVar(&fetchNoRobots, "ignore-robots", false, "do not consult robots.txt")
}

// fetcher bundles the collaborators of one fetch run
type fetcher struct {
	cfg     *model.Config
	fetch   *pipeline.Fetcher
	limiter *worker.Limiter
	robots  *util.RobotsChecker
	logger  *logging.Logger
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fetchPDFDir != "" {
		cfg.Fetch.PDFDir = fetchPDFDir
	}
	if fetchNoProbe {
		cfg.Fetch.ProbeLinks = false
	}
	if fetchNoRobots {
		cfg.Fetch.RespectRobots = false
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	sources := args
	if fetchURLsFile != "" {
		fromFile, err := worker.ReadURLsFromFile(fetchURLsFile)
		if err != nil {
			return fmt.Errorf("read urls file: %w", err)
		}
		sources = append(sources, fromFile...)
	}

	f := newFetcher(cfg, logger)
	store := pipeline.NewDirStore(cfg.Fetch.PDFDir)
	summary := corpus.NewRunSummary("fetch")

	banner("Fetching scheme documents")

	links := f.discover(ctx, sources, summary)
	if len(links) == 0 {
		warning("No PDF links found")
		return nil
	}
	success("Discovered %d PDF links", len(links))

	if cfg.Fetch.ProbeLinks {
		links = f.probe(ctx, links, summary)
	}

	summary.Documents = len(links)
	bar := newProgress(len(links), "downloading")
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		if err := f.download(ctx, store, link); err != nil {
			logger.Warn().Str("url", link.URL).Err(err).Msg("download failed")
			summary.Fail(link.URL, model.StageFetch, err)
		} else {
			summary.Processed++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	summary.FinishedAt = time.Now().UTC()
	if err := corpus.WriteManifest(store.Dir(), summary); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	success("Saved %d/%d PDFs to %s", summary.Processed, summary.Documents, store.Dir())
	for _, failed := range summary.Failures {
		failure("%s: %s", failed.Document, failed.Error)
	}
	return ctx.Err()
}

func newFetcher(cfg *model.Config, logger *logging.Logger) *fetcher {
	limiter := worker.NewLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.BurstSize)
	for host, rps := range cfg.Fetch.DomainRates {
		limiter.SetDomainRate(host, rps, cfg.Fetch.BurstSize)
	}

	f := &fetcher{
		cfg:     cfg,
		limiter: limiter,
		logger:  logger.With("fetch"),
		fetch: pipeline.NewFetcher(
			cfg.HTTP.Timeout,
			cfg.HTTP.UserAgent,
			cfg.HTTP.MaxBodyBytes,
			cfg.Fetch.BaseDelay,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy,
		).WithLimiter(limiter).WithLogger(logger),
	}

	if cfg.Fetch.RespectRobots {
		client := util.NewHTTPClient(10*time.Second, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		f.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, client)
	}
	return f
}

// allowed consults robots.txt and applies any Crawl-delay to the limiter
func (f *fetcher) allowed(ctx context.Context, rawURL string) bool {
	if f.robots == nil {
		return true
	}

	ok, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		f.logger.Debug().Str("url", rawURL).Err(err).Msg("robots.txt unavailable")
	}
	if delay > 0 {
		if u, perr := url.Parse(rawURL); perr == nil {
			f.limiter.SetCrawlDelay(u.Hostname(), delay)
		}
	}
	return ok
}

// discover collects PDF links from listing pages; allowed direct PDF URLs pass through
func (f *fetcher) discover(ctx context.Context, sources []string, summary *model.RunSummary) []discover.Link {
	extractor := discover.NewLinkExtractor()
	seen := make(map[string]bool)
	var links []discover.Link

	add := func(found ...discover.Link) {
		for _, l := range found {
			if !seen[l.URL] {
				seen[l.URL] = true
				links = append(links, l)
			}
		}
	}

	for _, source := range sources {
		if !f.allowed(ctx, source) {
			summary.Fail(source, model.StageFetch, fmt.Errorf("disallowed by robots.txt"))
			failure("Disallowed by robots.txt: %s", source)
			continue
		}

		if isDirectPDF(source) {
			add(discover.Link{URL: source, FileName: pdfFileName(source)})
			continue
		}

		step("Fetching listing %s", source)
		res, err := f.fetch.FetchWithRetry(ctx, source)
		if err != nil {
			summary.Fail(source, model.StageFetch, err)
			failure("Listing failed: %v", err)
			continue
		}

		found, err := extractor.ExtractPDFLinks(res.Text(), res.FinalURL)
		if err != nil {
			summary.Fail(source, model.StageFetch, err)
			failure("Parse failed: %v", err)
			continue
		}
		f.logger.Info().
			Str("listing", source).
			Str("adapter", extractor.AdapterFor(source)).
			Int("links", len(found)).
			Msg("links discovered")
		add(found...)
	}
	return links
}

// probe drops links that do not answer a HEAD request
func (f *fetcher) probe(ctx context.Context, links []discover.Link, summary *model.RunSummary) []discover.Link {
	step("Probing %d links", len(links))
	prober := discover.NewProber(
		f.cfg.HTTP.Timeout,
		f.cfg.Concurrency.ProbeWorkers,
		f.cfg.HTTP.UserAgent,
		f.cfg.HTTP.HTTPProxy, f.cfg.HTTP.HTTPSProxy, f.cfg.HTTP.NoProxy,
	)

	results := prober.Probe(ctx, links)
	for _, r := range results {
		if r.Reachable {
			continue
		}
		reason := r.Error
		if reason == "" {
			reason = fmt.Sprintf("HTTP %d", r.StatusCode)
		}
		summary.Fail(r.Link.URL, model.StageFetch, fmt.Errorf("probe: %s", reason))
		f.logger.Warn().Str("url", r.Link.URL).Str("reason", reason).Bool("official", r.Official).Msg("unreachable link")
	}

	reachable := discover.Reachable(results)
	success("%d/%d links reachable", len(reachable), len(links))
	return reachable
}

func (f *fetcher) download(ctx context.Context, store *pipeline.DirStore, link discover.Link) error {
	if !f.allowed(ctx, link.URL) {
		return fmt.Errorf("disallowed by robots.txt")
	}

	res, err := f.fetch.FetchWithRetry(ctx, link.URL)
	if err != nil {
		return err
	}
	if !looksLikePDF(res.Body) {
		return fmt.Errorf("not a PDF (content-type %q)", res.ContentType)
	}

	name := link.FileName
	if name == "" {
		name = res.FileName
	}
	path, err := store.Save(name, res.Body)
	if err != nil {
		return err
	}
	f.logger.Debug().Str("url", link.URL).Str("path", path).Int("bytes", len(res.Body)).Msg("saved")
	return nil
}

func isDirectPDF(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

func pdfFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(u.Path, "/")
	name, _ := url.PathUnescape(parts[len(parts)-1])
	return name
}

// looksLikePDF checks for the %PDF- marker near the start of the body
func looksLikePDF(body []byte) bool {
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}
