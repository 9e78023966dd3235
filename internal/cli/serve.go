package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/yojana/internal/api"
	"github.com/ppiankov/yojana/internal/catalog"
)

var (
	serveAddr string
	serveDir  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve processed corpora over a read-only HTTP API",
	Long: `Serve loads processed_schemes.json and every configured translation once at
startup and answers lookups until interrupted.

Endpoints:
  GET /health
  GET /schemes?lang=hi&level=central
  GET /schemes/latest?lang=mr&n=5
  GET /schemes/{schemeId}?lang=hi

Example:
  yojana serve
  yojana serve --addr :9000 --dir data/processed`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "directory holding the corpus files (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if serveDir != "" {
		cfg.Output.Dir = serveDir
	}
	logger := newLogger(cfg)

	cat := catalog.Load(cfg.Output.Dir, cfg.Languages, logger)
	router := api.NewRouter(cat, logger, cfg.Serve.RequestTimeout)

	return api.NewServer(cfg.Serve.Addr, router, logger).Run(cmd.Context())
}
