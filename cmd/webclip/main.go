package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/bloom"
	"github.com/fkozlowski/webclip/clip"
	"github.com/fkozlowski/webclip/gofpdf"
	"github.com/fkozlowski/webclip/goquery"
	"github.com/fkozlowski/webclip/htmltomarkdown"
	webcliphttp "github.com/fkozlowski/webclip/http"
	"github.com/fkozlowski/webclip/rod"
	webclipslog "github.com/fkozlowski/webclip/slog"
	"github.com/fkozlowski/webclip/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionService webclip.SessionService
	HistoryService webclip.HistoryService
	Clipper        webclip.Clipper
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webclip"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webclip --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Serve.Verbose || cli.Clip.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBCLIP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SessionService = sqlite.NewSessionService(m.DB)
	m.HistoryService = sqlite.NewHistoryService(m.DB)

	service := &clip.Service{
		Sessions: m.SessionService,
		NewDocuments: func(serverURL, apiKey string) webclip.DocumentService {
			return webclipslog.NewLoggingDocumentService(
				webcliphttp.NewClient(serverURL, apiKey), deps.Logger)
		},
		History:   m.HistoryService,
		Converter: htmltomarkdown.NewConverter(),
		Seen:      bloom.NewFilter(100000, 0.01),
		Cache:     clip.NewCache(clip.DefaultCacheTTL),
		Logger:    deps.Logger,
	}
	m.Clipper = webclipslog.NewLoggingClipper(service, deps.Logger)

	deps.DB = m.DB
	deps.Sessions = m.SessionService
	deps.History = m.HistoryService
	deps.Clipper = m.Clipper
	deps.Extractor = goquery.NewExtractor(goquery.NewSanitizer())

	// Commands that render pages need a browser; wire it only for them
	// so the rest of the CLI works without Chrome installed.
	if cmd == "clip" || cmd == "pdf" || cmd == "serve" {
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = fetcher
	}

	if cmd == "pdf" || cmd == "serve" {
		rasterizer, err := rod.NewRasterizer()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rasterizer.Close()
		service.Rasterizer = rasterizer
		service.PDFs = gofpdf.NewBuilder()
		deps.Rasterizer = rasterizer
		deps.PDFs = service.PDFs
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("WEBCLIP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webclip.db"
	}
	dir := filepath.Join(home, ".webclip")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "webclip.db")
}
