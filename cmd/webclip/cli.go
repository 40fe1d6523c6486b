package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB         *sqlite.DB
	Sessions   webclip.SessionService
	History    webclip.HistoryService
	Clipper    webclip.Clipper
	Extractor  webclip.Extractor
	Fetcher    webclip.Fetcher
	Rasterizer webclip.Rasterizer
	PDFs       webclip.PDFBuilder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Auth    AuthCmd    `cmd:"" help:"Verify credentials and store the session"`
	Logout  LogoutCmd  `cmd:"" help:"Clear the stored session"`
	List    ListCmd    `cmd:"" help:"List remote documents, most recently modified first"`
	Clip    ClipCmd    `cmd:"" help:"Clip a page into a remote document"`
	PDF     PDFCmd     `cmd:"" name:"pdf" help:"Clip a page as a PDF attachment"`
	History HistoryCmd `cmd:"" help:"Show local clip history"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extension message endpoint"`
}

// AuthCmd is the "auth" subcommand. The arguments fall back to env vars
// so scripts can avoid putting the key on the command line.
type AuthCmd struct {
	ServerURL string `arg:"" optional:"" env:"WEBCLIP_SERVER" help:"Document server base URL"`
	APIKey    string `arg:"" optional:"" env:"WEBCLIP_API_KEY" help:"API key"`
}

// LogoutCmd is the "logout" subcommand.
type LogoutCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Page int `short:"p" default:"0" help:"Zero-based page number"`
}

// ClipCmd is the "clip" subcommand.
type ClipCmd struct {
	URL      string `arg:"" help:"Page URL to clip"`
	Mode     string `short:"m" default:"page" help:"Capture mode: selection, page, or url"`
	Selector string `short:"s" help:"CSS selector standing in for the selection (selection mode)"`
	Doc      int64  `short:"d" help:"Existing document ID to append to"`
	GlobalID string `help:"Global ID of the existing document"`
	New      string `short:"n" help:"Create a new document with this title"`
	Note     string `help:"Optional note stored above the clipped content"`
	Verbose  bool   `short:"v" help:"Verbose logging"`
}

// PDFCmd is the "pdf" subcommand.
type PDFCmd struct {
	URL      string `arg:"" help:"Page URL to capture"`
	Doc      int64  `short:"d" help:"Existing document ID to append to"`
	GlobalID string `help:"Global ID of the existing document"`
	New      string `short:"n" help:"Create a new document with this title"`
	Note     string `help:"Optional note stored above the attachment"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int    `short:"l" default:"20" help:"Maximum entries to show"`
	URL   string `short:"u" help:"Only show clips from this source URL"`
	Full  bool   `help:"Show the stored Markdown for each clip"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `default:"127.0.0.1:8592" help:"Listen address for the extension endpoint"`
	Verbose bool   `short:"v" help:"Verbose logging"`
}
