// Package chi provides the local HTTP message surface the browser
// extension talks to. Every request is an action-tagged POST mirroring
// the extension's message dispatch.
package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fkozlowski/webclip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server handles extension messages over HTTP.
type Server struct {
	Clipper   webclip.Clipper
	Extractor webclip.Extractor
	Fetcher   webclip.Fetcher

	// Rasterizer and PDFs back the printPage action; it is rejected
	// when they are absent.
	Rasterizer webclip.Rasterizer
	PDFs       webclip.PDFBuilder

	// History backs the getHistory action; optional.
	History webclip.HistoryService

	Logger *slog.Logger
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/message", s.handleMessage)
	return r
}

// message is the action-tagged envelope every request uses.
type message struct {
	Action string `json:"action"`

	// startAuth
	ServerURL string `json:"serverUrl"`
	APIKey    string `json:"apiKey"`

	// getDocuments
	Page int `json:"page"`

	// clipContent, clipPdf
	Target  *targetPayload  `json:"target"`
	Content *contentPayload `json:"content"`
	Note    string          `json:"note"`
	Source  sourcePayload   `json:"source"`

	// getContent, printPage
	HTML     string `json:"html"`
	URL      string `json:"url"`
	Mode     string `json:"mode"`
	Selector string `json:"selector"`

	// getHistory
	Limit int `json:"limit"`
}

type targetPayload struct {
	IsNew    bool   `json:"isNew"`
	Title    string `json:"title"`
	ID       int64  `json:"id"`
	GlobalID string `json:"globalId"`
}

type contentPayload struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

type sourcePayload struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.writeError(w, webclip.Errorf(webclip.EINVALID, "malformed message: %v", err))
		return
	}

	switch msg.Action {
	case "ping":
		s.writeSuccess(w, map[string]any{"pong": true})
	case "startAuth":
		s.handleStartAuth(w, r, msg)
	case "getDocuments":
		s.handleGetDocuments(w, r, msg)
	case "clipContent":
		s.handleClipContent(w, r, msg)
	case "clipPdf":
		s.handleClipPDF(w, r, msg)
	case "getContent":
		s.handleGetContent(w, r, msg)
	case "printPage":
		s.handlePrintPage(w, r, msg)
	case "getHistory":
		s.handleGetHistory(w, r, msg)
	default:
		s.writeError(w, webclip.Errorf(webclip.EINVALID, "unknown action %q", msg.Action))
	}
}

func (s *Server) handleStartAuth(w http.ResponseWriter, r *http.Request, msg message) {
	if err := s.Clipper.Authenticate(r.Context(), msg.ServerURL, msg.APIKey); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, nil)
}

func (s *Server) handleGetDocuments(w http.ResponseWriter, r *http.Request, msg message) {
	page, err := s.Clipper.Documents(r.Context(), msg.Page)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{
		"documents": page.Documents,
		"hasMore":   page.HasMore,
		"totalHits": page.TotalHits,
	})
}

func (s *Server) handleClipContent(w http.ResponseWriter, r *http.Request, msg message) {
	target, err := decodeTarget(msg.Target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if msg.Content == nil {
		s.writeError(w, webclip.Errorf(webclip.EINVALID, "content required"))
		return
	}

	result, err := s.Clipper.ClipContent(r.Context(), target,
		&webclip.CapturedContent{HTML: msg.Content.HTML, Text: msg.Content.Text},
		msg.Note,
		webclip.Source{URL: msg.Source.URL, Title: msg.Source.Title},
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeClipResult(w, result)
}

func (s *Server) handleClipPDF(w http.ResponseWriter, r *http.Request, msg message) {
	target, err := decodeTarget(msg.Target)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.Clipper.ClipPDF(r.Context(), target, msg.Note,
		webclip.Source{URL: msg.Source.URL, Title: msg.Source.Title})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeClipResult(w, result)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request, msg message) {
	mode, err := webclip.ParseCaptureMode(msg.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pageHTML := msg.HTML
	if pageHTML == "" && s.Fetcher != nil {
		pageHTML, err = s.Fetcher.Fetch(r.Context(), msg.URL)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	content, err := s.Extractor.Extract(pageHTML, msg.URL, webclip.CaptureRequest{
		Mode:     mode,
		Selector: msg.Selector,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{
		"html": content.HTML,
		"text": content.Text,
	})
}

func (s *Server) handlePrintPage(w http.ResponseWriter, r *http.Request, msg message) {
	if s.Rasterizer == nil || s.PDFs == nil {
		s.writeError(w, webclip.Errorf(webclip.EPDF, "pdf capture is not configured"))
		return
	}

	img, err := s.Rasterizer.CapturePage(r.Context(), msg.URL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.PDFs.Build(img)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{
		"dataUrl": doc.DataURL(),
		"pages":   doc.Pages,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request, msg message) {
	if s.History == nil {
		s.writeError(w, webclip.Errorf(webclip.ENOTFOUND, "history is not configured"))
		return
	}

	clips, err := s.History.FindClips(r.Context(), webclip.ClipFilter{Limit: msg.Limit})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"clips": clips})
}

// decodeTarget maps the wire target payload onto the sealed target type.
func decodeTarget(p *targetPayload) (webclip.TargetDocument, error) {
	if p == nil {
		return nil, webclip.Errorf(webclip.EINVALID, "target document required")
	}
	if p.IsNew {
		return webclip.NewDocument{Title: p.Title}, nil
	}
	return webclip.ExistingDocument{ID: p.ID, GlobalID: p.GlobalID}, nil
}

func (s *Server) writeClipResult(w http.ResponseWriter, result *webclip.ClipResult) {
	s.writeSuccess(w, map[string]any{
		"documentId":     result.DocumentID,
		"globalId":       result.GlobalID,
		"alreadyClipped": result.AlreadyClipped,
	})
}

// writeSuccess writes the success envelope, merging extra fields in.
func (s *Server) writeSuccess(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError writes the failure envelope. The user-facing message goes to
// the extension; the raw error goes to the log.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if s.Logger != nil {
		s.Logger.Error("message failed", "code", webclip.ErrorCode(err), "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"code":    webclip.ErrorCode(err),
		"error":   webclip.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}
