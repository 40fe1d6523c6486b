package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	webclipchi "github.com/fkozlowski/webclip/chi"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := &webclipchi.Server{
		Clipper:    deps.Clipper,
		Extractor:  deps.Extractor,
		Fetcher:    deps.Fetcher,
		Rasterizer: deps.Rasterizer,
		PDFs:       deps.PDFs,
		History:    deps.History,
		Logger:     deps.Logger,
	}

	httpServer := &http.Server{
		Addr:              c.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)

	go func() {
		<-deps.Ctx.Done()
		httpServer.Close()
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
