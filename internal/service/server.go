package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// PreviewServer serves the generated site root over HTTP so the operator can
// check pages locally before pushing them to hosting.
type PreviewServer struct {
	httpServer *http.Server
	siteRoot   string
	logger     *zap.Logger
}

// NewPreviewServer creates a static file server for siteRoot.
func NewPreviewServer(addr, siteRoot string, logger *zap.Logger) *PreviewServer {
	s := &http.Server{
		Addr:              addr,
		Handler:           http.FileServer(http.Dir(siteRoot)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &PreviewServer{httpServer: s, siteRoot: siteRoot, logger: logger}
}

// Start blocks serving requests until Stop is called.
func (s *PreviewServer) Start() error {
	if _, err := os.Stat(s.siteRoot); err != nil {
		return fmt.Errorf("site root not found: %s (run build first)", s.siteRoot)
	}
	s.logger.Info("Serving site preview",
		zap.String("addr", s.httpServer.Addr),
		zap.String("site_root", s.siteRoot),
	)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the preview server down.
func (s *PreviewServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping preview server")
	return s.httpServer.Shutdown(ctx)
}
