package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, backend string) {
	h.logger.Debug("load started", "backend", backend)
}

func (h *logHooks) OnLoadComplete(_ context.Context, backend string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "backend", backend, "duration", d, "error", err)
		return
	}
	h.logger.Debug("load complete", "backend", backend, "nodes", nodeCount, "duration", d)
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.logger.Debug("layout started", "nodes", nodeCount)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, placed int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout complete", "placed", placed, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request received", "id", id, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Debug("response sent", "id", id, "method", method, "path", path, "status", status, "duration", d)
}
