package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/radialtree/pkg/cache"
	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/render/radial"
	"github.com/matzehuels/radialtree/pkg/store"
)

// maxBodyBytes bounds link request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts := s.opts

	h, docHash, err := s.runner.Load(ctx, s.store)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scene, err := s.runner.Layout(ctx, h, docHash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := strconv.Quote(scene.Fingerprint())
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := radial.RenderJSON(scene)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), s.store, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := result.Artifacts[format]

	etag := strconv.Quote(cache.Hash(data)[:32])
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderOptions applies query overrides (width, height, elevation, azimuth,
// scale, labels, axes) to the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	opts.Formats = nil
	q := r.URL.Query()

	ints := []struct {
		name string
		dst  *int
	}{{"width", &opts.Width}, {"height", &opts.Height}}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be a positive integer, got %q", p.name, v)
			}
			if n > radial.MaxDimension {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be at most %d, got %d", p.name, radial.MaxDimension, n)
			}
			*p.dst = n
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{{"elevation", &opts.Camera.Elevation}, {"azimuth", &opts.Camera.Azimuth}, {"scale", &opts.Scale}}
	for _, p := range floats {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be a finite number, got %q", p.name, v)
			}
			*p.dst = f
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{{"labels", &opts.NoLabels}, {"axes", &opts.NoAxes}}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be true or false, got %q", p.name, v)
			}
			*p.dst = !b
		}
	}
	return opts, nil
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := store.Encode(&buf, h); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// linkResponse summarizes the hierarchy after an edit.
type linkResponse struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	var req hierarchy.LinkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode link request"))
		return
	}

	s.writeMu.Lock()
	h, err := store.Link(r.Context(), s.store, req)
	s.writeMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("linked", "parent", req.ParentID, "children", req.ChildIDs)
	writeJSON(w, http.StatusOK, linkResponse{Nodes: h.Len(), Edges: h.EdgeCount()})
}

func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	parent, child := chi.URLParam(r, "parent"), chi.URLParam(r, "child")

	s.writeMu.Lock()
	h, err := store.Unlink(r.Context(), s.store, parent, child)
	s.writeMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("unlinked", "parent", parent, "child", child)
	writeJSON(w, http.StatusOK, linkResponse{Nodes: h.Len(), Edges: h.EdgeCount()})
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	code := errs.GetCode(err)
	switch {
	case code == errs.ErrCodeNotFound, code == errs.ErrCodeNodeNotFound, code == errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case code == errs.ErrCodeMalformedSnapshot, code == errs.ErrCodeNoRoot:
		return http.StatusUnprocessableEntity
	case errs.IsInputError(err), code == errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError && errs.GetCode(err) == "" {
		msg = strings.ToLower(http.StatusText(status))
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      string(errs.GetCode(err)),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
