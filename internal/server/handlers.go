package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/buildinfo"
	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/notify"
	"github.com/matzehuels/astviz/pkg/pipeline"
	"github.com/matzehuels/astviz/pkg/treemap"
)

// Content types per artifact format.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	kind := pipeline.ProjectionForceGraph
	if r.URL.Query().Get("kind") == pipeline.ProjectionGraph {
		kind = pipeline.ProjectionGraph
	}
	s.serveProjection(w, r, kind, "application/json")
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.serveProjection(w, r, pipeline.ProjectionDOT, contentTypes[pipeline.FormatDOT])
}

func (s *Server) handleRefs(w http.ResponseWriter, r *http.Request) {
	s.serveProjection(w, r, pipeline.ProjectionRefs, "application/json")
}

func (s *Server) handleTreemap(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" || format == "json" {
		s.serveProjection(w, r, pipeline.ProjectionTreemap, "application/json")
		return
	}
	if format != "yaml" && format != "text" {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "invalid treemap format: %q (must be one of: json, yaml, text)", format))
		return
	}

	data, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := s.Runner.Deserialize(r.Context(), data, opts.Keys)
	if err != nil {
		writeError(w, err)
		return
	}
	tm := treemap.FromAST(root)
	if format == "yaml" {
		out, err := treemap.MarshalYAML(tm)
		if err != nil {
			writeError(w, err)
			return
		}
		writeBytes(w, "application/yaml", out)
		return
	}
	var buf bytes.Buffer
	if err := treemap.WriteText(&buf, tm); err != nil {
		writeError(w, err)
		return
	}
	writeBytes(w, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	data, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale: %q", raw))
			return
		}
		opts.Scale = scale
	}

	res, err := s.Runner.Execute(r.Context(), data, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("ETag", strconv.Quote(res.ContentHash))
	writeBytes(w, contentTypes[format], res.Artifacts[format])
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if err := errors.ValidateRefPath(path); err != nil {
		writeError(w, err)
		return
	}
	data, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := s.Runner.Deserialize(r.Context(), data, opts.Keys)
	if err != nil {
		writeError(w, err)
		return
	}
	n := ast.Resolve(root, path)
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no node at %s", path))
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Summarize(n))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hub := notify.NewHub(notify.PipelineProjector{Runner: s.Runner, Options: opts}, s.Logger)
	hub.ServeHTTP(w, r)
}

func (s *Server) serveProjection(w http.ResponseWriter, r *http.Request, kind, contentType string) {
	data, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, hit, err := s.Runner.ProjectionWithCacheInfo(r.Context(), data, kind, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeBytes(w, contentType, out)
}

// requestOptions derives per-request options from the server defaults.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.Options
	switch r.URL.Query().Get("keys") {
	case "":
	case "plain":
		opts.Keys = ast.PlainKeys
	case "default":
		opts.Keys = ast.DefaultKeys
	default:
		return opts, errors.New(errors.ErrCodeInvalidInput, "invalid keys: %q (must be one of: default, plain)", r.URL.Query().Get("keys"))
	}
	if r.URL.Query().Get("refresh") == "true" {
		opts.Refresh = true
	}
	opts.Logger = s.Logger
	return opts, nil
}

// readRequest reads the body and the options the query selects.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, error) {
	opts, err := s.requestOptions(r)
	if err != nil {
		return nil, opts, err
	}
	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
		}
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, opts, nil
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
