package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/placerlab/placer/pkg/buildinfo"
	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/render"
	"github.com/placerlab/placer/pkg/render/nodelink"
	"github.com/placerlab/placer/pkg/session"
	"github.com/placerlab/placer/pkg/solver"
	"github.com/placerlab/placer/pkg/store"
)

// requestTab is the slug of tabs opened for a single request.
const requestTab = "request"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SolverInfo describes one registered solver.
type SolverInfo struct {
	Name   string         `json:"name"`
	Params []solver.Field `json:"params"`
}

// ParamsResponse lists a solver's parameters with the values the next run
// starts from.
type ParamsResponse struct {
	Fields []solver.Field `json:"fields"`
	Values solver.Params  `json:"values"`
}

// SolveRequest is the body of estimate and solve calls. Layout may be
// omitted when DocumentID names a stored document; the run is then
// recorded against that document.
type SolveRequest struct {
	Layout     string        `json:"layout,omitempty"`
	Params     solver.Params `json:"params,omitempty"`
	DocumentID string        `json:"document_id,omitempty"`
}

// SolveResponse reports an estimate or solve. Error repeats the message of
// an Error row; Layout and Stats are set after a successful solve.
type SolveResponse struct {
	*solver.Outcome
	Error  string        `json:"error,omitempty"`
	Layout string        `json:"layout,omitempty"`
	Stats  *layout.Stats `json:"stats,omitempty"`
}

// DocumentRequest is the body of POST /api/documents.
type DocumentRequest struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

// =============================================================================
// Health & solvers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Get(),
		"solvers": s.ws.Registry().Names(),
	})
}

func (s *Server) listSolvers(w http.ResponseWriter, r *http.Request) {
	reg := s.ws.Registry()
	names := reg.Names()
	out := make([]SolverInfo, 0, len(names))
	for _, name := range names {
		out = append(out, SolverInfo{Name: name, Params: reg.Params(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) solverParams(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	values, err := s.ws.Params(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ParamsResponse{Fields: s.ws.Registry().Params(name), Values: values})
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	req, tab, ok := s.openSolveRequest(w, r)
	if !ok {
		return
	}
	defer s.ws.Close(tab.Slug)

	params, err := s.mergeParams(r, name, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.ws.Estimate(r.Context(), tab.Slug, name, params)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := SolveResponse{Outcome: out}
	resp.Error, _ = out.Failed()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	req, src, ok := s.openSolveRequest(w, r)
	if !ok {
		return
	}
	defer s.ws.Close(src.Slug)

	params, err := s.mergeParams(r, name, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	tab, out, err := s.ws.Solve(r.Context(), src.Slug, name, params)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := SolveResponse{Outcome: out}
	if tab != nil {
		defer s.ws.Close(tab.Slug)
		resp.Layout = string(out.Text)
		stats := tab.Doc.Stats()
		resp.Stats = &stats
	} else {
		resp.Error, _ = out.Failed()
	}

	if req.DocumentID != "" && s.store != nil {
		if err := s.store.SaveRun(r.Context(), store.NewRun(req.DocumentID, out)); err != nil {
			s.logger.Warn("recording run failed", "document", req.DocumentID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// openSolveRequest decodes a SolveRequest and opens its layout in a
// request tab. On failure the error response has been written.
func (s *Server) openSolveRequest(w http.ResponseWriter, r *http.Request) (*SolveRequest, *session.Tab, bool) {
	var req SolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return nil, nil, false
	}

	text := req.Layout
	if text == "" && req.DocumentID != "" {
		if s.store == nil {
			writeMessage(w, http.StatusNotImplemented, string(errors.ErrCodeUnsupported), "document store is not configured")
			return nil, nil, false
		}
		rec, err := s.store.GetDocument(r.Context(), req.DocumentID)
		if err != nil {
			writeError(w, err)
			return nil, nil, false
		}
		text = rec.Layout
	}

	tab, err := s.ws.OpenReader(requestTab, strings.NewReader(text))
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return &req, tab, true
}

// mergeParams overlays the request parameters on the remembered values.
func (s *Server) mergeParams(r *http.Request, name string, override solver.Params) (solver.Params, error) {
	params, err := s.ws.Params(r.Context(), name)
	if err != nil {
		return nil, err
	}
	for k, v := range override {
		params[k] = v
	}
	return params, nil
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	req, err := renderRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tab, err := s.ws.OpenReader(requestTab, http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.ws.Close(tab.Slug)
	s.writeRender(w, r, tab.Slug, req)
}

func (s *Server) renderDocument(w http.ResponseWriter, r *http.Request) {
	req, err := renderRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	tab, err := s.ws.OpenReader(requestTab, strings.NewReader(rec.Layout))
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.ws.Close(tab.Slug)
	s.writeRender(w, r, tab.Slug, req)
}

func (s *Server) writeRender(w http.ResponseWriter, r *http.Request, slug string, req session.RenderRequest) {
	data, err := s.ws.Render(r.Context(), slug, req)
	if err != nil {
		writeError(w, err)
		return
	}
	ct := req.Format.ContentType()
	if req.Format == nodelink.FormatDOT {
		ct = "text/vnd.graphviz"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// renderRequest reads format, graph, detailed, pinned, scale and grid from
// the query string. The format defaults to svg.
func renderRequest(r *http.Request) (session.RenderRequest, error) {
	q := r.URL.Query()
	req := session.RenderRequest{
		Format:   render.FormatSVG,
		Graph:    queryBool(q.Get("graph")),
		Detailed: queryBool(q.Get("detailed")),
		Pinned:   queryBool(q.Get("pinned")),
	}
	if f := q.Get("format"); f != "" {
		if strings.EqualFold(f, string(nodelink.FormatDOT)) {
			req.Format = nodelink.FormatDOT
		} else {
			parsed, err := render.ParseFormat(f)
			if err != nil {
				return req, err
			}
			req.Format = parsed
		}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return req, errors.New(errors.ErrCodeInvalidParam, "invalid scale %q", v)
		}
		req.Scale = scale
	}
	if v := q.Get("grid"); v != "" {
		grid, err := strconv.Atoi(v)
		if err != nil || grid < 0 {
			return req, errors.New(errors.ErrCodeInvalidParam, "invalid grid %q", v)
		}
		req.Grid = grid
	}
	return req, nil
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []*store.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateSlug(req.Name); err != nil {
		writeError(w, err)
		return
	}
	tab, err := s.ws.OpenReader(requestTab, strings.NewReader(req.Layout))
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.ws.Close(tab.Slug)

	rec, err := store.NewDocument(req.Name, tab.Doc)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SaveDocument(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/documents/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetDocument(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	runs, err := s.store.ListRuns(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeMessage(w, errors.HTTPStatus(err), string(errors.GetCode(err)), errors.UserMessage(err))
}

func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
