package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/hit"
	"github.com/matzehuels/funnel/pkg/funnel/layout"
	"github.com/matzehuels/funnel/pkg/funnel/sink"
	"github.com/matzehuels/funnel/pkg/io"
	"github.com/matzehuels/funnel/pkg/pipeline"
)

type createResponse struct {
	ID       string  `json:"id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Segments int     `json:"segments"`
}

type sizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type dataRequest struct {
	Segments []layout.Segment `json:"segments"`
}

type eventRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type eventResponse struct {
	Hits []hit.Item `json:"hits"`
}

// handleCreate reads a document (JSON, or TOML when the content type says
// so) and creates a chart for ?width=&height=.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	width, err := floatParam(r, "width", pipeline.DefaultWidth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := floatParam(r, "height", pipeline.DefaultHeight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	read := io.ReadJSON
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		read = io.ReadTOML
	}
	doc, err := read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document"))
		return
	}

	e, err := s.create(r.Context(), doc, width, height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/charts/"+e.sess.ID)
	writeJSON(w, http.StatusCreated, createResponse{
		ID:       e.sess.ID,
		Width:    width,
		Height:   height,
		Segments: len(doc.Segments),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	e, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.writeLayout(w, r, e)
}

// writeLayout responds with e's layout. The caller holds e.mu.
func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request, e *entry) {
	data, err := sink.RenderJSON(e.chart.Layout())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleRender serves one render format. Optional query parameters:
// scale, background and title.
func (s *Server) handleRender(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scale, err := floatParam(r, "scale", 0)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		e, err := s.load(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts := pipeline.Options{
			Formats:    []string{format},
			Scale:      scale,
			Background: r.URL.Query().Get("background"),
			Title:      r.URL.Query().Get("title"),
			Font:       s.font,
			FontSize:   s.fontSize,
		}

		e.mu.Lock()
		artifacts, cached, err := e.runner.RenderWithCacheInfo(r.Context(), e.chart, e.docHash, opts)
		e.mu.Unlock()
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if cached {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		w.WriteHeader(http.StatusOK)
		w.Write(artifacts[format])
	}
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.chart.Resize(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	e.sess.Width, e.sess.Height = req.Width, req.Height
	if err := s.save(r.Context(), e); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayout(w, r, e)
}

func (s *Server) handleSetData(w http.ResponseWriter, r *http.Request) {
	var req dataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.chart.SetData(req.Segments); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := *e.sess.Document
	doc.Segments = e.chart.Data()
	hash, err := pipeline.DocumentHash(&doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.sess.Document, e.docHash = &doc, hash
	if err := s.save(r.Context(), e); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"segments":      len(doc.Segments),
		"misconfigured": e.chart.Layout().Misconfigured,
	})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind := hit.Move
	if req.Kind != "" {
		k, err := hit.ParseEventKind(req.Kind)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "event"))
			return
		}
		kind = k
	}
	e, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	items := e.chart.HandleEvent(hit.Event{Kind: kind, X: req.X, Y: req.Y})
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, eventResponse{Hits: items})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.load(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.remove(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted chart", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number (got %q)", name, raw)
	}
	return v, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
