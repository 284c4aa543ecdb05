package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/goliatone/go-spidrform/pkg/binder"
	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/pin"
	"github.com/goliatone/go-spidrform/pkg/render"
	"github.com/goliatone/go-spidrform/pkg/renderers/vanilla"
)

// Form actions posted by the page buttons.
const (
	actionToggle = "toggle"
	actionSubmit = "submit"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.pageOptions(model.FormState{}, pin.Hidden))
}

// handlePagePost serves the no-script round trip. Values and the PIN view
// come back in the post, so the server keeps no per-visitor state.
func (s *Server) handlePagePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	b := binder.New(s.form)
	if err := b.Bind(r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	visibility := pin.ParseVisibility(r.PostForm.Get(vanilla.PinVisibilityField))
	opts := s.pageOptions(b.State(), visibility)

	switch r.PostForm.Get("action") {
	case actionToggle:
		opts.PinVisibility = visibility.Toggle()
	case actionSubmit, "":
		if !s.admitSubmission(w, r) {
			return
		}
		receipt, err := s.submitter.OnSubmit(r.Context(), b.State())
		if err != nil {
			s.logger.Printf("submit failed: %v", err)
			http.Error(w, "submission failed", http.StatusInternalServerError)
			return
		}
		opts.Acknowledgment = receipt.Message
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	s.writePage(w, r, opts)
}

// handleSubmission accepts the script-driven submit as JSON, or a plain form
// post, and answers with the receipt.
func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	b := binder.New(s.form)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var values map[string]string
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid json body: %v", err)})
			return
		}
		if err := b.BindMap(values); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form body"})
			return
		}
		if err := b.Bind(r.PostForm); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	default:
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "expected application/json"})
		return
	}

	receipt, err := s.submitter.OnSubmit(r.Context(), b.State())
	if err != nil {
		s.logger.Printf("submit failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "submission failed"})
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) pageOptions(state model.FormState, visibility pin.Visibility) render.RenderOptions {
	opts := s.defaults
	opts.State = state
	opts.PinVisibility = visibility
	opts.Acknowledgment = ""
	if opts.Action == "" {
		opts.Action = "/"
	}
	return opts
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, opts render.RenderOptions) {
	out, err := s.renderer.Render(r.Context(), s.form, opts)
	if err != nil {
		s.logger.Printf("render failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
