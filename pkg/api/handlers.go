package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Sriram-PR/docnav/pkg/catalog"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/selection"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/utils"
	"github.com/Sriram-PR/docnav/pkg/viewer"
)

type healthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Sessions  int    `json:"sessions"`
}

type listDocsResponse struct {
	Collections []catalog.CollectionInfo `json:"collections"`
	Documents   []models.DocumentRef     `json:"documents"`
}

type tocResponse struct {
	Category string           `json:"category"`
	Slug     string           `json:"slug"`
	Active   string           `json:"active,omitempty"`
	Headings toc.SectionIndex `json:"headings"`
	Panel    string           `json:"panel"`
}

type scrollRequest struct {
	Positions map[string]float64 `json:"positions"`
}

type scrollResponse struct {
	ActiveHeading string `json:"active_heading"`
	Navigating    bool   `json:"navigating"`
}

type navigateRequest struct {
	Target string `json:"target"`
}

type selectionRequest struct {
	Value string `json:"value"`
}

type selectionResponse struct {
	Selection   selection.Selection `json:"selection"`
	DisplayName string              `json:"display_name"`
	URL         string              `json:"url,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	docs := 0
	for _, c := range s.catalog.Collections() {
		docs += c.Documents
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Documents: docs, Sessions: s.sessions.Len()})
}

func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	refs, err := s.catalog.Documents(r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listDocsResponse{Collections: s.catalog.Collections(), Documents: refs})
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	entry, err := s.catalog.Entry(chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleGetTOC returns the section index; ?format=text returns the rendered panel only
func (s *Server) handleGetTOC(w http.ResponseWriter, r *http.Request) {
	category, slug := chi.URLParam(r, "category"), chi.URLParam(r, "slug")
	entry, err := s.catalog.Entry(category, slug)
	if err != nil {
		s.writeError(w, err)
		return
	}

	active := r.URL.Query().Get("active")
	panel := toc.FormatPanel(entry.Headings, active)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(panel))
		return
	}
	writeJSON(w, http.StatusOK, tocResponse{
		Category: category,
		Slug:     slug,
		Active:   active,
		Headings: entry.Headings,
		Panel:    panel,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req viewer.CreateRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Category == "" {
		s.writeError(w, fmt.Errorf("%w: category is required", utils.ErrInvalidRequest))
		return
	}
	sess, err := s.sessions.Create(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.State())
}

// session resolves the {id} URL parameter, writing the error response on failure
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*viewer.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		s.writeError(w, fmt.Errorf("%w: %s", utils.ErrSessionNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionPanel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(sess.Panel()))
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	active := sess.Scroll(req.Positions)
	writeJSON(w, http.StatusOK, scrollResponse{ActiveHeading: active, Navigating: sess.Navigator().Navigating()})
}

// handleNavigate starts a navigation; the client polls the session for the scroll command
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req navigateRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.NavigateTo(req.Target); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sess.State())
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	next, err := sess.Select(req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSelectionResponse(sess, next))
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	next := sess.ClearSelection()
	writeJSON(w, http.StatusOK, newSelectionResponse(sess, next))
}

func newSelectionResponse(sess *viewer.Session, pageURL *url.URL) selectionResponse {
	sel := sess.Store().Current()
	resp := selectionResponse{Selection: sel, DisplayName: selection.DisplayName(sel, sess.Category())}
	if pageURL != nil {
		resp.URL = pageURL.String()
	}
	return resp
}
