// ABOUTME: Note CRUD handlers enforcing the protect -> ownership -> action order
// ABOUTME: Every success response echoes the request's outbound credential under _token

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/inotebook/notesd/internal/auth"
	"github.com/inotebook/notesd/internal/httputil"
	"github.com/inotebook/notesd/internal/store"
)

const maxTitleLength = 100

// NoteRequest is the JSON request body for note create and update.
// Tags and Pinned are pointers so an update that omits either field
// leaves the stored value untouched.
type NoteRequest struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    *[]string `json:"tags,omitempty"`
	Pinned  *bool     `json:"pinned,omitempty"`
}

// notePayload is the `_note` fragment of note responses.
type notePayload struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	OwnerID   string   `json:"owner_id"`
	Pinned    bool     `json:"pinned"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func notePayloadFromRecord(n *store.Note) notePayload {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return notePayload{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		OwnerID:   n.OwnerID,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// normalizeTags trims whitespace and drops duplicates and empties,
// keeping first-occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// validateNote returns an error message for an unacceptable payload.
func validateNote(req *NoteRequest) string {
	switch {
	case strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "":
		return "Title and content are required"
	case len(req.Title) > maxTitleLength:
		return "Title too long"
	}
	return ""
}

// loadOwnedNote fetches a note and runs the ownership check. It writes the
// failure response itself and returns nil when the caller should stop.
func (s *Server) loadOwnedNote(w http.ResponseWriter, r *http.Request, principal *auth.Principal) *store.Note {
	id := r.PathValue("id")

	note, err := s.store.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Note not found")
			return nil
		}
		s.logger.Error("failed to load note", "error", err, "note_id", id)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return nil
	}

	if !auth.CheckOwnership(note.OwnerID, principal) {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized: Note does not belong to user")
		return nil
	}

	return note
}

// handleListNotes handles GET /api/v1/notes.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	notes, err := s.store.ListNotesByOwner(r.Context(), ac.Principal.ID)
	if err != nil {
		s.logger.Error("failed to list notes", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	payload := make([]notePayload, 0, len(notes))
	for _, n := range notes {
		payload = append(payload, notePayloadFromRecord(n))
	}

	message := "Notes fetched successfully"
	if len(payload) == 0 {
		message = "No notes found for user"
	}

	httputil.WriteSuccess(w, http.StatusOK, message, map[string]any{
		"_notes": payload,
		"_token": ac.Token,
	})
}

// handleGetNote handles GET /api/v1/notes/{id}.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	note := s.loadOwnedNote(w, r, ac.Principal)
	if note == nil {
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Note fetched successfully", map[string]any{
		"_note":  notePayloadFromRecord(note),
		"_token": ac.Token,
	})
}

// handleCreateNote handles POST /api/v1/notes.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if msg := validateNote(&req); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}

	now := time.Now().UTC()
	note := &store.Note{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      normalizeTags(tags),
		OwnerID:   ac.Principal.ID,
		Pinned:    req.Pinned != nil && *req.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateNote(r.Context(), note); err != nil {
		s.logger.Error("failed to create note", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Note created successfully", map[string]any{
		"_note":  notePayloadFromRecord(note),
		"_token": ac.Token,
	})
}

// handleUpdateNote handles PUT /api/v1/notes/{id}.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	note := s.loadOwnedNote(w, r, ac.Principal)
	if note == nil {
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if msg := validateNote(&req); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	note.Title = req.Title
	note.Content = req.Content
	if req.Tags != nil {
		note.Tags = normalizeTags(*req.Tags)
	}
	if req.Pinned != nil {
		note.Pinned = *req.Pinned
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateNote(r.Context(), note); err != nil {
		s.logger.Error("failed to update note", "error", err, "note_id", note.ID)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Note updated successfully", map[string]any{
		"_note":  notePayloadFromRecord(note),
		"_token": ac.Token,
	})
}

// handleDeleteNote handles DELETE /api/v1/notes/{id}.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	note := s.loadOwnedNote(w, r, ac.Principal)
	if note == nil {
		return
	}

	if err := s.store.DeleteNote(r.Context(), note.ID); err != nil {
		s.logger.Error("failed to delete note", "error", err, "note_id", note.ID)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Note deleted successfully", map[string]any{
		"_note":  notePayloadFromRecord(note),
		"_token": ac.Token,
	})
}

// handleRenderNote handles GET /api/v1/notes/{id}/render.
// It converts the note's markdown content to HTML.
func (s *Server) handleRenderNote(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())

	note := s.loadOwnedNote(w, r, ac.Principal)
	if note == nil {
		return
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert([]byte(note.Content), &htmlBuf); err != nil {
		s.logger.Error("failed to render note", "error", err, "note_id", note.ID)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Note rendered successfully", map[string]any{
		"_html":  htmlBuf.String(),
		"_token": ac.Token,
	})
}
