package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/video"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

type listResponse struct {
	OK    bool                 `json:"ok"`
	Count int                  `json:"count"`
	Data  []video.ExposedVideo `json:"data"`
}

type createResponse struct {
	OK   bool               `json:"ok"`
	ID   string             `json:"id"`
	Data video.ExposedVideo `json:"data"`
}

type videoResponse struct {
	OK   bool               `json:"ok"`
	Data video.ExposedVideo `json:"data"`
}

type deleteResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type bulkDeleteResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videos.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{OK: true, Count: len(videos), Data: videos})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := s.videos.Create(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{OK: true, ID: v.ID, Data: v})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := s.videos.AddComment(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videoResponse{OK: true, Data: v})
}

func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := s.videos.AddRating(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videoResponse{OK: true, Data: v})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.videos.DeleteOne(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{OK: true, ID: id})
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.videos.BulkDeleteByProvider(r.Context(), r.URL.Query().Get("provider"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkDeleteResponse{OK: true, Deleted: deleted})
}

// decodeBody reads a JSON object body. An empty body decodes as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	body := map[string]any{}
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, &video.ValidationError{Reason: video.ReasonInvalidJSON}
	}
	if body == nil {
		// a literal null body
		body = map[string]any{}
	}
	return body, nil
}
