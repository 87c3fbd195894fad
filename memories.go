package main

import (
	"barchive/content"
	"barchive/feed"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := s.content.Memories(r.Context(), r.URL.Query().Get("classYear"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

func (s *server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	memory, err := s.content.Memory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

func (s *server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var draft content.MemoryDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	actor := actorFrom(r)
	memory, err := s.content.CreateMemory(r.Context(), actor, draft)
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	s.hub.Publish(feed.Event{
		Kind:      feed.EventMemoryCreated,
		EntityID:  memory.ID,
		ActorName: actor.Name,
		Title:     memory.Title,
	})
	writeJSON(w, http.StatusCreated, memory)
}

func (s *server) handleUpdateMemory(w http.ResponseWriter, r *http.Request) {
	var draft content.MemoryDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	if err := s.content.UpdateMemory(r.Context(), actorFrom(r), mux.Vars(r)["id"], draft); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteMemory(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *server) handleAddPhotos(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.content.AddPhotos(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.URLs); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": true})
}

func (s *server) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("a photo url is required"))
		return
	}
	if err := s.content.RemovePhoto(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.URL); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
