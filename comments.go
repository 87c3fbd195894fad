package main

import (
	"barchive/feed"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.content.Comments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	actor := actorFrom(r)
	postID := mux.Vars(r)["id"]
	comment, err := s.content.AddComment(r.Context(), actor, postID, req.Content)
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	s.hub.Publish(feed.Event{
		Kind:      feed.EventCommentAdded,
		EntityID:  postID,
		ActorName: actor.Name,
	})
	writeJSON(w, http.StatusCreated, comment)
}

func (s *server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	err := s.content.UpdateComment(r.Context(), actorFrom(r), vars["id"], vars["commentID"], req.Content)
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := s.content.DeleteComment(r.Context(), actorFrom(r), vars["id"], vars["commentID"])
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *server) handleListLikes(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	count, liked, err := s.content.LikeCount(r.Context(), mux.Vars(r)["id"], actor.UID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": count,
		"liked": liked,
	})
}

func (s *server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	postID := mux.Vars(r)["id"]
	liked, err := s.content.ToggleLike(r.Context(), actor, postID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.hub.Publish(feed.Event{
		Kind:      feed.EventLikeToggled,
		EntityID:  postID,
		ActorName: actor.Name,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
