package main

import (
	"barchive/content"
	"barchive/feed"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.Posts(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.content.Post(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handleRenderPost returns the post with its body rendered to HTML.
func (s *server) handleRenderPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.content.Post(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	html, err := content.RenderHTML(post.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post": post,
		"html": html,
	})
}

func (s *server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var draft content.PostDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	actor := actorFrom(r)
	post, err := s.content.CreatePost(r.Context(), actor, draft)
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	s.hub.Publish(feed.Event{
		Kind:      feed.EventPostCreated,
		EntityID:  post.ID,
		ActorName: actor.Name,
		Title:     post.Title,
	})
	writeJSON(w, http.StatusCreated, post)
}

func (s *server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var draft content.PostDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	if err := s.content.UpdatePost(r.Context(), actorFrom(r), mux.Vars(r)["id"], draft); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeletePost(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func contentStatus(err error) int {
	switch {
	case errors.Is(err, content.ErrMissingTitle),
		errors.Is(err, content.ErrMissingContent),
		errors.Is(err, content.ErrMissingPDF):
		return http.StatusBadRequest
	default:
		return statusFor(err)
	}
}
