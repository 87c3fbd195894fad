package main

import (
	"barchive/content"
	"barchive/feed"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *server) handleListNewsletters(w http.ResponseWriter, r *http.Request) {
	newsletters, err := s.content.Newsletters(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newsletters)
}

func (s *server) handleCreateNewsletter(w http.ResponseWriter, r *http.Request) {
	var draft content.NewsletterDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	actor := actorFrom(r)
	newsletter, err := s.content.CreateNewsletter(r.Context(), actor, draft)
	if err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	s.hub.Publish(feed.Event{
		Kind:      feed.EventNewsletterSent,
		EntityID:  newsletter.ID,
		ActorName: actor.Name,
		Title:     newsletter.Title,
	})
	writeJSON(w, http.StatusCreated, newsletter)
}

func (s *server) handleDeleteNewsletter(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteNewsletter(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, contentStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
