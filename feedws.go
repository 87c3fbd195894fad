package main

import "net/http"

// handleFeed upgrades to the live activity socket. Auth happens here via the
// token query parameter; websocket requests can't set headers.
func (s *server) handleFeed(w http.ResponseWriter, r *http.Request) {
	actor, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	s.hub.ServeWs(w, r, actor.UID)
}
