package main

import (
	log "barchive/cloudlog"
	"barchive/content"
	"barchive/storage"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const actorKey contextKey = "actor"

// requireAuth verifies the bearer token and loads the acting account's
// profile into the request context.
func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := s.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate resolves the request's bearer token to an actor. A verified
// token without a profile still counts; the account just has no display name.
func (s *server) authenticate(r *http.Request) (content.Actor, error) {
	token := bearerToken(r)
	if token == "" {
		return content.Actor{}, errors.New("missing bearer token")
	}
	uid, err := s.ids.VerifyToken(r.Context(), token)
	if err != nil {
		return content.Actor{}, err
	}
	actor := content.Actor{UID: uid}
	user, err := storage.DB.UserByID(r.Context(), uid)
	if err == nil {
		actor.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
		actor.Admin = user.IsAdmin
	} else if !errors.Is(err, storage.ErrNotFound) {
		return content.Actor{}, err
	}
	return actor, nil
}

// bearerToken also accepts a token query parameter, for the websocket
// endpoint where headers can't be set from the browser.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func actorFrom(r *http.Request) content.Actor {
	actor, _ := r.Context().Value(actorKey).(content.Actor)
	return actor
}

// requireAdmin is used inside handlers rather than as route middleware so
// the 403 carries a consistent body.
func requireAdmin(w http.ResponseWriter, r *http.Request) (content.Actor, bool) {
	actor := actorFrom(r)
	if !actor.Admin {
		writeError(w, http.StatusForbidden, errors.New("admin access required"))
		return actor, false
	}
	return actor, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

// writeError surfaces the error message verbatim; provider and validation
// errors are what the client renders inline.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("could not read the request body"))
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, content.ErrToggleInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
