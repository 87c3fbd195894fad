package main

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"barchive/storage"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	user, err := storage.DB.UserByID(r.Context(), actor.UID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleUpdateProfile merges the submitted fields into the profile, then
// queues a re-sync so the member record's denormalized copy catches up.
func (s *server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	var req struct {
		Username        *string         `json:"username"`
		Bio             *string         `json:"bio"`
		Hometown        *string         `json:"hometown"`
		CurrentLocation json.RawMessage `json:"currentLocation"`
		ProfilePicture  *string         `json:"profilePicture"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			writeError(w, http.StatusBadRequest, errors.New("username cannot be empty"))
			return
		}
		fields["username"] = *req.Username
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Hometown != nil {
		fields["hometown"] = *req.Hometown
	}
	if req.ProfilePicture != nil {
		fields["profilePicture"] = *req.ProfilePicture
	}
	if len(req.CurrentLocation) > 0 {
		value, err := locationField(req.CurrentLocation)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		fields["currentLocation"] = value
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusOK, map[string]bool{"updated": false})
		return
	}

	if err := storage.DB.UpdateUser(r.Context(), actor.UID, fields); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.requestResync(r, actor.UID)
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// locationField turns the submitted currentLocation JSON into the value to
// store. An explicit null (and the empty string) clears the stored location;
// the legacy free-text form and the structured geocoded form are accepted,
// anything else is rejected rather than stored opaquely.
func locationField(raw json.RawMessage) (interface{}, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.New("currentLocation is not valid JSON")
	}
	loc, ok := collections.DecodeLocation(decoded)
	if !ok {
		return nil, errors.New("currentLocation must be null, text, or a geocoded place")
	}
	return loc.FirestoreValue(), nil
}

// requestResync queues the member-record copy of the profile. Failures only
// delay the sync; the profile write itself already landed.
func (s *server) requestResync(r *http.Request, uid string) {
	user, err := storage.DB.UserByID(r.Context(), uid)
	if err != nil {
		log.Printf("could not load profile %s for re-sync: %v", uid, err)
		return
	}
	memberID := user.MemberID
	if memberID == "" {
		memberID, err = storage.DB.MemberIDClaimedBy(r.Context(), uid)
		if err != nil {
			log.Printf("could not look up the member claimed by %s: %v", uid, err)
			return
		}
	}
	if memberID == "" {
		// Not every account claims a member; the admin account doesn't.
		return
	}
	s.sync.Request(r.Context(), uid, memberID)
}

// handleListUsers returns every account profile. Admin only.
func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	users, err := storage.DB.AllUsers(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleAdminSetup creates the configured admin account and its profile.
// Safe to call again; an existing account makes the provider reject the
// create and nothing is overwritten.
func (s *server) handleAdminSetup(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		writeError(w, http.StatusNotFound, errors.New("admin setup is not configured"))
		return
	}
	uid, err := s.ids.CreateAccount(r.Context(), s.cfg.AdminEmail, s.cfg.AdminPassword)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	profile := collections.User{
		FirstName: "Site",
		LastName:  "Admin",
		Username:  "admin",
		Email:     s.cfg.AdminEmail,
		IsAdmin:   true,
	}
	if err := storage.DB.CreateProfile(r.Context(), uid, profile); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": uid})
}
