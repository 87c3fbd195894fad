package main

import (
	"barchive/roster"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// handleListClasses returns the class year labels, seeding defaults on a
// fresh deployment.
func (s *server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.directory.Classes(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (s *server) handleAddClass(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year       string `json:"year"`
		Passphrase string `json:"passphrase"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	class, err := s.directory.AddClass(r.Context(), req.Year, req.Passphrase)
	if err != nil {
		writeError(w, rosterStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

// handleListMembers returns the full directory, or one class year when the
// classYear query parameter is set.
func (s *server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	if year := r.URL.Query().Get("classYear"); year != "" {
		members, err := s.directory.MembersOf(r.Context(), year)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, members)
		return
	}
	members, err := s.directory.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// handleGetMember returns one member, with denormalized profile fields
// backfilled from the claiming user the same way the list is.
func (s *server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.directory.Member(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		ClassYear  string `json:"classYear"`
		Passphrase string `json:"passphrase"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	member, err := s.directory.Add(r.Context(), req.FirstName, req.LastName, req.ClassYear, req.Passphrase)
	if err != nil {
		writeError(w, rosterStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// handleBulkAddMembers inserts a batch of members from a comma or newline
// delimited name list. Admin only.
func (s *server) handleBulkAddMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var req struct {
		Names     string `json:"names"`
		ClassYear string `json:"classYear"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	added, err := s.directory.BulkAdd(r.Context(), req.Names, req.ClassYear)
	if err != nil {
		writeError(w, rosterStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func rosterStatus(err error) int {
	switch {
	case errors.Is(err, roster.ErrBadPassphrase):
		return http.StatusForbidden
	case errors.Is(err, roster.ErrMissingName), errors.Is(err, roster.ErrMissingYear):
		return http.StatusBadRequest
	default:
		return statusFor(err)
	}
}
