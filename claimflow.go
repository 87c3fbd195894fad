package main

import (
	"barchive/claim"
	"errors"
	"net/http"
)

func (s *server) handleVerifyPassphrase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.claims.VerifyPassphrase(req.Passphrase); err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (s *server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claim.Request
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.claims.Claim(r.Context(), req)
	if err != nil {
		writeError(w, claimStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"memberId"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.claims.Login(r.Context(), req.MemberID, req.Password)
	if err != nil {
		// The provider's message is surfaced verbatim; one attempt per
		// submit, no retries.
		status := claimStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusUnauthorized
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func claimStatus(err error) int {
	switch {
	case errors.Is(err, claim.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, claim.ErrBadPassphrase):
		return http.StatusForbidden
	case errors.Is(err, claim.ErrNotClaimed),
		errors.Is(err, claim.ErrPasswordTooShort),
		errors.Is(err, claim.ErrPasswordMismatch),
		errors.Is(err, claim.ErrMissingUsername),
		errors.Is(err, claim.ErrMissingEmail),
		errors.Is(err, claim.ErrMissingPassword):
		return http.StatusBadRequest
	default:
		return statusFor(err)
	}
}
