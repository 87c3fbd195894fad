package main

import (
	"barchive/mediahost"
	"errors"
	"net/http"
)

// handleDeleteMedia proxies a signed destroy so the API secret stays on the
// server. Unlike content deletes, a direct media delete does surface errors.
func (s *server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.MediaConfigured() {
		writeError(w, http.StatusServiceUnavailable, mediahost.ErrNotConfigured)
		return
	}
	var req struct {
		URL          string `json:"url"`
		ResourceType string `json:"resourceType"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	publicID, ok := mediahost.ExtractPublicID(req.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("url does not look like a hosted asset"))
		return
	}
	resource := mediahost.ResourceImage
	if req.ResourceType == string(mediahost.ResourceRaw) {
		resource = mediahost.ResourceRaw
	}
	if err := s.media.Destroy(r.Context(), publicID, resource); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleUploadParams hands the browser what it needs for unsigned uploads.
func (s *server) handleUploadParams(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.MediaConfigured() {
		writeError(w, http.StatusServiceUnavailable, mediahost.ErrNotConfigured)
		return
	}
	writeJSON(w, http.StatusOK, mediahost.UploadParams{
		CloudName:    s.cfg.CloudinaryCloudName,
		UploadPreset: s.cfg.UploadPreset,
		Folder:       s.cfg.UploadFolder,
	})
}

// handleMediaUsage reports the account quota. Admin only.
func (s *server) handleMediaUsage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	usage, err := s.media.Usage(r.Context())
	if err != nil {
		if errors.Is(err, mediahost.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
