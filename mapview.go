package main

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"barchive/geocode"
	"barchive/storage"
	"errors"
	"net/http"
)

// handleGeocode resolves a free-text query for the location picker.
func (s *server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	loc, err := s.geo.Lookup(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, geocode.ErrNoResult) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// memberPin is one marker on the member map.
type memberPin struct {
	MemberID  string               `json:"memberId"`
	Name      string               `json:"name"`
	ClassYear string               `json:"classYear"`
	Location  collections.Location `json:"location"`
}

// handleMapLocations returns a pin per member with a usable location. Legacy
// free-text locations get a one-shot geocode; members whose text doesn't
// resolve are left off the map rather than failing the request.
func (s *server) handleMapLocations(w http.ResponseWriter, r *http.Request) {
	members, err := storage.DB.AllMembers(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	pins := []memberPin{}
	for _, m := range members {
		loc, ok := collections.DecodeLocation(m.CurrentLocation)
		if !ok || loc.Kind == collections.LocationNone {
			continue
		}
		pin := memberPin{
			MemberID:  m.ID,
			Name:      m.FirstName + " " + m.LastName,
			ClassYear: m.ClassYear,
		}
		switch loc.Kind {
		case collections.LocationGeocoded:
			pin.Location = loc.Geo
		case collections.LocationUnstructured:
			// Sequential lookups keep within the geocoder's rate limits.
			geo, err := s.geo.Lookup(r.Context(), loc.Text)
			if err != nil {
				log.Printf("could not geocode %q for member %s: %v", loc.Text, m.ID, err)
				continue
			}
			pin.Location = *geo
		}
		pins = append(pins, pin)
	}
	writeJSON(w, http.StatusOK, pins)
}
