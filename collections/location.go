package collections

import (
	"encoding/json"
	"errors"
)

// Location is a geocoded place. Stored as a map in Firestore and rendered as
// an object in JSON responses.
type Location struct {
	DisplayName string  `firestore:"displayName" json:"displayName"`
	Lat         float64 `firestore:"lat" json:"lat"`
	Lng         float64 `firestore:"lng" json:"lng"`
}

// LocationKind tags the two persisted shapes of a member location.
type LocationKind int

const (
	// LocationNone means no location is set.
	LocationNone LocationKind = iota
	// LocationUnstructured is the legacy free-text form.
	LocationUnstructured
	// LocationGeocoded is the structured {displayName, lat, lng} form.
	LocationGeocoded
)

// LocationValue is the tagged union over the two location shapes. Consumers
// switch on Kind instead of probing for field presence.
type LocationValue struct {
	Kind LocationKind
	Text string
	Geo  Location
}

var errBadLocation = errors.New("location is neither a string nor an object with lat/lng")

// DecodeLocation interprets a raw Firestore field value as a LocationValue.
// Both the current structured form and the legacy string form are accepted;
// anything else reports false.
func DecodeLocation(raw interface{}) (LocationValue, bool) {
	switch v := raw.(type) {
	case nil:
		return LocationValue{Kind: LocationNone}, true
	case string:
		if v == "" {
			return LocationValue{Kind: LocationNone}, true
		}
		return LocationValue{Kind: LocationUnstructured, Text: v}, true
	case map[string]interface{}:
		lat, latOK := asFloat(v["lat"])
		lng, lngOK := asFloat(v["lng"])
		if !latOK || !lngOK {
			return LocationValue{}, false
		}
		name, _ := v["displayName"].(string)
		if name == "" {
			// Some early documents kept Nominatim's snake_case key.
			name, _ = v["display_name"].(string)
		}
		if name == "" {
			name = "Unknown Location"
		}
		return LocationValue{
			Kind: LocationGeocoded,
			Geo:  Location{DisplayName: name, Lat: lat, Lng: lng},
		}, true
	default:
		return LocationValue{}, false
	}
}

// FirestoreValue gives the form to persist: the string as-is for legacy
// values, the structured object otherwise, nil when unset. Legacy strings are
// never force-migrated to the structured form.
func (lv LocationValue) FirestoreValue() interface{} {
	switch lv.Kind {
	case LocationUnstructured:
		return lv.Text
	case LocationGeocoded:
		return lv.Geo
	default:
		return nil
	}
}

// MarshalJSON renders the union the same way it is stored: a bare string, an
// object, or null.
func (lv LocationValue) MarshalJSON() ([]byte, error) {
	switch lv.Kind {
	case LocationUnstructured:
		return json.Marshal(lv.Text)
	case LocationGeocoded:
		return json.Marshal(lv.Geo)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts either persisted shape from a client payload.
func (lv *LocationValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, ok := DecodeLocation(raw)
	if !ok {
		return errBadLocation
	}
	*lv = decoded
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
