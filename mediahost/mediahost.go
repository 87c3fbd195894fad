// Package mediahost talks to the Cloudinary HTTP API. Uploads happen in the
// browser with an unsigned preset; the server only signs destroy requests so
// the API secret never leaves the backend, and proxies the usage report.
package mediahost

import (
	log "barchive/cloudlog"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// publicIDPattern matches the delivery URL shape
// .../upload/[v<version>/]<public_id>[.<ext>]. Anything else is not ours to
// delete.
var publicIDPattern = regexp.MustCompile(`/upload/(?:v\d+/)?(.+?)(?:\.[^./]+)?$`)

// ErrNotConfigured is given when the client is missing credentials.
var ErrNotConfigured = errors.New("media host credentials are not configured")

// ResourceType selects the Cloudinary endpoint variant for an asset.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

// Client is a Cloudinary API client for one cloud.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client

	// now is swapped in tests to pin the destroy signature timestamp.
	now func() time.Time
}

// New builds a Client. Any empty credential leaves the client unconfigured;
// calls then fail with ErrNotConfigured.
func New(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		now:       time.Now,
	}
}

// Configured reports whether all credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// ExtractPublicID pulls the public ID out of a delivery URL. The second
// return is false when the URL does not have the expected shape.
func ExtractPublicID(url string) (string, bool) {
	m := publicIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// signature computes the destroy request signature: the hex SHA-1 of the
// sorted parameter string with the secret appended.
func (c *Client) signature(publicID string, timestamp int64) string {
	payload := fmt.Sprintf("public_id=%s&timestamp=%d%s", publicID, timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Destroy deletes one asset by public ID. The call succeeds only when the
// API reports result "ok".
func (c *Client) Destroy(ctx context.Context, publicID string, resource ResourceType) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	timestamp := c.now().Unix()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(timestamp, 10),
		"api_key":   c.apiKey,
		"signature": c.signature(publicID, timestamp),
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/destroy", c.baseURL, c.cloudName, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("destroy response: %w", err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("destroy %s: %s", publicID, result.Result)
	}
	return nil
}

// DestroyByURL deletes the asset behind a delivery URL on a best-effort
// basis. A URL that doesn't match the known shape is skipped with a warning,
// and failures are logged, never returned. Content deletion must not hinge
// on the media host.
func (c *Client) DestroyByURL(ctx context.Context, url string, resource ResourceType) {
	if url == "" {
		return
	}
	publicID, ok := ExtractPublicID(url)
	if !ok {
		log.Printf("could not extract a public id from %s, skipping media delete", url)
		return
	}
	if err := c.Destroy(ctx, publicID, resource); err != nil {
		log.Printf("media delete for %s failed: %v", publicID, err)
	}
}

// Usage is the normalized storage/bandwidth report. Free plans report
// credits, paid plans raw byte counters; both collapse into this shape.
type Usage struct {
	Plan             string  `json:"plan"`
	CreditsUsed      float64 `json:"creditsUsed,omitempty"`
	CreditsLimit     float64 `json:"creditsLimit,omitempty"`
	StorageBytes     int64   `json:"storageBytes"`
	BandwidthBytes   int64   `json:"bandwidthBytes"`
	TransformedUnits int64   `json:"transformedUnits"`
}

type usageResponse struct {
	Plan    string `json:"plan"`
	Credits struct {
		Usage float64 `json:"usage"`
		Limit float64 `json:"limit"`
	} `json:"credits"`
	Storage struct {
		Usage int64 `json:"usage"`
	} `json:"storage"`
	Bandwidth struct {
		Usage int64 `json:"usage"`
	} `json:"bandwidth"`
	Transformations struct {
		Usage int64 `json:"usage"`
	} `json:"transformations"`
}

// Usage fetches the account quota report with Basic auth.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	url := fmt.Sprintf("%s/%s/usage", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("usage request failed with status %d: %s", resp.StatusCode, msg)
	}

	var raw usageResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("usage response: %w", err)
	}
	return &Usage{
		Plan:             raw.Plan,
		CreditsUsed:      raw.Credits.Usage,
		CreditsLimit:     raw.Credits.Limit,
		StorageBytes:     raw.Storage.Usage,
		BandwidthBytes:   raw.Bandwidth.Usage,
		TransformedUnits: raw.Transformations.Usage,
	}, nil
}

// UploadParams is handed to the browser so it can post unsigned uploads
// directly to the media host.
type UploadParams struct {
	CloudName    string `json:"cloudName"`
	UploadPreset string `json:"uploadPreset"`
	Folder       string `json:"folder"`
}
