// Package config loads server configuration from the environment. A .env file
// is honored when present so local development doesn't need exported variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultAddr         = ":8080"
	defaultUploadPreset = "baR_blog"
	defaultUploadFolder = "baR-blog"
)

// Config holds everything the server needs to talk to Firestore, Firebase
// Auth, the media host and the geocoder.
type Config struct {
	// ProjectID is the Google Cloud project backing Firestore, Cloud
	// Logging and Pub/Sub.
	ProjectID string

	// WebAPIKey is the Firebase web API key used for the Identity Toolkit
	// password sign-in endpoint.
	WebAPIKey string

	// Addr is the listen address for the HTTP server.
	Addr string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadPreset        string
	UploadFolder        string

	// AdminEmail/AdminPassword seed the admin account through /api/admin/setup.
	AdminEmail    string
	AdminPassword string
}

// Load reads the environment (and an optional .env file) into a Config.
// Missing required values are an error; the caller should treat that as fatal.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:           os.Getenv("GOOGLE_CLOUD_PROJECT"),
		WebAPIKey:           os.Getenv("FIREBASE_WEB_API_KEY"),
		Addr:                envOrDefault("ADDR", defaultAddr),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		UploadPreset:        envOrDefault("CLOUDINARY_UPLOAD_PRESET", defaultUploadPreset),
		UploadFolder:        envOrDefault("CLOUDINARY_UPLOAD_FOLDER", defaultUploadFolder),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
	}

	for _, required := range []struct {
		name, value string
	}{
		{"GOOGLE_CLOUD_PROJECT", cfg.ProjectID},
		{"FIREBASE_WEB_API_KEY", cfg.WebAPIKey},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("config: %s is not set", required.name)
		}
	}

	return cfg, nil
}

// MediaConfigured reports whether the Cloudinary credentials are all present.
// The media proxy endpoints refuse requests when they aren't.
func (c *Config) MediaConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
