package main

import (
	"barchive/claim"
	log "barchive/cloudlog"
	"barchive/config"
	"barchive/content"
	"barchive/feed"
	"barchive/geocode"
	"barchive/identity"
	"barchive/mediahost"
	"barchive/resync"
	"barchive/roster"
	"barchive/storage"
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// server bundles the request handlers' dependencies.
type server struct {
	cfg       *config.Config
	ids       *identity.Client
	claims    *claim.Workflow
	directory *roster.Directory
	content   *content.Service
	media     *mediahost.Client
	geo       *geocode.Client
	hub       *feed.Hub
	sync      *resync.Publisher
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Init(cfg.ProjectID)

	if err := storage.Init(cfg.ProjectID); err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer storage.Close()

	ids, err := identity.New(storage.App(), cfg.WebAPIKey)
	if err != nil {
		log.Fatalf("identity: %v", err)
	}

	ctx := context.Background()
	media := mediahost.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	hub := feed.NewHub()
	go hub.Run()

	sync := resync.NewPublisher(ctx, cfg.ProjectID)
	if worker, err := resync.NewSubscriber(ctx, cfg.ProjectID, storage.DB); err != nil {
		log.Printf("profile re-sync worker unavailable: %v", err)
	} else {
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Printf("profile re-sync worker stopped: %v", err)
			}
		}()
	}

	s := &server{
		cfg:       cfg,
		ids:       ids,
		claims:    claim.NewWorkflow(storage.DB, ids),
		directory: roster.NewDirectory(storage.DB),
		content:   content.NewService(storage.DB, media),
		media:     media,
		geo:       geocode.New(),
		hub:       hub,
		sync:      sync,
	}

	log.Printf("starting server at %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, s.routes()))
}

func (s *server) routes() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Claim flow and directory reads are open; everything below them needs
	// a session.
	api.HandleFunc("/classes", s.handleListClasses).Methods(http.MethodGet)
	api.HandleFunc("/members", s.handleListMembers).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}", s.handleGetMember).Methods(http.MethodGet)
	api.HandleFunc("/claim/verify", s.handleVerifyPassphrase).Methods(http.MethodPost)
	api.HandleFunc("/claim", s.handleClaim).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/setup", s.handleAdminSetup).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)

	authed.HandleFunc("/classes", s.handleAddClass).Methods(http.MethodPost)
	authed.HandleFunc("/members", s.handleAddMember).Methods(http.MethodPost)

	authed.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)

	authed.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	authed.HandleFunc("/posts", s.handleCreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/posts/{id}", s.handleGetPost).Methods(http.MethodGet)
	authed.HandleFunc("/posts/{id}/html", s.handleRenderPost).Methods(http.MethodGet)
	authed.HandleFunc("/posts/{id}", s.handleUpdatePost).Methods(http.MethodPut)
	authed.HandleFunc("/posts/{id}", s.handleDeletePost).Methods(http.MethodDelete)

	authed.HandleFunc("/posts/{id}/comments", s.handleListComments).Methods(http.MethodGet)
	authed.HandleFunc("/posts/{id}/comments", s.handleAddComment).Methods(http.MethodPost)
	authed.HandleFunc("/posts/{id}/comments/{commentID}", s.handleUpdateComment).Methods(http.MethodPut)
	authed.HandleFunc("/posts/{id}/comments/{commentID}", s.handleDeleteComment).Methods(http.MethodDelete)

	authed.HandleFunc("/posts/{id}/likes", s.handleListLikes).Methods(http.MethodGet)
	authed.HandleFunc("/posts/{id}/like", s.handleToggleLike).Methods(http.MethodPost)

	authed.HandleFunc("/memories", s.handleListMemories).Methods(http.MethodGet)
	authed.HandleFunc("/memories", s.handleCreateMemory).Methods(http.MethodPost)
	authed.HandleFunc("/memories/{id}", s.handleGetMemory).Methods(http.MethodGet)
	authed.HandleFunc("/memories/{id}", s.handleUpdateMemory).Methods(http.MethodPut)
	authed.HandleFunc("/memories/{id}", s.handleDeleteMemory).Methods(http.MethodDelete)
	authed.HandleFunc("/memories/{id}/photos", s.handleAddPhotos).Methods(http.MethodPost)
	authed.HandleFunc("/memories/{id}/photos", s.handleRemovePhoto).Methods(http.MethodDelete)

	authed.HandleFunc("/newsletters", s.handleListNewsletters).Methods(http.MethodGet)
	authed.HandleFunc("/newsletters", s.handleCreateNewsletter).Methods(http.MethodPost)
	authed.HandleFunc("/newsletters/{id}", s.handleDeleteNewsletter).Methods(http.MethodDelete)

	authed.HandleFunc("/media", s.handleDeleteMedia).Methods(http.MethodDelete)
	authed.HandleFunc("/media/upload-params", s.handleUploadParams).Methods(http.MethodGet)
	authed.HandleFunc("/media/usage", s.handleMediaUsage).Methods(http.MethodGet)

	authed.HandleFunc("/map/geocode", s.handleGeocode).Methods(http.MethodGet)
	authed.HandleFunc("/map/locations", s.handleMapLocations).Methods(http.MethodGet)

	authed.HandleFunc("/admin/members/bulk", s.handleBulkAddMembers).Methods(http.MethodPost)
	authed.HandleFunc("/admin/users", s.handleListUsers).Methods(http.MethodGet)

	api.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)

	return router
}
