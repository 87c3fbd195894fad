// Package content implements the owner scoped CRUD rules shared by posts,
// comments, likes, memories and newsletters. Author references are immutable
// once set, and every mutation is checked server side against the acting
// account rather than trusting the client's idea of ownership.
package content

import (
	"barchive/collections"
	"barchive/mediahost"
	"context"
	"errors"
	"sync"
)

var (
	// ErrForbidden is given when the actor is neither the author nor an admin.
	ErrForbidden = errors.New("only the author or an admin may do that")
	// ErrMissingTitle is given when a titled entry is created without one.
	ErrMissingTitle = errors.New("a title is required")
	// ErrMissingContent is given when a post or comment body is empty.
	ErrMissingContent = errors.New("content is required")
	// ErrToggleInFlight is given when a like toggle for the same post and
	// user is already running.
	ErrToggleInFlight = errors.New("a like toggle is already in flight")
)

// Actor is the authenticated account a request runs as.
type Actor struct {
	UID   string
	Name  string
	Admin bool
}

// CanMutate reports whether the actor may edit or delete an entry owned by
// authorID.
func (a Actor) CanMutate(authorID string) bool {
	return a.Admin || a.UID == authorID
}

// datastore is the slice of storage the content service needs. storage.DB
// satisfies it.
type datastore interface {
	AllPosts(ctx context.Context) ([]collections.Post, error)
	PostByID(ctx context.Context, id string) (*collections.Post, error)
	AddPost(ctx context.Context, post collections.Post) (string, error)
	UpdatePost(ctx context.Context, id string, fields map[string]interface{}) error
	DeletePost(ctx context.Context, id string) error

	Comments(ctx context.Context, postID string) ([]collections.Comment, error)
	CommentByID(ctx context.Context, postID, commentID string) (*collections.Comment, error)
	AddComment(ctx context.Context, postID string, comment collections.Comment) (string, error)
	UpdateComment(ctx context.Context, postID, commentID string, fields map[string]interface{}) error
	DeleteComment(ctx context.Context, postID, commentID string) error

	Likes(ctx context.Context, postID string) ([]collections.Like, error)
	LikeByUser(ctx context.Context, postID, userID string) (string, error)
	AddLike(ctx context.Context, postID string, like collections.Like) (string, error)
	DeleteLike(ctx context.Context, postID, likeID string) error

	AllMemories(ctx context.Context) ([]collections.Memory, error)
	MemoryByID(ctx context.Context, id string) (*collections.Memory, error)
	AddMemory(ctx context.Context, memory collections.Memory) (string, error)
	UpdateMemory(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteMemory(ctx context.Context, id string) error
	AppendPhotos(ctx context.Context, id string, urls []string) error
	RemovePhoto(ctx context.Context, id, url string) error

	AllNewsletters(ctx context.Context) ([]collections.Newsletter, error)
	NewsletterByID(ctx context.Context, id string) (*collections.Newsletter, error)
	AddNewsletter(ctx context.Context, newsletter collections.Newsletter) (string, error)
	DeleteNewsletter(ctx context.Context, id string) error
}

// media is the best-effort asset deletion surface. mediahost.Client
// satisfies it; DestroyByURL never returns an error.
type media interface {
	DestroyByURL(ctx context.Context, url string, resource mediahost.ResourceType)
}

// Service carries the content operations.
type Service struct {
	db    datastore
	media media

	// inflight guards the like toggle per (post, user) pair.
	mu       sync.Mutex
	inflight map[string]bool
}

// NewService wires a Service to storage and the media host.
func NewService(db datastore, media media) *Service {
	return &Service{
		db:       db,
		media:    media,
		inflight: make(map[string]bool),
	}
}
