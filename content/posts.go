package content

import (
	"barchive/collections"
	"barchive/mediahost"
	"context"
	"sort"
	"strings"
)

// PostDraft carries the fields a post form submits. On update, nil-valued
// optional fields are left untouched.
type PostDraft struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featuredImage"`
}

// Posts returns every post, newest first. Ordering happens in memory after a
// full fetch; the expected volume is a club archive, not a feed at scale.
func (s *Service) Posts(ctx context.Context) ([]collections.Post, error) {
	posts, err := s.db.AllPosts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Post returns one post by ID.
func (s *Service) Post(ctx context.Context, id string) (*collections.Post, error) {
	return s.db.PostByID(ctx, id)
}

// CreatePost inserts a post authored by the actor.
func (s *Service) CreatePost(ctx context.Context, actor Actor, draft PostDraft) (*collections.Post, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(draft.Content) == "" {
		return nil, ErrMissingContent
	}
	post := collections.Post{
		Title:      draft.Title,
		Content:    draft.Content,
		AuthorID:   actor.UID,
		AuthorName: actor.Name,
	}
	if draft.Excerpt != nil {
		post.Excerpt = *draft.Excerpt
	}
	if draft.FeaturedImage != nil {
		post.FeaturedImage = *draft.FeaturedImage
	}
	id, err := s.db.AddPost(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id
	return &post, nil
}

// UpdatePost merges the submitted fields into an existing post. Only fields
// present in the draft are written; the author reference never changes.
func (s *Service) UpdatePost(ctx context.Context, actor Actor, id string, draft PostDraft) error {
	post, err := s.db.PostByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(post.AuthorID) {
		return ErrForbidden
	}
	fields := map[string]interface{}{}
	if strings.TrimSpace(draft.Title) != "" {
		fields["title"] = draft.Title
	}
	if strings.TrimSpace(draft.Content) != "" {
		fields["content"] = draft.Content
	}
	if draft.Excerpt != nil {
		fields["excerpt"] = *draft.Excerpt
	}
	if draft.FeaturedImage != nil {
		fields["featuredImage"] = *draft.FeaturedImage
	}
	if len(fields) == 0 {
		return nil
	}
	return s.db.UpdatePost(ctx, id, fields)
}

// DeletePost removes the post document, then tries to delete the featured
// image from the media host. The image delete is best effort; a failure there
// never fails the post delete.
func (s *Service) DeletePost(ctx context.Context, actor Actor, id string) error {
	post, err := s.db.PostByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(post.AuthorID) {
		return ErrForbidden
	}
	if err := s.db.DeletePost(ctx, id); err != nil {
		return err
	}
	s.media.DestroyByURL(ctx, post.FeaturedImage, mediahost.ResourceImage)
	return nil
}
