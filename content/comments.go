package content

import (
	"barchive/collections"
	"context"
	"strings"
)

// Comments returns a post's comments, newest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]collections.Comment, error) {
	return s.db.Comments(ctx, postID)
}

// AddComment appends a comment authored by the actor.
func (s *Service) AddComment(ctx context.Context, actor Actor, postID, body string) (*collections.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrMissingContent
	}
	comment := collections.Comment{
		Content:    body,
		AuthorID:   actor.UID,
		AuthorName: actor.Name,
	}
	id, err := s.db.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id
	return &comment, nil
}

// UpdateComment replaces a comment's body.
func (s *Service) UpdateComment(ctx context.Context, actor Actor, postID, commentID, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrMissingContent
	}
	comment, err := s.db.CommentByID(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if !actor.CanMutate(comment.AuthorID) {
		return ErrForbidden
	}
	return s.db.UpdateComment(ctx, postID, commentID, map[string]interface{}{
		"content": body,
	})
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, actor Actor, postID, commentID string) error {
	comment, err := s.db.CommentByID(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if !actor.CanMutate(comment.AuthorID) {
		return ErrForbidden
	}
	return s.db.DeleteComment(ctx, postID, commentID)
}
