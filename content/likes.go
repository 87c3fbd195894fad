package content

import (
	"barchive/collections"
	"context"
)

// LikeCount returns the number of likes on a post and whether the given user
// has liked it.
func (s *Service) LikeCount(ctx context.Context, postID, userID string) (int, bool, error) {
	likes, err := s.db.Likes(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	liked := false
	for _, l := range likes {
		if l.UserID == userID {
			liked = true
			break
		}
	}
	return len(likes), liked, nil
}

// ToggleLike flips the actor's like on a post. At most one toggle per
// (post, user) pair runs at a time; a second invocation while one is in
// flight fails with ErrToggleInFlight instead of racing the first. Returns
// whether the post is liked after the flip.
func (s *Service) ToggleLike(ctx context.Context, actor Actor, postID string) (bool, error) {
	key := postID + "/" + actor.UID
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return false, ErrToggleInFlight
	}
	s.inflight[key] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	likeID, err := s.db.LikeByUser(ctx, postID, actor.UID)
	if err != nil {
		return false, err
	}
	if likeID != "" {
		if err := s.db.DeleteLike(ctx, postID, likeID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.db.AddLike(ctx, postID, collections.Like{UserID: actor.UID}); err != nil {
		return false, err
	}
	return true, nil
}
