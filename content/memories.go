package content

import (
	"barchive/collections"
	"barchive/mediahost"
	"context"
	"sort"
	"strings"
)

// MemoryDraft carries the fields a memory form submits.
type MemoryDraft struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ClassYear   string    `json:"classYear"`
	Photos      []string  `json:"photos"`
	Links       *[]string `json:"links"`
}

// Memories returns albums newest first, optionally filtered to one class
// year. Filtering and ordering happen in memory after a full fetch.
func (s *Service) Memories(ctx context.Context, classYear string) ([]collections.Memory, error) {
	memories, err := s.db.AllMemories(ctx)
	if err != nil {
		return nil, err
	}
	if classYear != "" {
		filtered := memories[:0]
		for _, m := range memories {
			if m.ClassYear == classYear {
				filtered = append(filtered, m)
			}
		}
		memories = filtered
	}
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].CreatedAt.After(memories[j].CreatedAt)
	})
	return memories, nil
}

// Memory returns one album by ID.
func (s *Service) Memory(ctx context.Context, id string) (*collections.Memory, error) {
	return s.db.MemoryByID(ctx, id)
}

// CreateMemory inserts an album authored by the actor.
func (s *Service) CreateMemory(ctx context.Context, actor Actor, draft MemoryDraft) (*collections.Memory, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrMissingTitle
	}
	memory := collections.Memory{
		Title:      draft.Title,
		ClassYear:  draft.ClassYear,
		Photos:     draft.Photos,
		AuthorID:   actor.UID,
		AuthorName: actor.Name,
	}
	if memory.Photos == nil {
		memory.Photos = []string{}
	}
	if draft.Description != nil {
		memory.Description = *draft.Description
	}
	if draft.Links != nil {
		memory.Links = *draft.Links
	}
	id, err := s.db.AddMemory(ctx, memory)
	if err != nil {
		return nil, err
	}
	memory.ID = id
	return &memory, nil
}

// UpdateMemory merges the submitted fields into an album. The photo list is
// not replaced here; appends and removals go through AddPhotos/RemovePhoto
// so each stays atomic on the document.
func (s *Service) UpdateMemory(ctx context.Context, actor Actor, id string, draft MemoryDraft) error {
	memory, err := s.db.MemoryByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(memory.AuthorID) {
		return ErrForbidden
	}
	fields := map[string]interface{}{}
	if strings.TrimSpace(draft.Title) != "" {
		fields["title"] = draft.Title
	}
	if draft.ClassYear != "" {
		fields["classYear"] = draft.ClassYear
	}
	if draft.Description != nil {
		fields["description"] = *draft.Description
	}
	if draft.Links != nil {
		fields["links"] = *draft.Links
	}
	if len(fields) == 0 {
		return nil
	}
	return s.db.UpdateMemory(ctx, id, fields)
}

// AddPhotos appends photo URLs to an album in insertion order.
func (s *Service) AddPhotos(ctx context.Context, actor Actor, id string, urls []string) error {
	memory, err := s.db.MemoryByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(memory.AuthorID) {
		return ErrForbidden
	}
	if len(urls) == 0 {
		return nil
	}
	return s.db.AppendPhotos(ctx, id, urls)
}

// RemovePhoto drops one photo URL from an album, then tries to delete the
// asset behind it. The asset delete is best effort.
func (s *Service) RemovePhoto(ctx context.Context, actor Actor, id, url string) error {
	memory, err := s.db.MemoryByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(memory.AuthorID) {
		return ErrForbidden
	}
	if err := s.db.RemovePhoto(ctx, id, url); err != nil {
		return err
	}
	s.media.DestroyByURL(ctx, url, mediahost.ResourceImage)
	return nil
}

// DeleteMemory removes the album document, then tries to delete every photo
// from the media host. Photo deletes are best effort and sequential.
func (s *Service) DeleteMemory(ctx context.Context, actor Actor, id string) error {
	memory, err := s.db.MemoryByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(memory.AuthorID) {
		return ErrForbidden
	}
	if err := s.db.DeleteMemory(ctx, id); err != nil {
		return err
	}
	for _, url := range memory.Photos {
		s.media.DestroyByURL(ctx, url, mediahost.ResourceImage)
	}
	return nil
}
