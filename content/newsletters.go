package content

import (
	"barchive/collections"
	"barchive/mediahost"
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrMissingPDF is given when a newsletter is created without its document.
var ErrMissingPDF = errors.New("a PDF is required")

// NewsletterDraft carries the fields a newsletter form submits.
type NewsletterDraft struct {
	Title     string `json:"title"`
	PDFURL    string `json:"pdfUrl"`
	IssueDate string `json:"issueDate"`
}

// Newsletters returns all issues, newest first by creation time.
func (s *Service) Newsletters(ctx context.Context) ([]collections.Newsletter, error) {
	newsletters, err := s.db.AllNewsletters(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(newsletters, func(i, j int) bool {
		return newsletters[i].CreatedAt.After(newsletters[j].CreatedAt)
	})
	return newsletters, nil
}

// CreateNewsletter inserts an issue authored by the actor.
func (s *Service) CreateNewsletter(ctx context.Context, actor Actor, draft NewsletterDraft) (*collections.Newsletter, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(draft.PDFURL) == "" {
		return nil, ErrMissingPDF
	}
	newsletter := collections.Newsletter{
		Title:      draft.Title,
		PDFURL:     draft.PDFURL,
		IssueDate:  draft.IssueDate,
		AuthorID:   actor.UID,
		AuthorName: actor.Name,
	}
	id, err := s.db.AddNewsletter(ctx, newsletter)
	if err != nil {
		return nil, err
	}
	newsletter.ID = id
	return &newsletter, nil
}

// DeleteNewsletter removes the issue, then tries to delete the PDF from the
// media host as a raw asset. The PDF delete is best effort.
func (s *Service) DeleteNewsletter(ctx context.Context, actor Actor, id string) error {
	newsletter, err := s.db.NewsletterByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(newsletter.AuthorID) {
		return ErrForbidden
	}
	if err := s.db.DeleteNewsletter(ctx, id); err != nil {
		return err
	}
	s.media.DestroyByURL(ctx, newsletter.PDFURL, mediahost.ResourceRaw)
	return nil
}
