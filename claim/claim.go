// Package claim binds an unclaimed roster member to a freshly created
// identity-provider account, gated by the society passphrase. It is the only
// multi-step flow in the system; every other write is a single CRUD call.
package claim

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"barchive/identity"
	"barchive/passphrase"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const minPasswordLength = 6

var (
	// ErrAlreadyClaimed is given when the member is bound to an account;
	// only the login path is available for such members.
	ErrAlreadyClaimed = errors.New("this account has already been claimed")
	// ErrNotClaimed is given when logging in to a member that was never
	// claimed.
	ErrNotClaimed = errors.New("this account hasn't been claimed yet, please claim it first")
	// ErrBadPassphrase is given when the passphrase challenge fails.
	ErrBadPassphrase = errors.New("the phrase you have entered is not recognized")
	// ErrPasswordTooShort is given when the chosen password is under the minimum.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrPasswordMismatch is given when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrMissingUsername and ErrMissingEmail flag empty required fields.
	ErrMissingUsername = errors.New("username is required")
	ErrMissingEmail    = errors.New("email is required")
	// ErrMissingPassword is given on login with an empty password.
	ErrMissingPassword = errors.New("password is required")
)

// roster is the slice of storage the workflow needs. storage.DB satisfies it.
type roster interface {
	MemberByID(ctx context.Context, id string) (*collections.Member, error)
	BindClaim(ctx context.Context, memberID string, binding collections.ClaimBinding) error
}

// accounts is the slice of the identity provider the workflow needs.
type accounts interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
}

// Workflow orchestrates claiming and claimed-member login.
type Workflow struct {
	db  roster
	ids accounts
}

// NewWorkflow wires a Workflow to its storage and identity backends.
func NewWorkflow(db roster, ids accounts) *Workflow {
	return &Workflow{db: db, ids: ids}
}

// Request carries the claim-form submission.
type Request struct {
	MemberID        string `json:"memberId"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Passphrase      string `json:"passphrase"`
}

// VerifyPassphrase runs the challenge on its own, for the intermediate step
// of the flow. The full Claim re-checks it; a prior verification is never
// trusted.
func (w *Workflow) VerifyPassphrase(input string) error {
	if !passphrase.Accept(input) {
		return ErrBadPassphrase
	}
	return nil
}

// Claim validates the request, creates the identity-provider account, then
// binds member and profile in one transaction. If the binding fails the
// account is deleted on a best-effort basis so a retry starts clean. On
// success the new account is signed in and the session returned.
func (w *Workflow) Claim(ctx context.Context, req Request) (*identity.Session, error) {
	if err := w.VerifyPassphrase(req.Passphrase); err != nil {
		return nil, err
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		return nil, ErrMissingUsername
	}
	if req.Email == "" {
		return nil, ErrMissingEmail
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	member, err := w.db.MemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member.IsClaimed {
		return nil, ErrAlreadyClaimed
	}

	uid, err := w.ids.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	binding := collections.ClaimBinding{
		UID:      uid,
		Username: req.Username,
		Email:    req.Email,
		ClaimKey: uuid.NewString(),
		Profile: collections.User{
			MemberID:  member.ID,
			FirstName: member.FirstName,
			LastName:  member.LastName,
			Username:  req.Username,
			ClassYear: member.ClassYear,
			Email:     req.Email,
			IsAdmin:   false,
		},
	}
	if err := w.db.BindClaim(ctx, member.ID, binding); err != nil {
		// The account exists but nothing references it; remove it so the
		// member stays claimable. A failure here is logged and swallowed,
		// leaving an orphaned account rather than an unclaimable member.
		if delErr := w.ids.DeleteAccount(ctx, uid); delErr != nil {
			log.Printf("could not remove account %s after failed claim binding: %v", uid, delErr)
		}
		return nil, err
	}

	session, err := w.ids.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		// The claim itself succeeded; the member can sign in normally.
		log.Printf("post-claim sign-in failed for %s: %v", req.Email, err)
		return nil, err
	}
	return session, nil
}

// Login signs a claimed member in with the email stored on the roster record.
// The provider's error is surfaced verbatim; one attempt per submit.
func (w *Workflow) Login(ctx context.Context, memberID, password string) (*identity.Session, error) {
	if password == "" {
		return nil, ErrMissingPassword
	}
	member, err := w.db.MemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsClaimed || member.Email == "" {
		return nil, ErrNotClaimed
	}
	return w.ids.SignIn(ctx, member.Email, password)
}
