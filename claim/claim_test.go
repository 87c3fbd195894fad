package claim

import (
	"barchive/collections"
	"barchive/identity"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	members     map[string]*collections.Member
	bound       *collections.ClaimBinding
	boundMember string
	bindErr     error
}

func (f *fakeRoster) MemberByID(ctx context.Context, id string) (*collections.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, errors.New("entry does not exist")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRoster) BindClaim(ctx context.Context, memberID string, binding collections.ClaimBinding) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = &binding
	f.boundMember = memberID
	return nil
}

type fakeAccounts struct {
	created   []string
	deleted   []string
	signedIn  []string
	createErr error
	signInErr error
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, email)
	return "uid-" + email, nil
}

func (f *fakeAccounts) DeleteAccount(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeAccounts) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.signedIn = append(f.signedIn, email)
	return &identity.Session{UID: "uid-" + email, Email: email, IDToken: "token"}, nil
}

func unclaimedMember() *collections.Member {
	return &collections.Member{
		ID:        "m1",
		FirstName: "Ann",
		LastName:  "Field",
		ClassYear: "2026",
	}
}

func validRequest() Request {
	return Request{
		MemberID:        "m1",
		Username:        "annf",
		Email:           "ann@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Passphrase:      "Bold Ambitious Rascals",
	}
}

func TestClaimHappyPath(t *testing.T) {
	db := &fakeRoster{members: map[string]*collections.Member{"m1": unclaimedMember()}}
	ids := &fakeAccounts{}
	w := NewWorkflow(db, ids)

	session, err := w.Claim(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "ann@example.com", session.Email)

	require.NotNil(t, db.bound)
	assert.Equal(t, "m1", db.boundMember)
	assert.Equal(t, "uid-ann@example.com", db.bound.UID)
	assert.NotEmpty(t, db.bound.ClaimKey)
	assert.Equal(t, "annf", db.bound.Profile.Username)
	assert.Equal(t, "Ann", db.bound.Profile.FirstName)
	assert.Equal(t, "2026", db.bound.Profile.ClassYear)
	assert.False(t, db.bound.Profile.IsAdmin)
	assert.Empty(t, ids.deleted)
}

func TestClaimValidation(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Request)
		want   error
	}{
		{"bad passphrase", func(r *Request) { r.Passphrase = "Be A Rockstar please" }, ErrBadPassphrase},
		{"empty passphrase", func(r *Request) { r.Passphrase = "" }, ErrBadPassphrase},
		{"missing username", func(r *Request) { r.Username = "  " }, ErrMissingUsername},
		{"missing email", func(r *Request) { r.Email = "" }, ErrMissingEmail},
		{"short password", func(r *Request) { r.Password = "abc"; r.ConfirmPassword = "abc" }, ErrPasswordTooShort},
		{"password mismatch", func(r *Request) { r.ConfirmPassword = "hunter23" }, ErrPasswordMismatch},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			db := &fakeRoster{members: map[string]*collections.Member{"m1": unclaimedMember()}}
			ids := &fakeAccounts{}
			req := validRequest()
			tc.mutate(&req)

			_, err := NewWorkflow(db, ids).Claim(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, ids.created, "no account should be created on validation failure")
		})
	}
}

func TestClaimAlreadyClaimedMember(t *testing.T) {
	m := unclaimedMember()
	m.IsClaimed = true
	m.ClaimedBy = "someone-else"
	db := &fakeRoster{members: map[string]*collections.Member{"m1": m}}
	ids := &fakeAccounts{}

	_, err := NewWorkflow(db, ids).Claim(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Empty(t, ids.created)
}

func TestClaimCompensatesOnBindFailure(t *testing.T) {
	db := &fakeRoster{
		members: map[string]*collections.Member{"m1": unclaimedMember()},
		bindErr: errors.New("contention"),
	}
	ids := &fakeAccounts{}

	_, err := NewWorkflow(db, ids).Claim(context.Background(), validRequest())
	require.Error(t, err)
	require.Len(t, ids.deleted, 1)
	assert.Equal(t, "uid-ann@example.com", ids.deleted[0])
	assert.Empty(t, ids.signedIn)
}

func TestLogin(t *testing.T) {
	claimed := unclaimedMember()
	claimed.IsClaimed = true
	claimed.Email = "ann@example.com"
	db := &fakeRoster{members: map[string]*collections.Member{
		"m1": claimed,
		"m2": unclaimedMember(),
	}}
	ids := &fakeAccounts{}
	w := NewWorkflow(db, ids)

	session, err := w.Login(context.Background(), "m1", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.Email)

	_, err = w.Login(context.Background(), "m2", "hunter22")
	assert.ErrorIs(t, err, ErrNotClaimed)

	_, err = w.Login(context.Background(), "m1", "")
	assert.ErrorIs(t, err, ErrMissingPassword)
}

func TestLoginSurfacesProviderError(t *testing.T) {
	claimed := unclaimedMember()
	claimed.IsClaimed = true
	claimed.Email = "ann@example.com"
	db := &fakeRoster{members: map[string]*collections.Member{"m1": claimed}}
	ids := &fakeAccounts{signInErr: errors.New("INVALID_PASSWORD")}

	_, err := NewWorkflow(db, ids).Login(context.Background(), "m1", "wrong")
	assert.EqualError(t, err, "INVALID_PASSWORD")
}
