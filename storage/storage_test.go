package storage

import (
	"barchive/collections"
	"barchive/testutil"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emulatorStorage skips the test unless a Firestore emulator is reachable.
func emulatorStorage(t *testing.T) *archiveStorage {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}
	client := testutil.NewFirestoreTestClient(context.Background())
	as := &archiveStorage{client: client}
	as.initCollections()
	return as
}

func TestBindClaim(t *testing.T) {
	as := emulatorStorage(t)
	ctx := context.Background()

	memberID, err := as.AddMember(ctx, collections.Member{
		FirstName: "Ann",
		LastName:  "Field",
		ClassYear: "2026",
	})
	require.NoError(t, err)

	binding := collections.ClaimBinding{
		UID:      "uid-test-claim",
		Username: "annf",
		Email:    "ann@example.com",
		ClaimKey: "key-1",
		Profile: collections.User{
			MemberID:  memberID,
			FirstName: "Ann",
			LastName:  "Field",
			Username:  "annf",
			ClassYear: "2026",
			Email:     "ann@example.com",
		},
	}
	require.NoError(t, as.BindClaim(ctx, memberID, binding))

	member, err := as.MemberByID(ctx, memberID)
	require.NoError(t, err)
	assert.True(t, member.IsClaimed)
	assert.Equal(t, "uid-test-claim", member.ClaimedBy)
	assert.Equal(t, "annf", member.Username)

	user, err := as.UserByID(ctx, "uid-test-claim")
	require.NoError(t, err)
	assert.Equal(t, memberID, user.MemberID)

	// A different claim attempt against the bound member must be rejected.
	other := binding
	other.UID = "uid-other"
	other.ClaimKey = "key-2"
	err = as.BindClaim(ctx, memberID, other)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestMemberNotFound(t *testing.T) {
	as := emulatorStorage(t)
	_, err := as.MemberByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}
