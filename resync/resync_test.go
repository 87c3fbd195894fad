package resync

import (
	"barchive/collections"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatastore struct {
	users   map[string]*collections.User
	updated map[string]map[string]interface{}
}

func (f *fakeDatastore) UserByID(ctx context.Context, uid string) (*collections.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errors.New("entry does not exist")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDatastore) UpdateMember(ctx context.Context, id string, fields map[string]interface{}) error {
	if f.updated == nil {
		f.updated = map[string]map[string]interface{}{}
	}
	f.updated[id] = fields
	return nil
}

func TestApplyCopiesProfileFields(t *testing.T) {
	db := &fakeDatastore{users: map[string]*collections.User{
		"uid1": {
			Username:       "annf",
			Email:          "ann@example.com",
			Bio:            "hello",
			Hometown:       "Lyon",
			ProfilePicture: "pic.jpg",
			CurrentLocation: map[string]interface{}{
				"displayName": "Paris, France",
				"lat":         48.8566,
				"lng":         2.3522,
			},
		},
	}}
	s := &Subscriber{db: db}

	err := s.apply(context.Background(), Message{UID: "uid1", MemberID: "m1"})
	require.NoError(t, err)

	fields := db.updated["m1"]
	require.NotNil(t, fields)
	assert.Equal(t, "annf", fields["username"])
	assert.Equal(t, "Lyon", fields["hometown"])
	assert.Equal(t, "pic.jpg", fields["profilePicture"])
	assert.NotNil(t, fields["currentLocation"])
}

func TestApplySkipsMissingLocation(t *testing.T) {
	db := &fakeDatastore{users: map[string]*collections.User{
		"uid1": {Username: "annf"},
	}}
	s := &Subscriber{db: db}

	require.NoError(t, s.apply(context.Background(), Message{UID: "uid1", MemberID: "m1"}))
	_, hasLocation := db.updated["m1"]["currentLocation"]
	assert.False(t, hasLocation)
}

func TestApplyUnknownUser(t *testing.T) {
	s := &Subscriber{db: &fakeDatastore{users: map[string]*collections.User{}}}
	err := s.apply(context.Background(), Message{UID: "ghost", MemberID: "m1"})
	assert.Error(t, err)
}

func TestProcessDropsPoisonMessages(t *testing.T) {
	db := &fakeDatastore{users: map[string]*collections.User{
		"uid1": {Username: "annf"},
	}}
	s := &Subscriber{db: db}
	ctx := context.Background()

	// An empty member reference must be dropped, not retried; admin
	// accounts never claim a member and a retry would redeliver forever.
	retry := s.process(ctx, []byte(`{"uid":"admin-uid","memberId":""}`))
	assert.False(t, retry)
	assert.Empty(t, db.updated)

	retry = s.process(ctx, []byte(`not json`))
	assert.False(t, retry)

	// An unknown user is a transient read failure and is retried.
	retry = s.process(ctx, []byte(`{"uid":"ghost","memberId":"m1"}`))
	assert.True(t, retry)

	retry = s.process(ctx, []byte(`{"uid":"uid1","memberId":"m1"}`))
	assert.False(t, retry)
	assert.NotNil(t, db.updated["m1"])
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	// Must not panic; the sync just waits for the next edit.
	p.Request(context.Background(), "uid1", "m1")
}
