package roster

import (
	"barchive/collections"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatastore struct {
	members []collections.Member
	users   map[string]*collections.User
	classes []collections.ClassYear
	nextID  int
}

func (f *fakeDatastore) AllMembers(ctx context.Context) ([]collections.Member, error) {
	return append([]collections.Member(nil), f.members...), nil
}

func (f *fakeDatastore) MembersByClassYear(ctx context.Context, year string) ([]collections.Member, error) {
	var out []collections.Member
	for _, m := range f.members {
		if m.ClassYear == year {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDatastore) MemberByID(ctx context.Context, id string) (*collections.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, errors.New("entry does not exist")
}

func (f *fakeDatastore) AddMember(ctx context.Context, member collections.Member) (string, error) {
	f.nextID++
	member.ID = fmt.Sprintf("m%d", f.nextID)
	f.members = append(f.members, member)
	return member.ID, nil
}

func (f *fakeDatastore) UserByID(ctx context.Context, uid string) (*collections.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errors.New("entry does not exist")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDatastore) AllClassYears(ctx context.Context) ([]collections.ClassYear, error) {
	return append([]collections.ClassYear(nil), f.classes...), nil
}

func (f *fakeDatastore) AddClassYear(ctx context.Context, class collections.ClassYear) (string, error) {
	f.nextID++
	class.ID = fmt.Sprintf("c%d", f.nextID)
	f.classes = append(f.classes, class)
	return class.ID, nil
}

const phrase = "Bold Ambitious Rascals"

func TestListSortsByYearThenLastName(t *testing.T) {
	db := &fakeDatastore{members: []collections.Member{
		{ID: "1", FirstName: "A", LastName: "Zed", ClassYear: "2026"},
		{ID: "2", FirstName: "B", LastName: "Late", ClassYear: "2025"},
		{ID: "3", FirstName: "C", LastName: "Ann", ClassYear: "2026"},
	}}
	d := NewDirectory(db)

	members, err := d.List(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "Ann", members[0].LastName)
	assert.Equal(t, "Zed", members[1].LastName)
	assert.Equal(t, "2025", members[2].ClassYear)
}

func TestListBackfillsClaimedProfiles(t *testing.T) {
	db := &fakeDatastore{
		members: []collections.Member{
			{ID: "1", LastName: "Field", ClassYear: "2026", IsClaimed: true, ClaimedBy: "uid1"},
			{ID: "2", LastName: "Moor", ClassYear: "2026", IsClaimed: true, ClaimedBy: "uid-gone"},
		},
		users: map[string]*collections.User{
			"uid1": {Username: "annf", Bio: "hi", Hometown: "Paris", ProfilePicture: "pic.jpg"},
		},
	}
	members, err := NewDirectory(db).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "annf", members[0].Username)
	assert.Equal(t, "Paris", members[0].Hometown)
	// A missing profile leaves the seed record as is.
	assert.Empty(t, members[1].Username)
}

func TestMemberMergesProfile(t *testing.T) {
	db := &fakeDatastore{
		members: []collections.Member{
			{ID: "1", LastName: "Field", ClassYear: "2026", IsClaimed: true, ClaimedBy: "uid1"},
			{ID: "2", LastName: "Moor", ClassYear: "2026"},
		},
		users: map[string]*collections.User{
			"uid1": {Username: "annf", Bio: "hi", ProfilePicture: "pic.jpg"},
		},
	}
	d := NewDirectory(db)

	member, err := d.Member(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "annf", member.Username)
	assert.Equal(t, "pic.jpg", member.ProfilePicture)

	// Unclaimed members come back as seeded.
	member, err = d.Member(context.Background(), "2")
	require.NoError(t, err)
	assert.Empty(t, member.Username)

	_, err = d.Member(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestAddRequiresPassphrase(t *testing.T) {
	db := &fakeDatastore{}
	d := NewDirectory(db)

	_, err := d.Add(context.Background(), "Ann", "Field", "2026", "Bar none here")
	assert.ErrorIs(t, err, ErrBadPassphrase)
	assert.Empty(t, db.members)

	m, err := d.Add(context.Background(), "Ann", "Field", "2026", phrase)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Len(t, db.members, 1)
}

func TestBulkAddParsesNames(t *testing.T) {
	db := &fakeDatastore{}
	added, err := NewDirectory(db).BulkAdd(context.Background(),
		"Ann Field, Zed van der Berg\nSolo,, \n", "2026")
	require.NoError(t, err)
	require.Len(t, added, 3)

	assert.Equal(t, "Ann", added[0].FirstName)
	assert.Equal(t, "Field", added[0].LastName)
	assert.Equal(t, "Zed", added[1].FirstName)
	assert.Equal(t, "van der Berg", added[1].LastName)
	assert.Equal(t, "Solo", added[2].FirstName)
	assert.Empty(t, added[2].LastName)
	for _, m := range added {
		assert.Equal(t, "2026", m.ClassYear)
	}
}

func TestClassesSeedsDefaults(t *testing.T) {
	db := &fakeDatastore{}
	d := NewDirectory(db)

	classes, err := d.Classes(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 5)
	assert.Equal(t, "2025", classes[0].Year)
	assert.Equal(t, "2029", classes[4].Year)

	// Second call returns the stored labels without reseeding.
	classes, err = d.Classes(context.Background())
	require.NoError(t, err)
	assert.Len(t, classes, 5)
}

func TestAddClass(t *testing.T) {
	db := &fakeDatastore{classes: []collections.ClassYear{{ID: "c0", Year: "2025"}}}
	d := NewDirectory(db)

	_, err := d.AddClass(context.Background(), "2030", "wrong phrase entirely")
	assert.ErrorIs(t, err, ErrBadPassphrase)

	_, err = d.AddClass(context.Background(), "  ", phrase)
	assert.ErrorIs(t, err, ErrMissingYear)

	c, err := d.AddClass(context.Background(), "2030", phrase)
	require.NoError(t, err)
	assert.Equal(t, "2030", c.Year)
	assert.Len(t, db.classes, 2)
}
