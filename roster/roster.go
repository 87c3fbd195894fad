// Package roster manages the member directory and class year labels. Members
// are seed records created ahead of time; once an account claims one, profile
// fields on the member document become denormalized copies of the user profile.
package roster

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"barchive/passphrase"
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrBadPassphrase is given when the gate on directory mutations fails.
	ErrBadPassphrase = errors.New("the phrase you have entered is not recognized")
	// ErrMissingName is given when a member is added without a first name.
	ErrMissingName = errors.New("a name is required")
	// ErrMissingYear is given when a class year label is empty.
	ErrMissingYear = errors.New("a class year is required")
)

// defaultYears seeds the class menu when the collection is empty, so the
// claim flow has something to select from on a fresh deployment.
var defaultYears = []string{"2025", "2026", "2027", "2028", "2029"}

// datastore is the slice of storage the directory needs. storage.DB
// satisfies it.
type datastore interface {
	AllMembers(ctx context.Context) ([]collections.Member, error)
	MembersByClassYear(ctx context.Context, year string) ([]collections.Member, error)
	MemberByID(ctx context.Context, id string) (*collections.Member, error)
	AddMember(ctx context.Context, member collections.Member) (string, error)
	UserByID(ctx context.Context, uid string) (*collections.User, error)
	AllClassYears(ctx context.Context) ([]collections.ClassYear, error)
	AddClassYear(ctx context.Context, year collections.ClassYear) (string, error)
}

// Directory exposes the member roster and class year operations.
type Directory struct {
	db datastore
}

// NewDirectory wires a Directory to its storage backend.
func NewDirectory(db datastore) *Directory {
	return &Directory{db: db}
}

// List returns every member, sorted by class year descending then last name
// ascending. For claimed members whose denormalized profile fields have not
// been synced yet, the fields are filled in from the claiming user's profile.
func (d *Directory) List(ctx context.Context) ([]collections.Member, error) {
	members, err := d.db.AllMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		d.fillFromProfile(ctx, &members[i])
	}
	Sort(members)
	return members, nil
}

// MembersOf returns the members of one class year, sorted by last name.
func (d *Directory) MembersOf(ctx context.Context, year string) ([]collections.Member, error) {
	return d.db.MembersByClassYear(ctx, year)
}

// Member returns one member with the same profile merge List applies.
func (d *Directory) Member(ctx context.Context, id string) (*collections.Member, error) {
	member, err := d.db.MemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.fillFromProfile(ctx, member)
	return member, nil
}

// fillFromProfile backfills missing denormalized fields from the claiming
// user. A lookup failure only means the member renders with seed data.
func (d *Directory) fillFromProfile(ctx context.Context, m *collections.Member) {
	if !m.IsClaimed || m.ClaimedBy == "" || m.Username != "" {
		return
	}
	user, err := d.db.UserByID(ctx, m.ClaimedBy)
	if err != nil {
		log.Printf("could not load profile %s for member %s: %v", m.ClaimedBy, m.ID, err)
		return
	}
	m.Username = user.Username
	m.Email = user.Email
	m.Bio = user.Bio
	m.Hometown = user.Hometown
	m.CurrentLocation = user.CurrentLocation
	m.ProfilePicture = user.ProfilePicture
}

// Sort orders members by class year descending, then last name ascending.
// Year labels compare as strings, which matches for four-digit years.
func Sort(members []collections.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].ClassYear != members[j].ClassYear {
			return members[i].ClassYear > members[j].ClassYear
		}
		return members[i].LastName < members[j].LastName
	})
}

// Add appends a single member, gated by the passphrase. The phrase is
// re-checked here even if the caller verified it earlier.
func (d *Directory) Add(ctx context.Context, firstName, lastName, classYear, phrase string) (*collections.Member, error) {
	if !passphrase.Accept(phrase) {
		return nil, ErrBadPassphrase
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, ErrMissingName
	}
	if classYear == "" {
		return nil, ErrMissingYear
	}
	member := collections.Member{
		FirstName: firstName,
		LastName:  lastName,
		ClassYear: classYear,
	}
	id, err := d.db.AddMember(ctx, member)
	if err != nil {
		return nil, err
	}
	member.ID = id
	return &member, nil
}

// BulkAdd parses a comma or newline delimited list of names and inserts a
// member per name under the given class year. The first whitespace token of
// each name is the first name and the remainder the last name. Empty entries
// are skipped. Used by the admin console only; no passphrase gate.
func (d *Directory) BulkAdd(ctx context.Context, names, classYear string) ([]collections.Member, error) {
	if classYear == "" {
		return nil, ErrMissingYear
	}
	var added []collections.Member
	for _, raw := range splitNames(names) {
		first, last := splitName(raw)
		if first == "" {
			continue
		}
		member := collections.Member{
			FirstName: first,
			LastName:  last,
			ClassYear: classYear,
		}
		id, err := d.db.AddMember(ctx, member)
		if err != nil {
			return added, err
		}
		member.ID = id
		added = append(added, member)
	}
	return added, nil
}

func splitNames(names string) []string {
	return strings.FieldsFunc(names, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
}

func splitName(raw string) (first, last string) {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Classes returns the class year labels sorted ascending. An empty collection
// is seeded with the default years first.
func (d *Directory) Classes(ctx context.Context) ([]collections.ClassYear, error) {
	classes, err := d.db.AllClassYears(ctx)
	if err != nil {
		return nil, err
	}
	if len(classes) > 0 {
		return classes, nil
	}
	for _, year := range defaultYears {
		class := collections.ClassYear{Year: year}
		id, err := d.db.AddClassYear(ctx, class)
		if err != nil {
			return classes, err
		}
		class.ID = id
		classes = append(classes, class)
	}
	return classes, nil
}

// AddClass appends a class year label, gated by the passphrase. Duplicate
// years are not rejected; concurrent adds of the same label both land and
// only affect display order.
func (d *Directory) AddClass(ctx context.Context, year, phrase string) (*collections.ClassYear, error) {
	if !passphrase.Accept(phrase) {
		return nil, ErrBadPassphrase
	}
	year = strings.TrimSpace(year)
	if year == "" {
		return nil, ErrMissingYear
	}
	class := collections.ClassYear{Year: year}
	id, err := d.db.AddClassYear(ctx, class)
	if err != nil {
		return nil, err
	}
	class.ID = id
	return &class, nil
}
