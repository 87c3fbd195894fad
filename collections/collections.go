// Package collections contains data structures and constants relating to Firestore collections and their entry
// structures/keys/values, as well as structs that define what is returned to clients.
package collections

import "time"

// The ids of the top level collections in Firestore, plus the subcollections
// nested under a post document.
const (
	MembersID     = "members"
	UsersID       = "users"
	PostsID       = "posts"
	CommentsID    = "comments"
	LikesID       = "likes"
	MemoriesID    = "memories"
	NewslettersID = "newsletters"
	ClassesID     = "classes"
)

// Standard keys for fields that are queried or updated by path.
const (
	ClassYearKey = "classYear"
	LastNameKey  = "lastName"
	ClaimedByKey = "claimedBy"
	IsClaimedKey = "isClaimed"
	UserIDKey    = "userId"
	YearKey      = "year"
	PhotosKey    = "photos"
	UpdatedAtKey = "updatedAt"
	CreatedAtKey = "createdAt"
)

// Member is a roster seed record. Profile fields past the claim block are
// denormalized copies from the claiming user, re-synced on profile edits.
type Member struct {
	ID        string `firestore:"-" json:"id"`
	FirstName string `firestore:"firstName" json:"firstName"`
	LastName  string `firestore:"lastName" json:"lastName"`
	ClassYear string `firestore:"classYear" json:"classYear"`
	IsClaimed bool   `firestore:"isClaimed" json:"isClaimed"`

	// ClaimedBy holds the Firebase UID of the claiming account once claimed.
	ClaimedBy string `firestore:"claimedBy,omitempty" json:"claimedBy,omitempty"`
	// ClaimKey identifies the claim attempt that bound this record, so a
	// retried claim can recognize its own partial prior attempt.
	ClaimKey  string    `firestore:"claimKey,omitempty" json:"-"`
	ClaimedAt time.Time `firestore:"claimedAt,omitempty" json:"-"`

	Username        string      `firestore:"username,omitempty" json:"username,omitempty"`
	Email           string      `firestore:"email,omitempty" json:"email,omitempty"`
	Bio             string      `firestore:"bio,omitempty" json:"bio,omitempty"`
	Hometown        string      `firestore:"hometown,omitempty" json:"hometown,omitempty"`
	CurrentLocation interface{} `firestore:"currentLocation,omitempty" json:"currentLocation,omitempty"`
	ProfilePicture  string      `firestore:"profilePicture,omitempty" json:"profilePicture,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"-"`
}

// User is the profile document for an authenticated account, keyed by the
// Firebase UID.
type User struct {
	ID        string `firestore:"-" json:"id"`
	MemberID  string `firestore:"memberId,omitempty" json:"memberId,omitempty"`
	FirstName string `firestore:"firstName" json:"firstName"`
	LastName  string `firestore:"lastName" json:"lastName"`
	Username  string `firestore:"username" json:"username"`
	ClassYear string `firestore:"classYear" json:"classYear"`
	Email     string `firestore:"email" json:"email"`
	IsAdmin   bool   `firestore:"isAdmin" json:"isAdmin"`

	Bio             string      `firestore:"bio,omitempty" json:"bio,omitempty"`
	Hometown        string      `firestore:"hometown,omitempty" json:"hometown,omitempty"`
	CurrentLocation interface{} `firestore:"currentLocation,omitempty" json:"currentLocation,omitempty"`
	ProfilePicture  string      `firestore:"profilePicture,omitempty" json:"profilePicture,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"-"`
}

// Post is a blog entry. AuthorID is immutable once set.
type Post struct {
	ID            string    `firestore:"-" json:"id"`
	Title         string    `firestore:"title" json:"title"`
	Content       string    `firestore:"content" json:"content"`
	Excerpt       string    `firestore:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage string    `firestore:"featuredImage,omitempty" json:"featuredImage,omitempty"`
	AuthorID      string    `firestore:"authorId" json:"authorId"`
	AuthorName    string    `firestore:"authorName" json:"authorName"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// Comment lives in the comments subcollection of a post.
type Comment struct {
	ID         string    `firestore:"-" json:"id"`
	Content    string    `firestore:"content" json:"content"`
	AuthorID   string    `firestore:"authorId" json:"authorId"`
	AuthorName string    `firestore:"authorName" json:"authorName"`
	CreatedAt  time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Like lives in the likes subcollection of a post. At most one Like exists
// per (post, user) pair; the toggle flow maintains that invariant.
type Like struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// Memory is a photo album. Photos keeps insertion order; appends and removals
// go through ArrayUnion/ArrayRemove so each is atomic on the document.
type Memory struct {
	ID          string    `firestore:"-" json:"id"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description,omitempty" json:"description,omitempty"`
	ClassYear   string    `firestore:"classYear" json:"classYear"`
	Photos      []string  `firestore:"photos" json:"photos"`
	Links       []string  `firestore:"links,omitempty" json:"links,omitempty"`
	AuthorID    string    `firestore:"authorId" json:"authorId"`
	AuthorName  string    `firestore:"authorName" json:"authorName"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Newsletter references an uploaded PDF on the media host.
type Newsletter struct {
	ID         string    `firestore:"-" json:"id"`
	Title      string    `firestore:"title" json:"title"`
	PDFURL     string    `firestore:"pdfUrl" json:"pdfUrl"`
	IssueDate  string    `firestore:"issueDate" json:"issueDate"`
	AuthorID   string    `firestore:"authorId" json:"authorId"`
	AuthorName string    `firestore:"authorName" json:"authorName"`
	CreatedAt  time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// ClassYear is a label record used to populate selection menus.
type ClassYear struct {
	ID        string    `firestore:"-" json:"id"`
	Year      string    `firestore:"year" json:"year"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"-"`
}

// ClaimBinding carries everything the claim transaction writes: the fields
// stamped onto the member document and the new user profile document.
type ClaimBinding struct {
	UID      string
	Username string
	Email    string
	ClaimKey string
	Profile  User
}
