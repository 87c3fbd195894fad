// Package storage wraps the Firestore client behind typed accessors for the
// archive's collections. Services depend on narrow interfaces that this
// package's DB satisfies, so tests can drop in fakes without touching
// Firestore.
package storage

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// DB represents the Firestore database, and contains functions for interacting with it.
	DB *archiveStorage

	// ErrNotFound is given when a document of the requested id does not exist.
	ErrNotFound = errors.New("could not find the document")
	// ErrAlreadyClaimed is given when a claim transaction finds the member
	// already bound to an account.
	ErrAlreadyClaimed = errors.New("member is already claimed")
)

type archiveStorage struct {
	app    *firebase.App
	client *firestore.Client

	members     *firestore.CollectionRef
	users       *firestore.CollectionRef
	posts       *firestore.CollectionRef
	memories    *firestore.CollectionRef
	newsletters *firestore.CollectionRef
	classes     *firestore.CollectionRef
}

// Init connects to Firestore for the given project and prepares the top level
// collection references. It must be called before DB is used.
func Init(projectID string) error {
	DB = &archiveStorage{}
	return DB.init(projectID)
}

func (as *archiveStorage) init(projectID string) error {
	var err error
	as.app, err = firebase.NewApp(context.Background(), nil)
	if err != nil {
		return err
	}
	as.client, err = firestore.NewClient(context.Background(), projectID)
	if err != nil {
		return err
	}

	as.initCollections()
	return nil
}

func (as *archiveStorage) initCollections() {
	as.members = as.client.Collection(collections.MembersID)
	as.users = as.client.Collection(collections.UsersID)
	as.posts = as.client.Collection(collections.PostsID)
	as.memories = as.client.Collection(collections.MemoriesID)
	as.newsletters = as.client.Collection(collections.NewslettersID)
	as.classes = as.client.Collection(collections.ClassesID)
}

// Close performs cleanup for closing storage connections.
func Close() {
	DB.client.Close()
}

// App exposes the Firebase app so the identity client can share it.
func App() *firebase.App {
	return DB.app
}

// getInto fetches a document into the provided struct pointer, mapping the
// Firestore NotFound status onto ErrNotFound so callers don't inspect gRPC
// codes themselves.
func getInto(ctx context.Context, docRef *firestore.DocumentRef, dataTo interface{}) error {
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return err
	}
	if !snapshot.Exists() {
		return ErrNotFound
	}
	return snapshot.DataTo(dataTo)
}

func (as *archiveStorage) addEntry(ctx context.Context, collection *firestore.CollectionRef, id string, data interface{}) (*firestore.DocumentRef, error) {
	var docRef *firestore.DocumentRef
	if id == "" {
		// Random IDs: nothing queries these documents by a predictable ID
		// and reads distribute better when they're random.
		docRef = collection.NewDoc()
	} else {
		docRef = collection.Doc(id)
	}

	_, err := docRef.Create(ctx, data)
	return docRef, err
}

// updatesFromFields turns a partial-field map into Firestore update paths and
// stamps updatedAt with the server clock.
func updatesFromFields(fields map[string]interface{}, stampUpdatedAt bool) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if stampUpdatedAt {
		updates = append(updates, firestore.Update{Path: collections.UpdatedAtKey, Value: firestore.ServerTimestamp})
	}
	return updates
}

// ----- members and classes -----

func (as *archiveStorage) AllMembers(ctx context.Context) ([]collections.Member, error) {
	docs, err := as.members.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	members := []collections.Member{}
	for _, doc := range docs {
		member := collections.Member{}
		if err := doc.DataTo(&member); err != nil {
			log.Printf("skipping malformed member %s: %v", doc.Ref.ID, err)
			continue
		}
		member.ID = doc.Ref.ID
		members = append(members, member)
	}
	return members, nil
}

func (as *archiveStorage) MembersByClassYear(ctx context.Context, year string) ([]collections.Member, error) {
	iter := as.members.
		Where(collections.ClassYearKey, "==", year).
		OrderBy(collections.LastNameKey, firestore.Asc).
		Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil {
		return nil, err
	}
	members := []collections.Member{}
	for _, doc := range docs {
		member := collections.Member{}
		if err := doc.DataTo(&member); err != nil {
			log.Printf("skipping malformed member %s: %v", doc.Ref.ID, err)
			continue
		}
		member.ID = doc.Ref.ID
		members = append(members, member)
	}
	return members, nil
}

func (as *archiveStorage) MemberByID(ctx context.Context, id string) (*collections.Member, error) {
	member := &collections.Member{}
	if err := getInto(ctx, as.members.Doc(id), member); err != nil {
		return nil, err
	}
	member.ID = id
	return member, nil
}

func (as *archiveStorage) AddMember(ctx context.Context, member collections.Member) (string, error) {
	docRef, err := as.addEntry(ctx, as.members, "", member)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

// MemberIDClaimedBy finds the roster record bound to the given account, or
// "" when the account never claimed one (admins, for instance).
func (as *archiveStorage) MemberIDClaimedBy(ctx context.Context, uid string) (string, error) {
	iter := as.members.Where(collections.ClaimedByKey, "==", uid).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Ref.ID, nil
}

// UpdateMember applies a partial-field merge to a member document. Used by
// the profile re-sync worker to copy denormalized fields.
func (as *archiveStorage) UpdateMember(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := as.members.Doc(id).Update(ctx, updatesFromFields(fields, false))
	return err
}

// BindClaim marks the member claimed and creates the user profile in one
// transaction, so either both records agree or neither write persists. The
// auth account itself is outside the transaction; the claim workflow
// compensates for it on failure.
func (as *archiveStorage) BindClaim(ctx context.Context, memberID string, binding collections.ClaimBinding) error {
	memberRef := as.members.Doc(memberID)
	userRef := as.users.Doc(binding.UID)
	return as.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(memberRef)
		if err != nil {
			return err
		}
		member := collections.Member{}
		if err := snapshot.DataTo(&member); err != nil {
			return err
		}
		if member.IsClaimed && member.ClaimKey != binding.ClaimKey {
			return ErrAlreadyClaimed
		}
		err = tx.Update(memberRef, []firestore.Update{
			{Path: collections.IsClaimedKey, Value: true},
			{Path: collections.ClaimedByKey, Value: binding.UID},
			{Path: "claimKey", Value: binding.ClaimKey},
			{Path: "username", Value: binding.Username},
			{Path: "email", Value: binding.Email},
			{Path: "claimedAt", Value: firestore.ServerTimestamp},
		})
		if err != nil {
			return err
		}
		return tx.Create(userRef, binding.Profile)
	})
}

func (as *archiveStorage) AllClassYears(ctx context.Context) ([]collections.ClassYear, error) {
	iter := as.classes.OrderBy(collections.YearKey, firestore.Asc).Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil {
		return nil, err
	}
	years := []collections.ClassYear{}
	for _, doc := range docs {
		year := collections.ClassYear{}
		if err := doc.DataTo(&year); err != nil {
			continue
		}
		year.ID = doc.Ref.ID
		years = append(years, year)
	}
	return years, nil
}

func (as *archiveStorage) AddClassYear(ctx context.Context, year collections.ClassYear) (string, error) {
	docRef, err := as.addEntry(ctx, as.classes, "", year)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

// ----- users -----

func (as *archiveStorage) UserByID(ctx context.Context, uid string) (*collections.User, error) {
	user := &collections.User{}
	if err := getInto(ctx, as.users.Doc(uid), user); err != nil {
		return nil, err
	}
	user.ID = uid
	return user, nil
}

func (as *archiveStorage) AllUsers(ctx context.Context) ([]collections.User, error) {
	docs, err := as.users.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	users := []collections.User{}
	for _, doc := range docs {
		user := collections.User{}
		if err := doc.DataTo(&user); err != nil {
			log.Printf("skipping malformed user %s: %v", doc.Ref.ID, err)
			continue
		}
		user.ID = doc.Ref.ID
		users = append(users, user)
	}
	return users, nil
}

// CreateProfile writes a user profile keyed by the account UID. Used by the
// admin setup path; claims go through BindClaim instead.
func (as *archiveStorage) CreateProfile(ctx context.Context, uid string, user collections.User) error {
	_, err := as.users.Doc(uid).Set(ctx, user)
	return err
}

func (as *archiveStorage) UpdateUser(ctx context.Context, uid string, fields map[string]interface{}) error {
	_, err := as.users.Doc(uid).Update(ctx, updatesFromFields(fields, false))
	return err
}

// ----- posts, comments, likes -----

func (as *archiveStorage) AllPosts(ctx context.Context) ([]collections.Post, error) {
	docs, err := as.posts.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	posts := []collections.Post{}
	for _, doc := range docs {
		post := collections.Post{}
		if err := doc.DataTo(&post); err != nil {
			log.Printf("skipping malformed post %s: %v", doc.Ref.ID, err)
			continue
		}
		post.ID = doc.Ref.ID
		posts = append(posts, post)
	}
	return posts, nil
}

func (as *archiveStorage) PostByID(ctx context.Context, id string) (*collections.Post, error) {
	post := &collections.Post{}
	if err := getInto(ctx, as.posts.Doc(id), post); err != nil {
		return nil, err
	}
	post.ID = id
	return post, nil
}

func (as *archiveStorage) AddPost(ctx context.Context, post collections.Post) (string, error) {
	docRef, err := as.addEntry(ctx, as.posts, "", post)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (as *archiveStorage) UpdatePost(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := as.posts.Doc(id).Update(ctx, updatesFromFields(fields, true))
	return err
}

func (as *archiveStorage) DeletePost(ctx context.Context, id string) error {
	_, err := as.posts.Doc(id).Delete(ctx)
	return err
}

func (as *archiveStorage) Comments(ctx context.Context, postID string) ([]collections.Comment, error) {
	iter := as.posts.Doc(postID).Collection(collections.CommentsID).
		OrderBy(collections.CreatedAtKey, firestore.Desc).
		Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil {
		return nil, err
	}
	comments := []collections.Comment{}
	for _, doc := range docs {
		comment := collections.Comment{}
		if err := doc.DataTo(&comment); err != nil {
			continue
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, comment)
	}
	return comments, nil
}

func (as *archiveStorage) CommentByID(ctx context.Context, postID, commentID string) (*collections.Comment, error) {
	comment := &collections.Comment{}
	docRef := as.posts.Doc(postID).Collection(collections.CommentsID).Doc(commentID)
	if err := getInto(ctx, docRef, comment); err != nil {
		return nil, err
	}
	comment.ID = commentID
	return comment, nil
}

func (as *archiveStorage) AddComment(ctx context.Context, postID string, comment collections.Comment) (string, error) {
	docRef, err := as.addEntry(ctx, as.posts.Doc(postID).Collection(collections.CommentsID), "", comment)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (as *archiveStorage) UpdateComment(ctx context.Context, postID, commentID string, fields map[string]interface{}) error {
	doc := as.posts.Doc(postID).Collection(collections.CommentsID).Doc(commentID)
	_, err := doc.Update(ctx, updatesFromFields(fields, true))
	return err
}

func (as *archiveStorage) DeleteComment(ctx context.Context, postID, commentID string) error {
	_, err := as.posts.Doc(postID).Collection(collections.CommentsID).Doc(commentID).Delete(ctx)
	return err
}

func (as *archiveStorage) Likes(ctx context.Context, postID string) ([]collections.Like, error) {
	docs, err := as.posts.Doc(postID).Collection(collections.LikesID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	likes := []collections.Like{}
	for _, doc := range docs {
		like := collections.Like{}
		if err := doc.DataTo(&like); err != nil {
			continue
		}
		like.ID = doc.Ref.ID
		likes = append(likes, like)
	}
	return likes, nil
}

// LikeByUser finds the like document for the (post, user) pair. The empty
// string means the user hasn't liked the post.
func (as *archiveStorage) LikeByUser(ctx context.Context, postID, userID string) (string, error) {
	iter := as.posts.Doc(postID).Collection(collections.LikesID).
		Where(collections.UserIDKey, "==", userID).
		Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Ref.ID, nil
}

func (as *archiveStorage) AddLike(ctx context.Context, postID string, like collections.Like) (string, error) {
	docRef, err := as.addEntry(ctx, as.posts.Doc(postID).Collection(collections.LikesID), "", like)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (as *archiveStorage) DeleteLike(ctx context.Context, postID, likeID string) error {
	_, err := as.posts.Doc(postID).Collection(collections.LikesID).Doc(likeID).Delete(ctx)
	return err
}

// ----- memories -----

func (as *archiveStorage) AllMemories(ctx context.Context) ([]collections.Memory, error) {
	docs, err := as.memories.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	memories := []collections.Memory{}
	for _, doc := range docs {
		memory := collections.Memory{}
		if err := doc.DataTo(&memory); err != nil {
			log.Printf("skipping malformed memory %s: %v", doc.Ref.ID, err)
			continue
		}
		memory.ID = doc.Ref.ID
		memories = append(memories, memory)
	}
	return memories, nil
}

func (as *archiveStorage) MemoryByID(ctx context.Context, id string) (*collections.Memory, error) {
	memory := &collections.Memory{}
	if err := getInto(ctx, as.memories.Doc(id), memory); err != nil {
		return nil, err
	}
	memory.ID = id
	return memory, nil
}

func (as *archiveStorage) AddMemory(ctx context.Context, memory collections.Memory) (string, error) {
	docRef, err := as.addEntry(ctx, as.memories, "", memory)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (as *archiveStorage) UpdateMemory(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := as.memories.Doc(id).Update(ctx, updatesFromFields(fields, true))
	return err
}

func (as *archiveStorage) DeleteMemory(ctx context.Context, id string) error {
	_, err := as.memories.Doc(id).Delete(ctx)
	return err
}

// AppendPhotos adds photo URLs to a memory via ArrayUnion, which is atomic
// on the document and preserves insertion order for new elements.
func (as *archiveStorage) AppendPhotos(ctx context.Context, id string, urls []string) error {
	values := make([]interface{}, len(urls))
	for i, url := range urls {
		values[i] = url
	}
	_, err := as.memories.Doc(id).Update(ctx, []firestore.Update{
		{Path: collections.PhotosKey, Value: firestore.ArrayUnion(values...)},
		{Path: collections.UpdatedAtKey, Value: firestore.ServerTimestamp},
	})
	return err
}

// RemovePhoto removes one photo URL from a memory via ArrayRemove.
func (as *archiveStorage) RemovePhoto(ctx context.Context, id, url string) error {
	_, err := as.memories.Doc(id).Update(ctx, []firestore.Update{
		{Path: collections.PhotosKey, Value: firestore.ArrayRemove(url)},
		{Path: collections.UpdatedAtKey, Value: firestore.ServerTimestamp},
	})
	return err
}

// ----- newsletters -----

func (as *archiveStorage) AllNewsletters(ctx context.Context) ([]collections.Newsletter, error) {
	docs, err := as.newsletters.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	newsletters := []collections.Newsletter{}
	for _, doc := range docs {
		newsletter := collections.Newsletter{}
		if err := doc.DataTo(&newsletter); err != nil {
			continue
		}
		newsletter.ID = doc.Ref.ID
		newsletters = append(newsletters, newsletter)
	}
	return newsletters, nil
}

func (as *archiveStorage) NewsletterByID(ctx context.Context, id string) (*collections.Newsletter, error) {
	newsletter := &collections.Newsletter{}
	if err := getInto(ctx, as.newsletters.Doc(id), newsletter); err != nil {
		return nil, err
	}
	newsletter.ID = id
	return newsletter, nil
}

func (as *archiveStorage) AddNewsletter(ctx context.Context, newsletter collections.Newsletter) (string, error) {
	docRef, err := as.addEntry(ctx, as.newsletters, "", newsletter)
	if err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (as *archiveStorage) DeleteNewsletter(ctx context.Context, id string) error {
	_, err := as.newsletters.Doc(id).Delete(ctx)
	return err
}
