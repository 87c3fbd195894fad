// Package resync propagates profile edits back onto the claimed roster
// record through Pub/Sub. Member documents carry denormalized copies of the
// profile fields; the subscriber rewrites them whenever a user saves an edit,
// so the directory stays readable for signed-out visitors.
package resync

import (
	log "barchive/cloudlog"
	"barchive/collections"
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"
)

const (
	topicID        = "barchive_profile_sync"
	subscriptionID = "barchive_profile_sync_worker"
)

// Message asks the worker to copy the user's profile onto their member record.
type Message struct {
	UID      string `json:"uid"`
	MemberID string `json:"memberId"`
}

// Publisher queues re-sync requests. A nil Publisher drops them, which only
// delays the sync until the next edit.
type Publisher struct {
	topic *pubsub.Topic
}

// NewPublisher connects to Pub/Sub. A connection failure is logged and gives
// a nil Publisher; profile edits still land, only the member copy goes stale.
func NewPublisher(ctx context.Context, projectID string) *Publisher {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Printf("failed to start pubsub client: %s", err.Error())
		return nil
	}
	return &Publisher{topic: client.Topic(topicID)}
}

// Request queues one re-sync for the given user and member pair.
func (p *Publisher) Request(ctx context.Context, uid, memberID string) {
	if p == nil || p.topic == nil {
		return
	}
	msg := Message{UID: uid, MemberID: memberID}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("error marshalling re-sync message %#v: %s", msg, err.Error())
		return
	}
	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	go func() {
		if _, err := result.Get(context.Background()); err != nil {
			log.Printf("re-sync publish for member %s failed: %v", memberID, err)
		}
	}()
}

// datastore is the slice of storage the worker needs. storage.DB satisfies it.
type datastore interface {
	UserByID(ctx context.Context, uid string) (*collections.User, error)
	UpdateMember(ctx context.Context, id string, fields map[string]interface{}) error
}

// Subscriber applies re-sync requests.
type Subscriber struct {
	sub *pubsub.Subscription
	db  datastore
}

// NewSubscriber connects the worker to its subscription.
func NewSubscriber(ctx context.Context, projectID string, db datastore) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Subscriber{sub: client.Subscription(subscriptionID), db: db}, nil
}

// Run receives until ctx is cancelled. Failed messages are nacked and
// redelivered; the copy is idempotent so retries are safe.
func (s *Subscriber) Run(ctx context.Context) error {
	return s.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if s.process(ctx, m.Data) {
			m.Nack()
			return
		}
		m.Ack()
	})
}

// process handles one message and reports whether it should be redelivered.
// Malformed messages and messages without a member reference are dropped;
// nacking those would poison the subscription with endless redeliveries.
func (s *Subscriber) process(ctx context.Context, data []byte) (retry bool) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("dropping unreadable re-sync message: %v", err)
		return false
	}
	if msg.MemberID == "" {
		log.Printf("dropping re-sync message for %s with no member reference", msg.UID)
		return false
	}
	if err := s.apply(ctx, msg); err != nil {
		log.Printf("re-sync for member %s failed: %v", msg.MemberID, err)
		return true
	}
	return false
}

// apply copies the denormalized profile fields onto the member record.
func (s *Subscriber) apply(ctx context.Context, msg Message) error {
	user, err := s.db.UserByID(ctx, msg.UID)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{
		"username":       user.Username,
		"email":          user.Email,
		"bio":            user.Bio,
		"hometown":       user.Hometown,
		"profilePicture": user.ProfilePicture,
	}
	if user.CurrentLocation != nil {
		fields["currentLocation"] = user.CurrentLocation
	}
	return s.db.UpdateMember(ctx, msg.MemberID, fields)
}
