package feed

import "time"

// Event kinds broadcast to connected clients.
const (
	EventPostCreated    = "postCreated"
	EventCommentAdded   = "commentAdded"
	EventLikeToggled    = "likeToggled"
	EventMemoryCreated  = "memoryCreated"
	EventNewsletterSent = "newsletterAdded"
	EventPresence       = "presence"
)

// Event is one activity notification pushed over the feed socket.
type Event struct {
	Kind      string `json:"kind"`
	EntityID  string `json:"entityId,omitempty"`
	ActorName string `json:"actorName,omitempty"`
	Title     string `json:"title,omitempty"`
	// Online carries the connected member count on presence events.
	Online int       `json:"online,omitempty"`
	SentAt time.Time `json:"sentAt"`
}
