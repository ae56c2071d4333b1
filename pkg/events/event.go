package events

import "time"

const (
	UserRegistered        = "USER_REGISTERED"
	UserLogin             = "USER_LOGIN"
	FeedbackSubmitted     = "FEEDBACK_SUBMITTED"
	FeedbackStatusChanged = "FEEDBACK_STATUS_CHANGED"
	RecognitionRecorded   = "RECOGNITION_RECORDED"
	KnowledgeChanged      = "KNOWLEDGE_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "USER_LOGIN").
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// BaseEvent is the only Event implementation; it is also the wire shape
// used on the in-process bus and on NATS.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, at time.Time, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
