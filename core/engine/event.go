package engine

// EventKind tags the closed set of inbound event shapes accepted by Step.
type EventKind string

const (
	// EventStart marks a /start style command with no payload.
	EventStart EventKind = "start"
	// EventText marks a plain text message.
	EventText EventKind = "text"
	// EventCallback marks an inline-button callback action.
	EventCallback EventKind = "callback"
	// EventPhoto marks an inbound photo with an optional caption.
	EventPhoto EventKind = "photo"
	// EventDocument marks an inbound document with an optional caption.
	EventDocument EventKind = "document"
	// EventVideo marks an inbound video with an optional caption.
	EventVideo EventKind = "video"
	// EventRun marks a synthetic step scheduled by a "run" task.
	EventRun EventKind = "run"
)

// Event is one immutable inbound occurrence fed into the engine.
// UserID is always set; the remaining fields depend on Kind.
// Behaviors receive the event read-only and must not retain it.
type Event struct {
	Kind   EventKind
	UserID int64

	// Message carries the text of an EventText event.
	Message string
	// CallbackData carries the token of an EventCallback event.
	CallbackData string
	// FileID references the platform file of a photo/document/video event.
	FileID string
	// Caption accompanies media events.
	Caption string
	// Payload is the free-form data of an EventRun event.
	Payload map[string]any
}

// NewStartEvent builds the event produced by the start command.
func NewStartEvent(userID int64) Event {
	return Event{Kind: EventStart, UserID: userID}
}

// NewTextEvent builds an event for a plain text message.
func NewTextEvent(userID int64, text string) Event {
	return Event{Kind: EventText, UserID: userID, Message: text}
}

// NewCallbackEvent builds an event for an inline-button press.
func NewCallbackEvent(userID int64, data string) Event {
	return Event{Kind: EventCallback, UserID: userID, CallbackData: data}
}

// NewPhotoEvent builds an event for an inbound photo.
func NewPhotoEvent(userID int64, fileID, caption string) Event {
	return Event{Kind: EventPhoto, UserID: userID, FileID: fileID, Caption: caption}
}

// NewDocumentEvent builds an event for an inbound document.
func NewDocumentEvent(userID int64, fileID, caption string) Event {
	return Event{Kind: EventDocument, UserID: userID, FileID: fileID, Caption: caption}
}

// NewVideoEvent builds an event for an inbound video.
func NewVideoEvent(userID int64, fileID, caption string) Event {
	return Event{Kind: EventVideo, UserID: userID, FileID: fileID, Caption: caption}
}

// NewRunEvent builds a synthetic event scheduled through the task queue.
func NewRunEvent(userID int64, payload map[string]any) Event {
	return Event{Kind: EventRun, UserID: userID, Payload: payload}
}
