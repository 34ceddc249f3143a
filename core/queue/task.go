package queue

import (
	"errors"
	"fmt"
)

// ActionKind tags the closed set of outbound actions.
type ActionKind string

const (
	// ActionMessage sends a text message.
	ActionMessage ActionKind = "message"
	// ActionEdit edits a previously saved message.
	ActionEdit ActionKind = "editmessage"
	// ActionDelete deletes a previously saved message.
	ActionDelete ActionKind = "delete"
	// ActionPhoto sends a photo.
	ActionPhoto ActionKind = "photo"
	// ActionDocument sends a document.
	ActionDocument ActionKind = "document"
	// ActionVideo sends a video.
	ActionVideo ActionKind = "video"
	// ActionPoll sends a poll or quiz.
	ActionPoll ActionKind = "poll"
	// ActionRun feeds a synthetic event back into the engine.
	ActionRun ActionKind = "run"
)

// ErrKeyboardConflict marks a task configured with both a reply keyboard and
// an inline keyboard. The task is rejected at construction and never reaches
// the transport.
var ErrKeyboardConflict = errors.New("queue: keyboard and inline_keyboard are mutually exclusive")

// ErrMissingTag marks an edit/delete task built without its required
// saved-message tag.
var ErrMissingTag = errors.New("queue: message tag is required")

// UnknownActionError reports a task whose kind has no executor branch.
// The consumer logs it and drops the task.
type UnknownActionError struct {
	Kind ActionKind
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("queue: unknown action kind %q", string(e.Kind))
}

// Keyboard is a reply keyboard: rows of button captions.
type Keyboard [][]string

// InlineButton is one inline keyboard button.
type InlineButton struct {
	Text string
	Data string
}

// InlineKeyboard is rows of inline buttons.
type InlineKeyboard [][]InlineButton

// Markup carries the keyboard options shared by sendable tasks. Keyboard and
// Inline are mutually exclusive; RemoveKeyboard overrides Keyboard but also
// conflicts with Inline.
type Markup struct {
	Keyboard       Keyboard
	Inline         InlineKeyboard
	RemoveKeyboard bool
}

func (m Markup) validate() error {
	if len(m.Inline) > 0 && (len(m.Keyboard) > 0 || m.RemoveKeyboard) {
		return ErrKeyboardConflict
	}
	return nil
}

// MessageParams configures an ActionMessage task.
type MessageParams struct {
	Text                string
	ParseMode           string
	DisablePreview      bool
	DisableNotification bool
	Protected           bool
	// ReplyToTag references a saved message to reply to.
	ReplyToTag string
	Markup
	// Save stores the sent message id under this tag for later edit/delete.
	Save string
}

// EditParams configures an ActionEdit task. MessageTag is required.
type EditParams struct {
	MessageTag     string
	Text           string
	ParseMode      string
	DisablePreview bool
	Markup
	Save string
}

// DeleteParams configures an ActionDelete task. MessageTag is required.
type DeleteParams struct {
	MessageTag string
}

// MediaParams configures photo, document, and video tasks.
type MediaParams struct {
	FileID              string
	Caption             string
	ParseMode           string
	DisableNotification bool
	Protected           bool
	ReplyToTag          string
	Markup
	Save string
}

// PollParams configures an ActionPoll task.
type PollParams struct {
	Question             string
	Options              []string
	Quiz                 bool
	CorrectOption        int
	Anonymous            bool
	OpenPeriod           int
	MultipleAnswers      bool
	Explanation          string
	ExplanationParseMode string
	ReplyToTag           string
	Markup
	Save string
}

// RunParams configures an ActionRun task: the free-form payload handed to the
// synthetic step scheduled by the task.
type RunParams struct {
	Payload map[string]any
}

// Task is one queued outbound action. Exactly one of the parameter fields is
// set, matching Kind. Tasks are built through the New*Task constructors so
// configuration errors surface before enqueueing.
type Task struct {
	UserID int64
	Kind   ActionKind

	Message *MessageParams
	Edit    *EditParams
	Delete  *DeleteParams
	Media   *MediaParams
	Poll    *PollParams
	Run     *RunParams
}

// NewMessageTask builds a text message task.
func NewMessageTask(userID int64, p MessageParams) (Task, error) {
	if err := p.Markup.validate(); err != nil {
		return Task{}, err
	}
	return Task{UserID: userID, Kind: ActionMessage, Message: &p}, nil
}

// NewEditTask builds an edit task referencing a saved message.
func NewEditTask(userID int64, p EditParams) (Task, error) {
	if p.MessageTag == "" {
		return Task{}, ErrMissingTag
	}
	if err := p.Markup.validate(); err != nil {
		return Task{}, err
	}
	return Task{UserID: userID, Kind: ActionEdit, Edit: &p}, nil
}

// NewDeleteTask builds a delete task referencing a saved message.
func NewDeleteTask(userID int64, p DeleteParams) (Task, error) {
	if p.MessageTag == "" {
		return Task{}, ErrMissingTag
	}
	return Task{UserID: userID, Kind: ActionDelete, Delete: &p}, nil
}

// NewPhotoTask builds a photo task.
func NewPhotoTask(userID int64, p MediaParams) (Task, error) {
	return newMediaTask(userID, ActionPhoto, p)
}

// NewDocumentTask builds a document task.
func NewDocumentTask(userID int64, p MediaParams) (Task, error) {
	return newMediaTask(userID, ActionDocument, p)
}

// NewVideoTask builds a video task.
func NewVideoTask(userID int64, p MediaParams) (Task, error) {
	return newMediaTask(userID, ActionVideo, p)
}

func newMediaTask(userID int64, kind ActionKind, p MediaParams) (Task, error) {
	if err := p.Markup.validate(); err != nil {
		return Task{}, err
	}
	return Task{UserID: userID, Kind: kind, Media: &p}, nil
}

// NewPollTask builds a poll task.
func NewPollTask(userID int64, p PollParams) (Task, error) {
	if err := p.Markup.validate(); err != nil {
		return Task{}, err
	}
	return Task{UserID: userID, Kind: ActionPoll, Poll: &p}, nil
}

// NewRunTask schedules a synthetic engine step for the user. The consumer
// feeds it back through the stepper instead of sending it to the transport.
func NewRunTask(userID int64, payload map[string]any) Task {
	return Task{UserID: userID, Kind: ActionRun, Run: &RunParams{Payload: payload}}
}
