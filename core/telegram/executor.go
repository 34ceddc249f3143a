package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/queue"
	"github.com/m3rciful/convobot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// API is the slice of the Telebot surface the executor needs. *tele.Bot
// satisfies it; tests substitute a fake.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Executor translates queued tasks into Telegram API calls and maintains the
// saved-message tag registry. One instance is shared by the whole bot.
type Executor struct {
	api  API
	tags *queue.Tags
}

// NewExecutor builds an executor over the given API client and tag registry.
func NewExecutor(api API, tags *queue.Tags) (*Executor, error) {
	if api == nil {
		return nil, errors.New("telegram: executor requires an api client")
	}
	if tags == nil {
		tags = queue.NewTags()
	}
	return &Executor{api: api, tags: tags}, nil
}

// Tags exposes the saved-message registry, mainly for lifecycle hooks and tests.
func (e *Executor) Tags() *queue.Tags { return e.tags }

// Execute performs one outbound task. Tasks referencing a tag that was never
// saved (or was already deleted) are skipped with a warning rather than
// failed: the conversation moved on and there is nothing to act upon.
func (e *Executor) Execute(ctx context.Context, t queue.Task) error {
	switch t.Kind {
	case queue.ActionMessage:
		return e.sendMessage(ctx, t)
	case queue.ActionEdit:
		return e.editMessage(ctx, t)
	case queue.ActionDelete:
		return e.deleteMessage(ctx, t)
	case queue.ActionPhoto, queue.ActionDocument, queue.ActionVideo:
		return e.sendMedia(ctx, t)
	case queue.ActionPoll:
		return e.sendPoll(ctx, t)
	default:
		return &queue.UnknownActionError{Kind: t.Kind}
	}
}

func (e *Executor) sendMessage(ctx context.Context, t queue.Task) error {
	p := t.Message
	opts := &tele.SendOptions{
		ParseMode:             tele.ParseMode(p.ParseMode),
		DisableWebPagePreview: p.DisablePreview,
		DisableNotification:   p.DisableNotification,
		Protected:             p.Protected,
		ReplyMarkup:           keyboard.FromMarkup(p.Markup),
	}
	if p.ReplyToTag != "" {
		replyTo, ok := e.replyTarget(ctx, t.UserID, p.ReplyToTag)
		if !ok {
			return nil
		}
		opts.ReplyTo = replyTo
	}

	msg, err := e.api.Send(tele.ChatID(t.UserID), p.Text, opts)
	if err != nil {
		return err
	}
	e.saveTag(ctx, p.Save, msg)
	return nil
}

func (e *Executor) editMessage(ctx context.Context, t queue.Task) error {
	p := t.Edit
	id, ok := e.tags.Resolve(p.MessageTag)
	if !ok {
		e.warnMissingTag(ctx, t, p.MessageTag)
		return nil
	}

	opts := &tele.SendOptions{
		ParseMode:             tele.ParseMode(p.ParseMode),
		DisableWebPagePreview: p.DisablePreview,
		ReplyMarkup:           keyboard.FromMarkup(p.Markup),
	}
	stored := tele.StoredMessage{MessageID: strconv.Itoa(id), ChatID: t.UserID}
	msg, err := e.api.Edit(stored, p.Text, opts)
	if err != nil {
		return err
	}
	if p.Save != "" && p.Save != p.MessageTag {
		e.saveTag(ctx, p.Save, msg)
	}
	return nil
}

func (e *Executor) deleteMessage(ctx context.Context, t queue.Task) error {
	p := t.Delete
	id, ok := e.tags.Resolve(p.MessageTag)
	if !ok {
		e.warnMissingTag(ctx, t, p.MessageTag)
		return nil
	}

	stored := tele.StoredMessage{MessageID: strconv.Itoa(id), ChatID: t.UserID}
	if err := e.api.Delete(stored); err != nil {
		return err
	}
	e.tags.Delete(p.MessageTag)
	return nil
}

func (e *Executor) sendMedia(ctx context.Context, t queue.Task) error {
	p := t.Media
	file := tele.File{FileID: p.FileID}

	var payload interface{}
	switch t.Kind {
	case queue.ActionPhoto:
		payload = &tele.Photo{File: file, Caption: p.Caption}
	case queue.ActionDocument:
		payload = &tele.Document{File: file, Caption: p.Caption}
	default:
		payload = &tele.Video{File: file, Caption: p.Caption}
	}

	opts := &tele.SendOptions{
		ParseMode:           tele.ParseMode(p.ParseMode),
		DisableNotification: p.DisableNotification,
		Protected:           p.Protected,
		ReplyMarkup:         keyboard.FromMarkup(p.Markup),
	}
	if p.ReplyToTag != "" {
		replyTo, ok := e.replyTarget(ctx, t.UserID, p.ReplyToTag)
		if !ok {
			return nil
		}
		opts.ReplyTo = replyTo
	}

	msg, err := e.api.Send(tele.ChatID(t.UserID), payload, opts)
	if err != nil {
		return err
	}
	e.saveTag(ctx, p.Save, msg)
	return nil
}

func (e *Executor) sendPoll(ctx context.Context, t queue.Task) error {
	p := t.Poll
	poll := &tele.Poll{
		Question:        p.Question,
		Type:            tele.PollRegular,
		Anonymous:       p.Anonymous,
		MultipleAnswers: p.MultipleAnswers,
		OpenPeriod:      p.OpenPeriod,
	}
	if p.Quiz {
		poll.Type = tele.PollQuiz
		poll.CorrectOption = p.CorrectOption
		poll.Explanation = p.Explanation
		poll.ParseMode = tele.ParseMode(p.ExplanationParseMode)
	}
	poll.AddOptions(p.Options...)

	opts := &tele.SendOptions{
		ReplyMarkup: keyboard.FromMarkup(p.Markup),
	}
	if p.ReplyToTag != "" {
		replyTo, ok := e.replyTarget(ctx, t.UserID, p.ReplyToTag)
		if !ok {
			return nil
		}
		opts.ReplyTo = replyTo
	}

	msg, err := e.api.Send(tele.ChatID(t.UserID), poll, opts)
	if err != nil {
		return err
	}
	e.saveTag(ctx, p.Save, msg)
	return nil
}

func (e *Executor) replyTarget(ctx context.Context, userID int64, tag string) (*tele.Message, bool) {
	id, ok := e.tags.Resolve(tag)
	if !ok {
		logger.Warn(ctx, "tg", "task.tag_missing",
			slog.String("tag", tag),
			slog.Int64("user_id", userID),
		)
		return nil, false
	}
	return &tele.Message{ID: id, Chat: &tele.Chat{ID: userID}}, true
}

func (e *Executor) warnMissingTag(ctx context.Context, t queue.Task, tag string) {
	logger.Warn(ctx, "tg", "task.tag_missing",
		slog.String("action", string(t.Kind)),
		slog.String("tag", tag),
		slog.Int64("user_id", t.UserID),
	)
}

func (e *Executor) saveTag(ctx context.Context, tag string, msg *tele.Message) {
	if tag == "" || msg == nil {
		return
	}
	e.tags.Save(tag, msg.ID)
	logger.Debug(ctx, "tg", "task.tag_saved",
		slog.String("tag", tag),
		slog.Int("message_id", msg.ID),
	)
}
