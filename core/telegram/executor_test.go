package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/convobot/core/queue"

	tele "gopkg.in/telebot.v4"
)

type apiCall struct {
	method string
	to     tele.Recipient
	msg    tele.Editable
	what   interface{}
	opts   *tele.SendOptions
}

type fakeAPI struct {
	calls  []apiCall
	nextID int
	err    error
}

func (f *fakeAPI) sendOpts(opts []interface{}) *tele.SendOptions {
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			return so
		}
	}
	return nil
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.calls = append(f.calls, apiCall{method: "send", to: to, what: what, opts: f.sendOpts(opts)})
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeAPI) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.calls = append(f.calls, apiCall{method: "edit", msg: msg, what: what, opts: f.sendOpts(opts)})
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	f.calls = append(f.calls, apiCall{method: "delete", msg: msg})
	return f.err
}

func newTestExecutor(t *testing.T) (*Executor, *fakeAPI, *queue.Tags) {
	t.Helper()
	api := &fakeAPI{}
	tags := queue.NewTags()
	exec, err := NewExecutor(api, tags)
	require.NoError(t, err)
	return exec, api, tags
}

func TestExecutorSendMessageSavesTag(t *testing.T) {
	exec, api, tags := newTestExecutor(t)

	task, err := queue.NewMessageTask(10, queue.MessageParams{Text: "hola", Save: "greet"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	require.Equal(t, "send", call.method)
	require.Equal(t, tele.ChatID(10), call.to)
	require.Equal(t, "hola", call.what)

	id, ok := tags.Resolve("greet")
	require.True(t, ok)
	require.Equal(t, 1, id)
}

func TestExecutorEditRoundTrip(t *testing.T) {
	exec, api, tags := newTestExecutor(t)
	tags.Save("greet", 55)

	task, err := queue.NewEditTask(10, queue.EditParams{MessageTag: "greet", Text: "edited"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	require.Equal(t, "edit", call.method)
	stored, ok := call.msg.(tele.StoredMessage)
	require.True(t, ok)
	require.Equal(t, "55", stored.MessageID)
	require.Equal(t, int64(10), stored.ChatID)
	require.Equal(t, "edited", call.what)
}

func TestExecutorUnresolvedTagSkipsTask(t *testing.T) {
	exec, api, _ := newTestExecutor(t)

	edit, err := queue.NewEditTask(10, queue.EditParams{MessageTag: "nope", Text: "x"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), edit))

	del, err := queue.NewDeleteTask(10, queue.DeleteParams{MessageTag: "nope"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), del))

	reply, err := queue.NewMessageTask(10, queue.MessageParams{Text: "x", ReplyToTag: "nope"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), reply))

	require.Empty(t, api.calls, "unresolved tags must not reach the transport")
}

func TestExecutorDeleteRemovesTag(t *testing.T) {
	exec, api, tags := newTestExecutor(t)
	tags.Save("tmp", 7)

	task, err := queue.NewDeleteTask(10, queue.DeleteParams{MessageTag: "tmp"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	require.Equal(t, "delete", api.calls[0].method)
	_, ok := tags.Resolve("tmp")
	require.False(t, ok)
}

func TestExecutorReplyToResolvesTag(t *testing.T) {
	exec, api, tags := newTestExecutor(t)
	tags.Save("orig", 33)

	task, err := queue.NewMessageTask(10, queue.MessageParams{Text: "re", ReplyToTag: "orig"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	opts := api.calls[0].opts
	require.NotNil(t, opts)
	require.NotNil(t, opts.ReplyTo)
	require.Equal(t, 33, opts.ReplyTo.ID)
}

func TestExecutorSendPhoto(t *testing.T) {
	exec, api, tags := newTestExecutor(t)

	task, err := queue.NewPhotoTask(10, queue.MediaParams{FileID: "file-1", Caption: "pic", Save: "photo"})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	photo, ok := api.calls[0].what.(*tele.Photo)
	require.True(t, ok)
	require.Equal(t, "file-1", photo.FileID)
	require.Equal(t, "pic", photo.Caption)

	_, ok = tags.Resolve("photo")
	require.True(t, ok)
}

func TestExecutorSendQuizPoll(t *testing.T) {
	exec, api, _ := newTestExecutor(t)

	task, err := queue.NewPollTask(10, queue.PollParams{
		Question:      "2+2?",
		Options:       []string{"3", "4"},
		Quiz:          true,
		CorrectOption: 1,
		Explanation:   "arithmetic",
	})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	require.Len(t, api.calls, 1)
	poll, ok := api.calls[0].what.(*tele.Poll)
	require.True(t, ok)
	require.Equal(t, tele.PollQuiz, poll.Type)
	require.Equal(t, 1, poll.CorrectOption)
	require.Len(t, poll.Options, 2)
}

func TestExecutorKeyboardMarkup(t *testing.T) {
	exec, api, _ := newTestExecutor(t)

	task, err := queue.NewMessageTask(10, queue.MessageParams{
		Text:   "pick",
		Markup: queue.Markup{Inline: queue.InlineKeyboard{{{Text: "Go", Data: "go"}}}},
	})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(context.Background(), task))

	opts := api.calls[0].opts
	require.NotNil(t, opts)
	require.NotNil(t, opts.ReplyMarkup)
	require.Len(t, opts.ReplyMarkup.InlineKeyboard, 1)
	require.Equal(t, "Go", opts.ReplyMarkup.InlineKeyboard[0][0].Text)
}

func TestExecutorUnknownKind(t *testing.T) {
	exec, _, _ := newTestExecutor(t)

	err := exec.Execute(context.Background(), queue.Task{UserID: 1, Kind: "sticker"})
	var unknown *queue.UnknownActionError
	require.ErrorAs(t, err, &unknown)
}

func TestExecutorPropagatesTransportErrors(t *testing.T) {
	api := &fakeAPI{err: errors.New("telegram: bad request (400)")}
	exec, err := NewExecutor(api, queue.NewTags())
	require.NoError(t, err)

	task, err := queue.NewMessageTask(1, queue.MessageParams{Text: "x", Save: "t"})
	require.NoError(t, err)

	execErr := exec.Execute(context.Background(), task)
	require.Error(t, execErr)
	_, ok := exec.Tags().Resolve("t")
	require.False(t, ok, "failed sends must not save tags")
}
