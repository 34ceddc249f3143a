package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessageTaskRejectsKeyboardConflict(t *testing.T) {
	_, err := NewMessageTask(1, MessageParams{
		Text: "hi",
		Markup: Markup{
			Keyboard: Keyboard{{"yes", "no"}},
			Inline:   InlineKeyboard{{{Text: "Go", Data: "go"}}},
		},
	})
	require.ErrorIs(t, err, ErrKeyboardConflict)
}

func TestNewMessageTaskRejectsInlineWithRemoveKeyboard(t *testing.T) {
	_, err := NewMessageTask(1, MessageParams{
		Text: "hi",
		Markup: Markup{
			Inline:         InlineKeyboard{{{Text: "Go", Data: "go"}}},
			RemoveKeyboard: true,
		},
	})
	require.ErrorIs(t, err, ErrKeyboardConflict)
}

func TestNewEditTaskRequiresTag(t *testing.T) {
	_, err := NewEditTask(1, EditParams{Text: "new"})
	require.ErrorIs(t, err, ErrMissingTag)

	task, err := NewEditTask(1, EditParams{MessageTag: "msg", Text: "new"})
	require.NoError(t, err)
	require.Equal(t, ActionEdit, task.Kind)
}

func TestNewDeleteTaskRequiresTag(t *testing.T) {
	_, err := NewDeleteTask(1, DeleteParams{})
	require.ErrorIs(t, err, ErrMissingTag)
}

func TestNewPollTaskValidatesMarkup(t *testing.T) {
	_, err := NewPollTask(1, PollParams{
		Question: "q",
		Options:  []string{"a", "b"},
		Markup: Markup{
			Keyboard: Keyboard{{"x"}},
			Inline:   InlineKeyboard{{{Text: "y", Data: "y"}}},
		},
	})
	require.ErrorIs(t, err, ErrKeyboardConflict)
}

func TestNewRunTaskCarriesPayload(t *testing.T) {
	task := NewRunTask(9, map[string]any{"step": "next"})
	require.Equal(t, ActionRun, task.Kind)
	require.Equal(t, int64(9), task.UserID)
	require.NotNil(t, task.Run)
	require.Equal(t, "next", task.Run.Payload["step"])
}

func TestUnknownActionErrorMessage(t *testing.T) {
	err := &UnknownActionError{Kind: "sticker"}
	require.Contains(t, err.Error(), "sticker")
}
