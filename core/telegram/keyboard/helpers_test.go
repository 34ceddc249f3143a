package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/convobot/core/queue"
)

func TestFromMarkupEmpty(t *testing.T) {
	require.Nil(t, FromMarkup(queue.Markup{}))
}

func TestFromMarkupReplyKeyboard(t *testing.T) {
	m := FromMarkup(queue.Markup{Keyboard: queue.Keyboard{{"yes", "no"}, {"cancel"}}})
	require.NotNil(t, m)
	require.True(t, m.ResizeKeyboard)
	require.Len(t, m.ReplyKeyboard, 2)
	require.Equal(t, "yes", m.ReplyKeyboard[0][0].Text)
	require.Equal(t, "cancel", m.ReplyKeyboard[1][0].Text)
}

func TestFromMarkupInlineKeyboard(t *testing.T) {
	m := FromMarkup(queue.Markup{Inline: queue.InlineKeyboard{
		{{Text: "Go", Data: "go"}, {Text: "Back", Data: "back"}},
	}})
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 1)
	require.Len(t, m.InlineKeyboard[0], 2)
	require.Equal(t, "go", m.InlineKeyboard[0][0].Data)
}

func TestFromMarkupRemoveKeyboard(t *testing.T) {
	m := FromMarkup(queue.Markup{RemoveKeyboard: true})
	require.NotNil(t, m)
	require.True(t, m.RemoveKeyboard)
}

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "1", Unique: "pick", Data: "1"},
		{Text: "2", Unique: "pick", Data: "2"},
		{Text: "3", Unique: "pick", Data: "3"},
	}
	m := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, m.InlineKeyboard, 2)
	require.Len(t, m.InlineKeyboard[0], 2)
	require.Len(t, m.InlineKeyboard[1], 1)
}
