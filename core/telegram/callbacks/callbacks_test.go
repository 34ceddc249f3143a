package callbacks

import (
	"testing"

	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name        string
		data        string
		wantUnique  string
		wantPayload string
	}{
		{"unique and payload", "\fconfirm|42", "confirm", "42"},
		{"unique only", "\fcancel", "cancel", ""},
		{"no prefix", "legacy|7", "legacy", "7"},
		{"escaped backslash-f is data, not a prefix", "\\fliteral|1", "\\fliteral", "1"},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			require.Equal(t, tc.wantUnique, unique)
			require.Equal(t, tc.wantPayload, payload)
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	require.Empty(t, unique)
	require.Empty(t, payload)
}
