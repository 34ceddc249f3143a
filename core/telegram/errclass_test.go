package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"dns", &net.DNSError{Err: "no such host"}, "dns"},
		{"dns timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, "timeout"},
		{"flood", tele.FloodError{Error: &tele.Error{Code: 429}}, "http_4xx"},
		{"api 500", &tele.Error{Code: 502}, "http_5xx"},
		{"api 400", &tele.Error{Code: 400}, "http_4xx"},
		{"parsed suffix", fmt.Errorf("telegram: message not found (400)"), "http_4xx"},
		{"opaque", errors.New("weird"), "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}

func TestSanitizeErrorRedactsToken(t *testing.T) {
	err := errors.New("Post https://api.telegram.org/bot12345:AAAbbbCCC-ddd/sendMessage: timeout")
	got := SanitizeError(err)
	require.NotContains(t, got, "12345:AAAbbbCCC-ddd")
	require.Contains(t, got, "bot<redacted>")
}

func TestSanitizeErrorNil(t *testing.T) {
	require.Equal(t, "", SanitizeError(nil))
}
