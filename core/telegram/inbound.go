package telegram

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/convobot/core/engine"
	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/convobot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// Stepper runs one engine step for an inbound event.
type Stepper interface {
	Step(ctx context.Context, ev engine.Event) (engine.StateName, error)
}

// InboundOptions controls how Telegram updates are translated into engine
// events.
type InboundOptions struct {
	Stepper Stepper

	// RestartCommand binds a command (conventionally "/start") that resets
	// the sender before stepping. Empty disables the route.
	RestartCommand string
	// Restart forces the user back to the initial state. Called before the
	// start step when the restart command fires.
	Restart func(userID int64)
}

// InboundRoutes builds the update-to-event routes: the restart command, plain
// text, inline callbacks, and the media kinds the engine accepts.
func InboundRoutes(opts InboundOptions) []Route {
	var routes []Route

	if opts.RestartCommand != "" {
		routes = append(routes, Route{
			Endpoint: opts.RestartCommand,
			Handler: func(c tele.Context) error {
				userID := senderID(c)
				if opts.Restart != nil {
					opts.Restart(userID)
				}
				return stepWithSummary(c, opts.Stepper, "restart", engine.NewStartEvent(userID))
			},
		})
	}

	routes = append(routes,
		Route{
			Endpoint: tele.OnText,
			Handler: func(c tele.Context) error {
				return stepWithSummary(c, opts.Stepper, "text", engine.NewTextEvent(senderID(c), c.Text()))
			},
		},
		Route{
			Endpoint: tele.OnCallback,
			Handler: func(c tele.Context) error {
				token := callbacks.CallbackToken(c)
				err := stepWithSummary(c, opts.Stepper, "callback", engine.NewCallbackEvent(senderID(c), token))
				// Always answer so the client stops the progress spinner.
				_ = c.Respond(&tele.CallbackResponse{})
				return err
			},
		},
		Route{
			Endpoint: tele.OnPhoto,
			Handler: func(c tele.Context) error {
				fileID, caption := photoMeta(c.Message())
				return stepWithSummary(c, opts.Stepper, "photo", engine.NewPhotoEvent(senderID(c), fileID, caption))
			},
		},
		Route{
			Endpoint: tele.OnDocument,
			Handler: func(c tele.Context) error {
				fileID, caption := documentMeta(c.Message())
				return stepWithSummary(c, opts.Stepper, "document", engine.NewDocumentEvent(senderID(c), fileID, caption))
			},
		},
		Route{
			Endpoint: tele.OnVideo,
			Handler: func(c tele.Context) error {
				fileID, caption := videoMeta(c.Message())
				return stepWithSummary(c, opts.Stepper, "video", engine.NewVideoEvent(senderID(c), fileID, caption))
			},
		},
	)

	return routes
}

func senderID(c tele.Context) int64 {
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}

func photoMeta(m *tele.Message) (string, string) {
	if m == nil || m.Photo == nil {
		return "", ""
	}
	return m.Photo.FileID, m.Caption
}

func documentMeta(m *tele.Message) (string, string) {
	if m == nil || m.Document == nil {
		return "", ""
	}
	return m.Document.FileID, m.Caption
}

func videoMeta(m *tele.Message) (string, string) {
	if m == nil || m.Video == nil {
		return "", ""
	}
	return m.Video.FileID, m.Caption
}

func stepWithSummary(c tele.Context, stepper Stepper, handlerName string, ev engine.Event) error {
	start := time.Now()
	ctx := tghelpers.WithHandler(c, handlerName)

	var (
		next engine.StateName
		err  error
	)
	if stepper != nil {
		next, err = stepper.Step(ctx, ev)
	}
	logHandlerSummary(ctx, handlerName, start, next, err)
	return err
}

func logHandlerSummary(ctx context.Context, handlerName string, start time.Time, next engine.StateName, err error) {
	status := "ok"
	outcome := "ok"
	if err != nil {
		status = "fail"
		outcome = "fail"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handlerName),
		slog.String("outcome", outcome),
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	}
	if next != "" {
		attrs = append(attrs, slog.String("next_state", string(next)))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(SanitizeError(err), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", handlerName),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		code := strings.TrimSpace(c.Code())
		if code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(strings.ReplaceAll(t.Name(), " ", "_"))
	}
	return "UNKNOWN_ERROR"
}
