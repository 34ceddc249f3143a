package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/convobot/core/config"
	"github.com/m3rciful/convobot/core/engine"
	"github.com/m3rciful/convobot/core/logger"
	"github.com/m3rciful/convobot/core/queue"

	tele "gopkg.in/telebot.v4"
	"log/slog"
)

// RunOptions controls the behaviour of RunBot.
type RunOptions struct {
	Config *coreconfig.Config
	Engine *engine.Engine
	Queue  *queue.Queue
	Tags   *queue.Tags

	Middlewares []Middleware
	// Routes are registered in addition to the standard inbound routes.
	Routes []Route
	// Commands populate the Telegram command menu.
	Commands []tele.Command

	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot      *tele.Bot
	Executor *Executor
	Consumer *queue.Consumer
	Queue    *queue.Queue
}

// RunBot composes and runs a Telegram bot until the provided context is done:
// it builds the bot, wires the task consumer over the outbound queue, and
// registers the inbound routes that feed updates into the engine. Shutdown
// drains the queue before returning.
func RunBot(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	if opts.Engine == nil {
		return fmt.Errorf("telegram: nil engine provided")
	}
	if opts.Queue == nil {
		return fmt.Errorf("telegram: nil queue provided")
	}

	cfg := opts.Config

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(),
	}

	buildStart := time.Now()
	bot, err := tele.NewBot(settings)
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	executor, err := NewExecutor(bot, opts.Tags)
	if err != nil {
		return err
	}
	consumer, err := queue.NewConsumer(queue.ConsumerOptions{
		Queue:         opts.Queue,
		Executor:      executor,
		Stepper:       opts.Engine,
		ClassifyError: ClassifyError,
		SanitizeError: SanitizeError,
	})
	if err != nil {
		return err
	}

	rt := Runtime{
		Bot:      bot,
		Executor: executor,
		Consumer: consumer,
		Queue:    opts.Queue,
	}

	logRunMode(ctx, cfg, poller, buildTook)
	if !opts.DisableWebhookCleanup && strings.EqualFold(cfg.Telegram.RunMode, coreconfig.RunModeLongpoll) {
		cleanupWebhook(cfg.Telegram.Token)
	}

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}

	initial := engine.StateName(cfg.Engine.InitialState)
	inbound := InboundRoutes(InboundOptions{
		Stepper:        opts.Engine,
		RestartCommand: cfg.Engine.RestartCommand,
		Restart: func(userID int64) {
			opts.Engine.Directory().SetState(userID, initial)
		},
	})
	for _, route := range append(inbound, opts.Routes...) {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	SetupCommands(bot, opts.Commands)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			opts.Queue.Close()
			return err
		}
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		_ = consumer.Run(context.Background())
	}()

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.Background(), rt)
	}

	// Close lets the consumer drain queued tasks before it exits.
	opts.Queue.Close()
	<-consumerDone

	if stopErr != nil {
		return stopErr
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return nil
		}
		return runErr
	}
	return nil
}

func logRunMode(ctx context.Context, cfg *coreconfig.Config, poller tele.Poller, buildTook time.Duration) {
	switch p := poller.(type) {
	case *tele.Webhook:
		logger.TG.LogAttrs(ctx, slog.LevelInfo, "webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	default:
		timeoutSec := 10
		if cfg.Telegram.LongPollTimeoutSeconds > 0 {
			timeoutSec = cfg.Telegram.LongPollTimeoutSeconds
		}
		logger.TG.Info("polling mode",
			slog.String("event", "mode"),
			slog.String("mode", "polling"),
			slog.Int("timeout_seconds", timeoutSec),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	}
}

func cleanupWebhook(token string) {
	if err := deleteWebhook(token, false); err != nil {
		logger.TG.Warn("failed to delete webhook",
			slog.String("event", "delete_webhook"),
			slog.String("mode", "polling"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TG.Info("webhook deleted",
		slog.String("event", "delete_webhook"),
		slog.String("mode", "polling"),
	)
}

func deleteWebhook(token string, dropPending bool) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	body := "drop_pending_updates=false"
	if dropPending {
		body = "drop_pending_updates=true"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}
