package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/m3rciful/convobot/core/bootstrap"
	"github.com/m3rciful/convobot/core/cmd"
	coreconfig "github.com/m3rciful/convobot/core/config"
	"github.com/m3rciful/convobot/core/engine"
	"github.com/m3rciful/convobot/core/queue"
	coretelegram "github.com/m3rciful/convobot/core/telegram"
	"github.com/m3rciful/convobot/core/telegram/format"
	"github.com/m3rciful/convobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

const (
	stateStart engine.StateName = "START"
	stateMain  engine.StateName = "MAIN"
)

const (
	welcomeText       = "¡Bienvenido al bot! Escribe 'Hola' para empezar a chatear."
	greetingText      = "Hola, ¿cómo estás?"
	notUnderstoodText = "No entiendo lo que quieres decir."
)

type appConfig struct {
	coreconfig.Config `yaml:",inline"`
}

func (c *appConfig) CoreConfig() *coreconfig.Config { return &c.Config }

type app struct {
	cfg    *appConfig
	engine *engine.Engine
	queue  *queue.Queue
	tags   *queue.Tags
}

func (a *app) BotRunOptions() (coretelegram.RunOptions, error) {
	cfg := a.cfg.CoreConfig()
	var commands []tele.Command
	if cfg.Engine.RestartCommand != "" {
		commands = append(commands, tele.Command{
			Text:        cfg.Engine.RestartCommand,
			Description: "Reiniciar la conversación",
		})
	}
	return coretelegram.RunOptions{
		Config: cfg,
		Engine: a.engine,
		Queue:  a.queue,
		Tags:   a.tags,
		Middlewares: []coretelegram.Middleware{
			{Name: "recover", Use: middleware.RecoverMiddleware},
			{Name: "logger", Use: middleware.LoggerMiddleware},
			{Name: "rate_limit", Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  excludeSet(cfg.RateLimit.ExcludeUpdates),
			})},
		},
		Commands: commands,
	}, nil
}

func excludeSet(kinds []string) map[string]struct{} {
	out := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		out[k] = struct{}{}
	}
	return out
}

// machine wires the demo conversation: START greets and hands over to MAIN,
// where "Hola" earns a greeting and anything else a fallback.
func machine(reg *engine.Registry) error {
	say := func(out *queue.Outbox, userID int64, text string, markdown bool) error {
		p := queue.MessageParams{Text: text}
		if markdown {
			escaped, err := format.EscapeMarkdown(text, format.MarkdownV2)
			if err != nil {
				return err
			}
			p.Text = escaped
			p.ParseMode = "MarkdownV2"
		}
		t, err := queue.NewMessageTask(userID, p)
		if err != nil {
			return err
		}
		out.Enqueue(t)
		return nil
	}

	if err := reg.Register(stateStart, engine.State{
		Core: func(ctx context.Context, ev *engine.Event, out *queue.Outbox) error {
			return say(out, ev.UserID, welcomeText, true)
		},
		Transition: func(ctx context.Context, ev *engine.Event, out *queue.Outbox) (engine.StateName, error) {
			return stateMain, nil
		},
	}); err != nil {
		return err
	}

	return reg.Register(stateMain, engine.State{
		Transition: func(ctx context.Context, ev *engine.Event, out *queue.Outbox) (engine.StateName, error) {
			if ev.Kind == engine.EventText && strings.EqualFold(strings.TrimSpace(ev.Message), "hola") {
				return "", say(out, ev.UserID, greetingText, false)
			}
			return stateMain, say(out, ev.UserID, notUnderstoodText, false)
		},
	})
}

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			core, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return &appConfig{Config: *core}, nil
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.BotApp, error) {
			cfg := carrier.(*appConfig)
			res, err := bootstrap.Run(bootstrap.Options{
				Config:  cfg.CoreConfig(),
				Machine: machine,
			})
			if err != nil {
				return nil, err
			}
			return &app{cfg: cfg, engine: res.Engine, queue: res.Queue, tags: res.Tags}, nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
