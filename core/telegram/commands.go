package telegram

import (
	"context"

	"github.com/m3rciful/convobot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// SetupCommands publishes the bot command menu shown by Telegram clients.
func SetupCommands(bot *tele.Bot, cmds []tele.Command) {
	if len(cmds) == 0 {
		return
	}
	if err := bot.SetCommands(cmds); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(cmds)),
	)
}
