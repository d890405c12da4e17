package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/callbacks"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/handlers"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/state"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
)

// BotController wires the message handlers and the callback router onto
// one bot instance.
type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	scheduleService *service.ScheduleService,
	settingsService *service.SettingsService,
	recipientService *service.RecipientService,
	broadcastService *service.BroadcastService,
	clk clock.Clock,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.New(
		botInstance,
		scheduleService,
		settingsService,
		recipientService,
		broadcastService,
		stateManager,
		clk,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		botInstance,
		scheduleService,
		settingsService,
		clk,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers registers every command, button and callback handler.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/bugun", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ertaga", bot.MatchTypeExact, c.handlers.HandleTomorrow)

	// Reply-keyboard buttons and admin dialog input.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleText)

	// Inline keyboard taps.
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// HandleDefault receives updates no registered handler matched,
// currently the textless group membership service messages.
func (c *BotController) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handlers.HandleMembership(ctx, b, update)
}

// setCommands publishes the command menu globally and for the private
// and group scopes explicitly.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "Boshlash — botni boshlash"},
		{Command: "bugun", Description: "Bugungi jadval"},
		{Command: "ertaga", Description: "Ertangi jadval"},
		{Command: "help", Description: "Yordam"},
	}

	scopes := []models.BotCommandScope{
		&models.BotCommandScopeDefault{},
		&models.BotCommandScopeAllPrivateChats{},
		&models.BotCommandScopeAllGroupChats{},
	}
	for _, scope := range scopes {
		_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
			Commands: commands,
			Scope:    scope,
		})
		if err != nil {
			c.logger.Error("failed to set bot commands", zap.Error(err))
			return fmt.Errorf("set bot commands: %w", err)
		}
	}

	c.logger.Info("bot commands menu set", zap.Int("scopes", len(scopes)))
	return nil
}

// Start blocks polling for updates until the context is cancelled.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("starting bot")
	c.bot.Start(ctx)
	return nil
}
