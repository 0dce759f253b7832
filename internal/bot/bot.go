package bot

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"urbannest-bot/internal/api"
	"urbannest-bot/internal/config"
	"urbannest-bot/internal/session"
	"urbannest-bot/internal/uploader"
	"urbannest-bot/internal/validate"
)

type Bot struct {
	bot        *tgbotapi.BotAPI
	cfg        *config.Config
	api        *api.Client
	sessions   *session.Store
	uploader   *uploader.Uploader
	validator  *validator.Validate
	emailCheck *emailChecker
	metrics    *Metrics
	logger     zerolog.Logger
	managers   map[int64]struct{}
	blacklist  map[int64]struct{}
}

func New(cfg *config.Config, apiClient *api.Client, sessions *session.Store, up *uploader.Uploader, metrics *Metrics, logger zerolog.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	botAPI.Debug = cfg.Telegram.Debug

	b := &Bot{
		bot:       botAPI,
		cfg:       cfg,
		api:       apiClient,
		sessions:  sessions,
		uploader:  up,
		validator: validate.New(),
		metrics:   metrics,
		logger:    logger,
		managers:  idSet(cfg.Managers),
		blacklist: idSet(cfg.Blacklist),
	}
	b.emailCheck = newEmailChecker(500*time.Millisecond, apiClient.VerifyEmail, b.applyEmailStatus)
	return b, nil
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Start polls updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	b.logger.Info().Str("account", b.bot.Self.UserName).Msg("bot authorized")

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if b.metrics != nil {
		b.metrics.UpdatesProcessed.Inc()
		timer := time.Now()
		defer func() {
			b.metrics.UpdateProcessingTime.Observe(time.Since(timer).Seconds())
		}()
	}

	switch {
	case update.PreCheckoutQuery != nil:
		b.handlePreCheckout(ctx, update.PreCheckoutQuery)

	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update)

	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		b.handleSuccessfulPayment(ctx, update.Message)

	case update.Message != nil:
		if b.isBlacklisted(update.Message.From.ID) {
			return
		}
		b.handleMessage(ctx, update)
	}
}

func (b *Bot) isManager(id int64) bool {
	_, ok := b.managers[id]
	return ok
}

func (b *Bot) isBlacklisted(id int64) bool {
	_, ok := b.blacklist[id]
	return ok
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := b.bot.Send(c)
	if err != nil {
		b.logger.Error().Err(err).Msg("send")
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
	return msg, err
}
