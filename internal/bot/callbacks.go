package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	userID := callback.From.ID

	if b.metrics != nil {
		b.metrics.CallbacksProcessed.Inc()
	}

	// Acknowledge right away so the client stops spinning.
	ack := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.bot.Request(ack); err != nil {
		b.logger.Error().Err(err).Msg("answer callback")
	}

	if b.isBlacklisted(userID) {
		return
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	switch {
	case data == cbNoop:
		return

	case data == "paycancel":
		b.handlePaymentCancel(ctx, chatID, userID)

	case strings.HasPrefix(data, cbCard+":"):
		id, index, ok := parseCarousel(data)
		if !ok {
			return
		}
		b.moveCarousel(ctx, chatID, callback.Message.MessageID, id, index, false)

	case strings.HasPrefix(data, cbGallery+":"):
		id, index, ok := parseCarousel(data)
		if !ok {
			return
		}
		b.moveCarousel(ctx, chatID, callback.Message.MessageID, id, index, true)

	case strings.HasPrefix(data, cbDetail+":"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbDetail+":"), 10, 64)
		if err != nil {
			return
		}
		b.showDetail(ctx, chatID, id)

	case strings.HasPrefix(data, cbBook+":"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbBook+":"), 10, 64)
		if err != nil {
			return
		}
		b.startBooking(ctx, chatID, userID, id)

	case strings.HasPrefix(data, "rm:"):
		index, err := strconv.Atoi(strings.TrimPrefix(data, "rm:"))
		if err != nil {
			return
		}
		b.handleRemoveMedia(ctx, chatID, callback.Message.MessageID, userID, index)
	}
}

func parseCarousel(data string) (id int64, index int, ok bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	index, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return id, index, true
}

// moveCarousel refetches the listing (the bot keeps no copy) and edits
// the message's photo to the requested position.
func (b *Bot) moveCarousel(ctx context.Context, chatID int64, messageID int, listingID int64, index int, gallery bool) {
	listing, err := b.api.GetListing(ctx, listingID)
	if err != nil {
		b.logger.Error().Err(err).Int64("listing_id", listingID).Msg("carousel refetch failed")
		return
	}
	b.editCard(chatID, messageID, listing, index, gallery)
}
