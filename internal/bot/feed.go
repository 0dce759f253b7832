package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"urbannest-bot/internal/feed"
	"urbannest-bot/internal/models"
)

// loadListings fetches the collection behind a visible loading message,
// then edits that message into the outcome line. Returns nil listings
// when the fetch failed after retries (already surfaced to the user).
func (b *Bot) loadListings(ctx context.Context, chatID int64, section string) []models.Listing {
	loading, err := b.send(tgbotapi.NewMessage(chatID, "⏳ Loading listings..."))
	if err != nil {
		return nil
	}

	listings, err := b.api.ListListings(ctx)
	if err != nil {
		b.logger.Error().Err(err).Str("section", section).Msg("failed to fetch listings")
		if b.metrics != nil {
			b.metrics.FeedLoads.WithLabelValues(section, "error").Inc()
		}
		b.editText(chatID, loading.MessageID, "❌ Failed to load listings. Please try again later.")
		return nil
	}

	if b.metrics != nil {
		b.metrics.FeedLoads.WithLabelValues(section, "ok").Inc()
	}
	if len(listings) == 0 {
		b.editText(chatID, loading.MessageID, "No listings available yet. Check back soon!")
		return nil
	}
	b.editText(chatID, loading.MessageID, sectionHeading(section))
	return listings
}

func sectionHeading(section string) string {
	switch section {
	case "favorites":
		return "⭐ Guest favorite nests in Lagos - highly rated and cherished:"
	case "budget":
		return "💸 Budget-friendly nests in Lagos - great value stays:"
	case "search":
		return "🔍 Search results:"
	default:
		return "🏡 Discover your perfect stay:"
	}
}

func (b *Bot) showAllListings(ctx context.Context, chatID int64) {
	listings := b.loadListings(ctx, chatID, "all")
	if listings == nil {
		return
	}
	for _, l := range feed.SortByPriceDesc(listings) {
		l := l
		b.sendCard(chatID, &l)
	}
}

func (b *Bot) showGuestFavorites(ctx context.Context, chatID int64) {
	listings := b.loadListings(ctx, chatID, "favorites")
	if listings == nil {
		return
	}
	for _, l := range feed.GuestFavorites(listings) {
		l := l
		b.sendCard(chatID, &l)
	}
}

func (b *Bot) showBudgetFriendly(ctx context.Context, chatID int64) {
	listings := b.loadListings(ctx, chatID, "budget")
	if listings == nil {
		return
	}
	for _, l := range feed.BudgetFriendly(listings) {
		l := l
		b.sendCard(chatID, &l)
	}
}

func (b *Bot) startSearch(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	b.setState(ctx, &models.UserState{UserID: userID, Step: StateSearchQuery})
	b.sendMessage(update.Message.Chat.ID, "Search by title or location:")
}

func (b *Bot) handleSearchQuery(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	query := update.Message.Text
	b.clearState(ctx, update.Message.From.ID)

	listings := b.loadListings(ctx, chatID, "search")
	if listings == nil {
		return
	}
	matched := feed.Filter(feed.SortByPriceDesc(listings), query)
	if len(matched) == 0 {
		b.sendMessage(chatID, "No listings match your search. Try a different query.")
		return
	}
	for _, l := range matched {
		l := l
		b.sendCard(chatID, &l)
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.bot.Request(edit); err != nil {
		b.logger.Error().Err(err).Msg("edit message")
	}
}
