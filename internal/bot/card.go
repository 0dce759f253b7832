package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"urbannest-bot/internal/models"
)

const (
	cbCard    = "card"   // card:<id>:<index> - feed card carousel
	cbGallery = "gal"    // gal:<id>:<index>  - detail gallery carousel
	cbDetail  = "detail" // detail:<id>
	cbBook    = "book"   // book:<id>
	cbNoop    = "noop"
)

// mediaURLs resolves a listing's media to fetchable URLs. An empty
// collection always yields exactly one placeholder.
func mediaURLs(l *models.Listing, storageBase, placeholder string) []string {
	if l == nil || len(l.Media) == 0 {
		return []string{placeholder}
	}
	base := strings.TrimRight(storageBase, "/")
	urls := make([]string, 0, len(l.Media))
	for _, m := range l.Media {
		urls = append(urls, base+"/"+m.MediaURL)
	}
	return urls
}

// carouselRow builds the prev/position/next strip for image index of
// count. Controls at the bounds are omitted rather than rendered dead;
// a single image gets no strip at all.
func carouselRow(prefix string, id int64, index, count int) []tgbotapi.InlineKeyboardButton {
	if count <= 1 {
		return nil
	}
	var row []tgbotapi.InlineKeyboardButton
	if index > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("‹",
			fmt.Sprintf("%s:%d:%d", prefix, id, index-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", index+1, count), cbNoop))
	if index < count-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("›",
			fmt.Sprintf("%s:%d:%d", prefix, id, index+1)))
	}
	return row
}

// cardKeyboard is the full card markup: carousel strip plus the detail
// link. A listing without an id gets no interactive rows - the card
// degrades instead of panicking.
func cardKeyboard(l *models.Listing, index, count int) *tgbotapi.InlineKeyboardMarkup {
	if l.ID == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	if row := carouselRow(cbCard, l.ID, index, count); row != nil {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔎 View details", fmt.Sprintf("%s:%d", cbDetail, l.ID)),
	))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func availabilityLine(available bool) string {
	if available {
		return "🟢 Available"
	}
	return "🔴 Booked"
}

// formatPrice renders a major-unit price with thousands separators, the
// way the listing pages show it.
func formatPrice(price float64) string {
	whole := strconv.FormatFloat(price, 'f', 0, 64)
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}
	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

func cardCaption(l *models.Listing) string {
	desc := l.Description
	// Cut on runes - descriptions carry ₦ and emoji, and a byte cut can
	// split one in half.
	if runes := []rune(desc); len(runes) > 100 {
		desc = string(runes[:100]) + "..."
	}
	return fmt.Sprintf("%s\n%s\n₦%s/night\n%s",
		l.Title, availabilityLine(l.IsAvailable), formatPrice(l.Price), desc)
}

// sendCard posts one property card: first image, caption, carousel.
func (b *Bot) sendCard(chatID int64, l *models.Listing) {
	if l.ID == 0 {
		// Still render, just without navigation.
		b.logger.Warn().Str("title", l.Title).Msg("listing has no id, card is not interactive")
	}

	urls := mediaURLs(l, b.cfg.Storage.BaseURL, b.cfg.Storage.PlaceholderURL)
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(urls[0]))
	photo.Caption = cardCaption(l)
	if kb := cardKeyboard(l, 0, len(urls)); kb != nil {
		photo.ReplyMarkup = kb
	}
	b.send(photo)
}

// editCard swaps the card's photo to another carousel position.
func (b *Bot) editCard(chatID int64, messageID int, l *models.Listing, index int, gallery bool) {
	urls := mediaURLs(l, b.cfg.Storage.BaseURL, b.cfg.Storage.PlaceholderURL)
	if index < 0 || index >= len(urls) {
		return
	}

	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(urls[index]))
	if gallery {
		media.Caption = detailCaption(l)
	} else {
		media.Caption = cardCaption(l)
	}

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{ChatID: chatID, MessageID: messageID},
		Media:    media,
	}
	var kb *tgbotapi.InlineKeyboardMarkup
	if gallery {
		kb = galleryKeyboard(l, index, len(urls))
	} else {
		kb = cardKeyboard(l, index, len(urls))
	}
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := b.bot.Request(edit); err != nil {
		b.logger.Error().Err(err).Int64("listing_id", l.ID).Msg("edit carousel")
	}
}
