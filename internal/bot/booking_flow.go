package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"urbannest-bot/internal/booking"
	"urbannest-bot/internal/models"
	"urbannest-bot/internal/validate"
)

func detailCaption(l *models.Listing) string {
	return fmt.Sprintf("🏡 %s\n\n%s\n\n%s\n₦%s/night\n📍 %s",
		l.Title, l.Description, availabilityLine(l.IsAvailable), formatPrice(l.Price), l.Location)
}

func galleryKeyboard(l *models.Listing, index, count int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if row := carouselRow(cbGallery, l.ID, index, count); row != nil {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📅 Book this nest", fmt.Sprintf("%s:%d", cbBook, l.ID)),
	))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// showDetail renders the full property view: gallery carousel with the
// complete description and a booking entry point.
func (b *Bot) showDetail(ctx context.Context, chatID int64, listingID int64) {
	loading, err := b.send(tgbotapi.NewMessage(chatID, "⏳ Loading nest details..."))
	if err != nil {
		return
	}

	listing, err := b.api.GetListing(ctx, listingID)
	if err != nil {
		b.logger.Error().Err(err).Int64("listing_id", listingID).Msg("failed to fetch listing")
		b.editText(chatID, loading.MessageID, "❌ Failed to fetch listing details.")
		return
	}
	b.editText(chatID, loading.MessageID, "🏡 "+listing.Title)

	urls := mediaURLs(listing, b.cfg.Storage.BaseURL, b.cfg.Storage.PlaceholderURL)
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(urls[0]))
	photo.Caption = detailCaption(listing)
	photo.ReplyMarkup = galleryKeyboard(listing, 0, len(urls))
	b.send(photo)
}

func (b *Bot) startBooking(ctx context.Context, chatID, userID, listingID int64) {
	sess, err := b.sessions.Session(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("load session")
	}
	if sess == nil {
		b.sendMessage(chatID, "Please log in first: /login (or /signup if you're new).")
		return
	}

	listing, err := b.api.GetListing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, "❌ Failed to fetch listing details.")
		return
	}
	if !listing.IsAvailable {
		b.sendMessage(chatID, "This nest is currently booked. Try another one!")
		return
	}

	b.setState(ctx, &models.UserState{
		UserID: userID,
		Step:   StateBookingEmail,
		Booking: &models.BookingDraft{
			ListingID:    listing.ID,
			ListingTitle: listing.Title,
			NightlyPrice: listing.Price,
		},
	})
	b.sendMessage(chatID, fmt.Sprintf("Booking %s.\n\nEnter your email address:", listing.Title))
}

func (b *Bot) handleBookingInput(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	draft := state.Booking
	if draft == nil {
		b.clearState(ctx, state.UserID)
		b.showMainMenu(chatID)
		return
	}

	switch state.Step {
	case StateBookingEmail:
		if !validate.Email(text) {
			b.sendMessage(chatID, "Please enter a valid email address.")
			return
		}
		draft.Email = text
		state.Step = StateBookingName
		b.setState(ctx, state)
		b.sendMessage(chatID, "Enter your full name:")

	case StateBookingName:
		if text == "" {
			b.sendMessage(chatID, "Please enter your name.")
			return
		}
		draft.Name = text
		state.Step = StateBookingPhone
		b.setState(ctx, state)
		b.sendMessage(chatID, "Enter your phone number (e.g. +2341234567890):")

	case StateBookingPhone:
		if update.Message.Contact != nil {
			text = update.Message.Contact.PhoneNumber
		}
		if !validate.BookingPhone(text) {
			b.sendMessage(chatID, "Please enter a valid phone number (e.g. +2341234567890).")
			return
		}
		draft.Phone = text
		state.Step = StateBookingCheckIn
		b.setState(ctx, state)
		b.sendMessage(chatID, "Check-in date (YYYY-MM-DD):")

	case StateBookingCheckIn:
		date, err := booking.ParseDate(text)
		if err != nil {
			b.sendMessage(chatID, "Invalid date. Use YYYY-MM-DD, e.g. 2026-09-15.")
			return
		}
		if booking.BeforeToday(date, time.Now()) {
			b.sendMessage(chatID, "Check-in can't be in the past.")
			return
		}
		draft.CheckIn = text
		state.Step = StateBookingCheckOut
		b.setState(ctx, state)
		b.sendMessage(chatID, "Check-out date (YYYY-MM-DD):")

	case StateBookingCheckOut:
		checkOut, err := booking.ParseDate(text)
		if err != nil {
			b.sendMessage(chatID, "Invalid date. Use YYYY-MM-DD, e.g. 2026-09-18.")
			return
		}
		checkIn, _ := booking.ParseDate(draft.CheckIn)
		if !checkOut.After(checkIn) {
			b.sendMessage(chatID, "Check-out must be after check-in.")
			return
		}
		draft.CheckOut = text
		b.setState(ctx, state)
		b.sendBookingInvoice(ctx, chatID, state)

	case StateBookingPayment:
		b.sendMessage(chatID, "Waiting for payment - use the invoice above, or ❌ Cancel.")
	}
}

// sendBookingInvoice validates the whole draft, computes the charge and
// hands off to the payment provider.
func (b *Bot) sendBookingInvoice(ctx context.Context, chatID int64, state *models.UserState) {
	draft := state.Booking

	if err := b.validator.Struct(draft); err != nil {
		b.logger.Warn().Err(err).Int64("user_id", state.UserID).Msg("booking draft invalid")
		b.sendMessage(chatID, "Something's off with your booking details. Start over with ❌ Cancel.")
		return
	}

	checkIn, _ := booking.ParseDate(draft.CheckIn)
	checkOut, _ := booking.ParseDate(draft.CheckOut)
	amount := booking.AmountMinor(checkIn, checkOut, draft.NightlyPrice)
	if amount <= 0 {
		b.sendMessage(chatID, "Invalid booking amount. Please check your dates.")
		return
	}
	nights := booking.Nights(checkIn, checkOut)

	draft.Payload = fmt.Sprintf("booking_%d_%s", draft.ListingID, uuid.NewString())
	state.Step = StateBookingPayment
	b.setState(ctx, state)

	label := fmt.Sprintf("%d night(s) × ₦%s", nights, formatPrice(draft.NightlyPrice))
	invoice := tgbotapi.NewInvoice(chatID,
		draft.ListingTitle,
		fmt.Sprintf("%s → %s · %s", draft.CheckIn, draft.CheckOut, draft.Name),
		draft.Payload,
		b.cfg.Telegram.PaymentProviderToken,
		"booking",
		b.cfg.Telegram.Currency,
		[]tgbotapi.LabeledPrice{{Label: label, Amount: int(amount)}},
	)
	invoice.SuggestedTipAmounts = []int{}
	if _, err := b.bot.Send(invoice); err != nil {
		b.logger.Error().Err(err).Msg("send invoice")
		if b.metrics != nil {
			b.metrics.PaymentsTotal.WithLabelValues("failure").Inc()
		}
		b.sendMessage(chatID, "❌ Payment failed to start. Please try again.")
		return
	}

	cancel := tgbotapi.NewMessage(chatID, "Complete the payment above, or cancel:")
	cancel.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel payment", "paycancel"),
		),
	)
	b.send(cancel)
}

// handlePreCheckout is the provider's last call before charging. It is
// approved only while the matching draft is still live.
func (b *Bot) handlePreCheckout(ctx context.Context, query *tgbotapi.PreCheckoutQuery) {
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	}

	state, err := b.sessions.State(ctx, query.From.ID)
	if err != nil || state == nil || state.Booking == nil || state.Booking.Payload != query.InvoicePayload {
		answer.OK = false
		answer.ErrorMessage = "This booking session has expired. Please start again."
	}

	if _, err := b.bot.Request(answer); err != nil {
		b.logger.Error().Err(err).Msg("answer pre-checkout")
	}
}

// handleSuccessfulPayment records the booking. Money has already moved:
// a failure here is its own terminal state and tells the user to reach
// support rather than retry payment.
func (b *Bot) handleSuccessfulPayment(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	payment := msg.SuccessfulPayment

	if b.metrics != nil {
		b.metrics.PaymentsTotal.WithLabelValues("success").Inc()
	}

	state, err := b.sessions.State(ctx, userID)
	if err != nil || state == nil || state.Booking == nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("payment arrived without a booking draft")
		b.sendMessage(chatID, "⚠️ Payment received but we lost your booking details. Please contact support.")
		return
	}
	draft := state.Booking

	sess, err := b.sessions.Session(ctx, userID)
	if err != nil || sess == nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("payment arrived without a session")
		b.sendMessage(chatID, "⚠️ Payment succeeded, but recording your booking failed. Please contact support.")
		return
	}

	reference := payment.ProviderPaymentChargeID
	if reference == "" {
		reference = payment.TelegramPaymentChargeID
	}

	_, err = b.api.CreateBooking(ctx, sess.Token, models.Booking{
		ListingID:        draft.ListingID,
		CustomerID:       sess.CustomerID,
		StartDate:        draft.CheckIn,
		EndDate:          draft.CheckOut,
		Status:           models.BookingStatusConfirmed,
		PaymentReference: reference,
	})
	if err != nil {
		b.logger.Error().Err(err).Int64("listing_id", draft.ListingID).Msg("booking creation failed after payment")
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "⚠️ Payment succeeded, but recording your booking failed. Please contact support - you will not be charged twice.")
		b.clearState(ctx, userID)
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCreated.Inc()
	}
	b.clearState(ctx, userID)
	b.sendMessage(chatID, fmt.Sprintf("✅ Payment and booking successful!\n%s, %s → %s. Enjoy your stay!",
		draft.ListingTitle, draft.CheckIn, draft.CheckOut))
}

func (b *Bot) handlePaymentCancel(ctx context.Context, chatID, userID int64) {
	if b.metrics != nil {
		b.metrics.PaymentsTotal.WithLabelValues("cancelled").Inc()
	}
	b.clearState(ctx, userID)
	b.sendMessage(chatID, "Payment was cancelled. Your booking was not created.")
}
