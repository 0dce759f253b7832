package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"urbannest-bot/internal/models"
)

// Conversation steps. The prefix picks the flow, the suffix the field
// being collected.
const (
	StateSearchQuery = "search_query"

	StateBookingEmail    = "booking_email"
	StateBookingName     = "booking_name"
	StateBookingPhone    = "booking_phone"
	StateBookingCheckIn  = "booking_checkin"
	StateBookingCheckOut = "booking_checkout"
	StateBookingPayment  = "booking_payment"

	StateCreateTitle       = "create_title"
	StateCreateDescription = "create_description"
	StateCreatePrice       = "create_price"
	StateCreateLocation    = "create_location"
	StateCreatePhotos      = "create_photos"

	StateEditID          = "edit_id"
	StateEditTitle       = "edit_title"
	StateEditDescription = "edit_description"
	StateEditPrice       = "edit_price"
	StateEditLocation    = "edit_location"
	StateEditMedia       = "edit_media"
	StateEditPhotos      = "edit_photos"

	StateSignupEmail     = "signup_email"
	StateSignupPassword  = "signup_password"
	StateSignupFirstName = "signup_first_name"
	StateSignupLastName  = "signup_last_name"
	StateSignupPhone     = "signup_phone"

	StateLoginEmail    = "login_email"
	StateLoginPassword = "login_password"
)

const (
	btnAllListings = "🏠 All listings"
	btnFavorites   = "⭐ Guest favorites"
	btnBudget      = "💸 Budget friendly"
	btnSearch      = "🔍 Search"
	btnCreate      = "➕ Create listing"
	btnEdit        = "✏️ Edit listing"
	btnSignup      = "👤 Sign up"
	btnLogin       = "🔑 Log in"
	btnCancel      = "❌ Cancel"
	btnDone        = "✅ Done"
	btnKeep        = "➡️ Keep current"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	text := update.Message.Text

	state, err := b.sessions.State(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("load state")
	}

	switch {
	case text == "/start" || strings.EqualFold(text, "reset"):
		b.clearState(ctx, userID)
		b.showMainMenu(update.Message.Chat.ID)

	case text == btnCancel || text == "/cancel":
		b.clearState(ctx, userID)
		b.sendMessage(update.Message.Chat.ID, "Cancelled.")
		b.showMainMenu(update.Message.Chat.ID)

	case text == btnAllListings || text == "/listings":
		b.showAllListings(ctx, update.Message.Chat.ID)

	case text == btnFavorites:
		b.showGuestFavorites(ctx, update.Message.Chat.ID)

	case text == btnBudget:
		b.showBudgetFriendly(ctx, update.Message.Chat.ID)

	case text == btnSearch:
		b.startSearch(ctx, update)

	case text == btnCreate || text == "/create":
		b.startCreateListing(ctx, update)

	case text == btnEdit || strings.HasPrefix(text, "/edit"):
		b.startEditListing(ctx, update)

	case text == btnSignup || text == "/signup":
		b.startSignup(ctx, update)

	case text == btnLogin || text == "/login":
		b.startLogin(ctx, update)

	case text == "/logout":
		if err := b.sessions.ClearSession(ctx, userID); err != nil {
			b.logger.Error().Err(err).Int64("user_id", userID).Msg("clear session")
		}
		b.sendMessage(update.Message.Chat.ID, "Logged out.")

	case text == "/export" && b.isManager(userID):
		b.handleExportListings(ctx, update)

	case state != nil:
		b.dispatchState(ctx, update, state)

	default:
		b.showMainMenu(update.Message.Chat.ID)
	}
}

func (b *Bot) dispatchState(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	switch {
	case state.Step == StateSearchQuery:
		b.handleSearchQuery(ctx, update)

	case strings.HasPrefix(state.Step, "booking_"):
		b.handleBookingInput(ctx, update, state)

	case strings.HasPrefix(state.Step, "create_") || strings.HasPrefix(state.Step, "edit_"):
		b.handleListingInput(ctx, update, state)

	case strings.HasPrefix(state.Step, "signup_"):
		b.handleSignupInput(ctx, update, state)

	case strings.HasPrefix(state.Step, "login_"):
		b.handleLoginInput(ctx, update, state)

	default:
		b.showMainMenu(update.Message.Chat.ID)
	}
}

func (b *Bot) showMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID,
		"Welcome to UrbanNest 🏡\nDiscover your perfect stay in Lagos. Choose an action:")

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAllListings),
			tgbotapi.NewKeyboardButton(btnSearch),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFavorites),
			tgbotapi.NewKeyboardButton(btnBudget),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCreate),
			tgbotapi.NewKeyboardButton(btnEdit),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSignup),
			tgbotapi.NewKeyboardButton(btnLogin),
		),
	)
	msg.ReplyMarkup = keyboard

	b.send(msg)
}

func (b *Bot) clearState(ctx context.Context, userID int64) {
	if err := b.sessions.ClearState(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("clear state")
	}
}

func (b *Bot) setState(ctx context.Context, state *models.UserState) {
	if err := b.sessions.SetState(ctx, state); err != nil {
		b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("set state")
	}
}
