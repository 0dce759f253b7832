package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"urbannest-bot/internal/api"
	"urbannest-bot/internal/models"
	"urbannest-bot/internal/validate"
)

func (b *Bot) startSignup(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	b.setState(ctx, &models.UserState{
		UserID: userID,
		Step:   StateSignupEmail,
		Signup: &models.SignupDraft{},
	})
	b.sendMessage(update.Message.Chat.ID, "Let's create your UrbanNest account 👤\n\nEnter your email address:")
}

func (b *Bot) handleSignupInput(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	draft := state.Signup
	if draft == nil {
		b.clearState(ctx, state.UserID)
		b.showMainMenu(chatID)
		return
	}

	switch state.Step {
	case StateSignupEmail:
		if !validate.Email(text) {
			b.sendMessage(chatID, "Please enter a valid email address.")
			return
		}
		draft.Email = text
		draft.EmailStatus = ""
		state.Step = StateSignupPassword
		b.setState(ctx, state)
		if b.cfg.API.VerifyEmailEnabled {
			b.emailCheck.Check(ctx, state.UserID, text)
		}
		b.sendMessage(chatID, "Choose a password (min 8 chars, with upper, lower, digit and one of @$!%*?&):")

	case StateSignupPassword:
		if !validate.Password(text) {
			b.sendMessage(chatID, "Password must be at least 8 characters and include an uppercase letter, a lowercase letter, a digit and one of @$!%*?&.")
			return
		}
		draft.Password = text
		state.Step = StateSignupFirstName
		b.setState(ctx, state)
		// Don't leave the password sitting in the chat history.
		b.bot.Request(tgbotapi.NewDeleteMessage(chatID, update.Message.MessageID))
		b.sendMessage(chatID, "First name:")

	case StateSignupFirstName:
		if !validate.Name(text) {
			b.sendMessage(chatID, "Names are letters only, up to 50 characters.")
			return
		}
		draft.FirstName = text
		state.Step = StateSignupLastName
		b.setState(ctx, state)
		b.sendMessage(chatID, "Last name:")

	case StateSignupLastName:
		if !validate.Name(text) {
			b.sendMessage(chatID, "Names are letters only, up to 50 characters.")
			return
		}
		draft.LastName = text
		state.Step = StateSignupPhone
		b.setState(ctx, state)
		b.sendMessage(chatID, "Phone number (e.g. +2348012345678):")

	case StateSignupPhone:
		if update.Message.Contact != nil {
			text = update.Message.Contact.PhoneNumber
		}
		if !validate.Phone(text) {
			b.sendMessage(chatID, "Please enter a valid phone number (e.g. +2348012345678).")
			return
		}
		draft.Phone = text
		b.setState(ctx, state)
		b.finishSignup(ctx, chatID, state)
	}
}

// finishSignup gates on the deliverability verdict, then creates the
// account and signs the user straight in.
func (b *Bot) finishSignup(ctx context.Context, chatID int64, state *models.UserState) {
	draft := state.Signup

	if err := b.validator.Struct(draft); err != nil {
		b.logger.Warn().Err(err).Int64("user_id", state.UserID).Msg("signup draft invalid")
		b.sendMessage(chatID, "Something's off with your details. Start over with ❌ Cancel.")
		return
	}

	if b.cfg.API.VerifyEmailEnabled {
		switch draft.EmailStatus {
		case "valid":
		case "":
			b.sendMessage(chatID, "⏳ Still verifying your email address. Send your phone number again in a moment.")
			return
		default:
			draft.Email = ""
			draft.EmailStatus = ""
			state.Step = StateSignupEmail
			b.setState(ctx, state)
			b.sendMessage(chatID, "✖ That email address doesn't look reachable. Enter a different one:")
			return
		}
	}

	token, err := b.api.Signup(ctx, api.SignupRequest{
		Email:     draft.Email,
		Password:  draft.Password,
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Phone:     draft.Phone,
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("signup failed")
		b.sendMessage(chatID, "❌ Signup failed: "+err.Error())
		return
	}

	if _, err := b.sessions.SaveToken(ctx, state.UserID, token); err != nil {
		b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("save session after signup")
		b.clearState(ctx, state.UserID)
		b.sendMessage(chatID, "✅ Account created! Now log in with /login.")
		return
	}
	b.clearState(ctx, state.UserID)
	b.sendMessage(chatID, "✅ Account created and you're logged in. Welcome to UrbanNest!")
	b.showMainMenu(chatID)
}

// applyEmailStatus is the email checker's callback. It lands on the
// draft only if the user is still in the signup flow with the same
// address.
func (b *Bot) applyEmailStatus(userID int64, email, status string) {
	ctx := context.Background()
	state, err := b.sessions.State(ctx, userID)
	if err != nil || state == nil || state.Signup == nil || state.Signup.Email != email {
		return
	}
	state.Signup.EmailStatus = status
	b.setState(ctx, state)

	// Private chat, so the chat id is the user id.
	if status == "valid" {
		b.sendMessage(userID, "✔ Email verified.")
	} else {
		b.sendMessage(userID, "✖ Couldn't verify that email address. You'll need a different one to finish signup.")
	}
}

func (b *Bot) startLogin(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	b.setState(ctx, &models.UserState{
		UserID: userID,
		Step:   StateLoginEmail,
		Login:  &models.LoginDraft{},
	})
	b.sendMessage(update.Message.Chat.ID, "Welcome back 🔑\n\nEnter your email address:")
}

func (b *Bot) handleLoginInput(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	draft := state.Login
	if draft == nil {
		b.clearState(ctx, state.UserID)
		b.showMainMenu(chatID)
		return
	}

	switch state.Step {
	case StateLoginEmail:
		if !validate.Email(text) {
			b.sendMessage(chatID, "Please enter a valid email address.")
			return
		}
		draft.Email = text
		state.Step = StateLoginPassword
		b.setState(ctx, state)
		b.sendMessage(chatID, "Password:")

	case StateLoginPassword:
		b.bot.Request(tgbotapi.NewDeleteMessage(chatID, update.Message.MessageID))

		token, err := b.api.Login(ctx, draft.Email, text)
		if err != nil {
			b.logger.Warn().Err(err).Msg("login failed")
			b.sendMessage(chatID, "❌ Login failed: "+err.Error()+"\nTry the password again, or ❌ Cancel.")
			return
		}
		if _, err := b.sessions.SaveToken(ctx, state.UserID, token); err != nil {
			b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("save session")
			b.sendMessage(chatID, "❌ Couldn't save your session. Please try again.")
			return
		}
		b.clearState(ctx, state.UserID)
		b.sendMessage(chatID, "✅ Logged in. Happy nesting!")
		b.showMainMenu(chatID)
	}
}
