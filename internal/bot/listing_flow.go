package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"urbannest-bot/internal/api"
	"urbannest-bot/internal/models"
	"urbannest-bot/internal/session"
	"urbannest-bot/internal/uploader"
	"urbannest-bot/internal/validate"
)

func (b *Bot) startCreateListing(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sess := b.requireSession(ctx, chatID, userID)
	if sess == nil {
		return
	}

	b.setState(ctx, &models.UserState{
		UserID:  userID,
		Step:    StateCreateTitle,
		Listing: &models.ListingDraft{},
	})
	b.sendMessage(chatID, "Let's list your property! 🏡\n\nTitle (e.g. Cozy Studio in Lekki):")
}

func (b *Bot) startEditListing(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sess := b.requireSession(ctx, chatID, userID)
	if sess == nil {
		return
	}

	// "/edit 42" jumps straight in; the button asks for the id.
	if rest := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/edit")); rest != "" {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil {
			b.loadListingForEdit(ctx, chatID, userID, id)
			return
		}
	}

	b.setState(ctx, &models.UserState{
		UserID:  userID,
		Step:    StateEditID,
		Listing: &models.ListingDraft{},
	})
	b.sendMessage(chatID, "Which listing do you want to edit? Enter its id:")
}

func (b *Bot) loadListingForEdit(ctx context.Context, chatID, userID, id int64) {
	loading, err := b.send(tgbotapi.NewMessage(chatID, "⏳ Loading listing..."))
	if err != nil {
		return
	}
	listing, err := b.api.GetListing(ctx, id)
	if err != nil {
		b.logger.Error().Err(err).Int64("listing_id", id).Msg("failed to load listing for edit")
		b.editText(chatID, loading.MessageID, "❌ Failed to load listing.")
		return
	}
	b.editText(chatID, loading.MessageID, fmt.Sprintf("Editing: %s", listing.Title))

	b.setState(ctx, &models.UserState{
		UserID: userID,
		Step:   StateEditTitle,
		Listing: &models.ListingDraft{
			EditID:      listing.ID,
			Title:       listing.Title,
			Description: listing.Description,
			Price:       listing.Price,
			Location:    listing.Location,
			Existing:    listing.Media,
		},
	})
	b.askWithKeep(chatID, fmt.Sprintf("Title (current: %s):", listing.Title))
}

func (b *Bot) askWithKeep(chatID int64, prompt string) {
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnKeep),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	b.send(msg)
}

func (b *Bot) handleListingInput(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	draft := state.Listing
	if draft == nil {
		b.clearState(ctx, state.UserID)
		b.showMainMenu(chatID)
		return
	}
	// The keep shortcut only means something when there is a current
	// value to keep.
	keep := text == btnKeep && draft.EditID != 0

	switch state.Step {
	case StateEditID:
		id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			b.sendMessage(chatID, "Enter a numeric listing id.")
			return
		}
		b.loadListingForEdit(ctx, chatID, state.UserID, id)

	case StateCreateTitle, StateEditTitle:
		if !keep {
			if text == "" {
				b.sendMessage(chatID, "Please enter a title.")
				return
			}
			draft.Title = text
		}
		state.Step = nextListingStep(state.Step)
		b.setState(ctx, state)
		b.promptListingStep(chatID, state.Step, draft)

	case StateCreateDescription, StateEditDescription:
		if !keep {
			if text == "" {
				b.sendMessage(chatID, "Please enter a description.")
				return
			}
			draft.Description = text
		}
		state.Step = nextListingStep(state.Step)
		b.setState(ctx, state)
		b.promptListingStep(chatID, state.Step, draft)

	case StateCreatePrice, StateEditPrice:
		if !keep {
			price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil || price <= 0 {
				b.sendMessage(chatID, "Enter the nightly price in ₦, e.g. 100000.")
				return
			}
			draft.Price = price
		}
		state.Step = nextListingStep(state.Step)
		b.setState(ctx, state)
		b.promptListingStep(chatID, state.Step, draft)

	case StateCreateLocation, StateEditLocation:
		if !keep {
			if text == "" {
				b.sendMessage(chatID, "Please enter a location.")
				return
			}
			draft.Location = text
		}
		state.Step = nextListingStep(state.Step)
		b.setState(ctx, state)
		if state.Step == StateEditMedia {
			b.showMediaList(ctx, chatID, state)
		} else {
			b.promptListingStep(chatID, state.Step, draft)
		}

	case StateEditMedia:
		if text == btnDone {
			state.Step = StateEditPhotos
			b.setState(ctx, state)
			b.promptListingStep(chatID, state.Step, draft)
			return
		}
		b.sendMessage(chatID, "Tap ❌ next to a photo to remove it, then ✅ Done.")

	case StateCreatePhotos, StateEditPhotos:
		if text == btnDone {
			b.submitListing(ctx, chatID, state)
			return
		}
		b.handlePhotoAttachment(ctx, update, state)
	}
}

func nextListingStep(step string) string {
	switch step {
	case StateCreateTitle:
		return StateCreateDescription
	case StateCreateDescription:
		return StateCreatePrice
	case StateCreatePrice:
		return StateCreateLocation
	case StateCreateLocation:
		return StateCreatePhotos
	case StateEditTitle:
		return StateEditDescription
	case StateEditDescription:
		return StateEditPrice
	case StateEditPrice:
		return StateEditLocation
	case StateEditLocation:
		return StateEditMedia
	}
	return step
}

func (b *Bot) promptListingStep(chatID int64, step string, draft *models.ListingDraft) {
	edit := draft.EditID != 0
	switch step {
	case StateCreateDescription:
		b.sendMessage(chatID, "Describe your property:")
	case StateEditDescription:
		b.askWithKeep(chatID, fmt.Sprintf("Description (current: %s):", draft.Description))
	case StateCreatePrice:
		b.sendMessage(chatID, "Price per night in ₦ (e.g. 100000):")
	case StateEditPrice:
		b.askWithKeep(chatID, fmt.Sprintf("Price per night (current: ₦%s):", formatPrice(draft.Price)))
	case StateCreateLocation:
		b.sendMessage(chatID, "Location (e.g. Lekki, Lagos):")
	case StateEditLocation:
		b.askWithKeep(chatID, fmt.Sprintf("Location (current: %s):", draft.Location))
	case StateCreatePhotos, StateEditPhotos:
		verb := "Send"
		if edit {
			verb = "Send new"
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"%s photos (JPEG/PNG, max %d). Tap ✅ Done when finished.", verb, b.cfg.Storage.MaxFiles))
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnDone),
				tgbotapi.NewKeyboardButton(btnCancel),
			),
		)
		b.send(msg)
	}
}

// showMediaList renders the listing's current photos with per-item
// remove buttons. Removal is by identity; removed items drop out of the
// final payload.
func (b *Bot) showMediaList(ctx context.Context, chatID int64, state *models.UserState) {
	draft := state.Listing
	if len(draft.Existing) == 0 {
		state.Step = StateEditPhotos
		b.setState(ctx, state)
		b.sendMessage(chatID, "No photos attached yet.")
		b.promptListingStep(chatID, state.Step, draft)
		return
	}

	msg := tgbotapi.NewMessage(chatID, mediaListText(draft))
	msg.ReplyMarkup = mediaListKeyboard(draft)
	b.send(msg)

	done := tgbotapi.NewMessage(chatID, "Remove any photos you don't want, then ✅ Done.")
	done.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDone),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	b.send(done)
}

func mediaListText(draft *models.ListingDraft) string {
	removed := make(map[string]struct{}, len(draft.Removed))
	for _, k := range draft.Removed {
		removed[k] = struct{}{}
	}
	var sb strings.Builder
	sb.WriteString("Current photos:\n")
	for i, m := range draft.Existing {
		if _, gone := removed[m.Key()]; gone {
			sb.WriteString(fmt.Sprintf("%d. %s (removed)\n", i+1, m.MediaURL))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, m.MediaURL))
		}
	}
	return sb.String()
}

func mediaListKeyboard(draft *models.ListingDraft) *tgbotapi.InlineKeyboardMarkup {
	removed := make(map[string]struct{}, len(draft.Removed))
	for _, k := range draft.Removed {
		removed[k] = struct{}{}
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, m := range draft.Existing {
		if _, gone := removed[m.Key()]; gone {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ Remove %d", i+1), fmt.Sprintf("rm:%d", i)),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (b *Bot) handleRemoveMedia(ctx context.Context, chatID int64, messageID int, userID int64, index int) {
	state, err := b.sessions.State(ctx, userID)
	if err != nil || state == nil || state.Listing == nil || state.Step != StateEditMedia {
		return
	}
	draft := state.Listing
	if index < 0 || index >= len(draft.Existing) {
		return
	}

	key := draft.Existing[index].Key()
	for _, k := range draft.Removed {
		if k == key {
			return // already removed
		}
	}
	draft.Removed = append(draft.Removed, key)
	b.setState(ctx, state)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, mediaListText(draft))
	if kb := mediaListKeyboard(draft); kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := b.bot.Request(edit); err != nil {
		b.logger.Error().Err(err).Msg("edit media list")
	}
}

// handlePhotoAttachment validates and stages one incoming photo.
func (b *Bot) handlePhotoAttachment(ctx context.Context, update tgbotapi.Update, state *models.UserState) {
	chatID := update.Message.Chat.ID
	draft := state.Listing

	ref := photoRef(update.Message)
	if ref == nil {
		b.sendMessage(chatID, "Send a photo, or tap ✅ Done.")
		return
	}

	if err := validate.Attachment(ref.ContentType, len(draft.Photos), b.cfg.Storage.MaxFiles); err != nil {
		b.sendMessage(chatID, "❌ "+capitalize(err.Error())+".")
		return
	}

	draft.Photos = append(draft.Photos, *ref)
	b.setState(ctx, state)
	b.sendMessage(chatID, fmt.Sprintf("📎 %s attached (%d/%d). Send more or tap ✅ Done.",
		ref.Name, len(draft.Photos), b.cfg.Storage.MaxFiles))
}

// photoRef extracts an attachment from the message. Telegram photos are
// always JPEG; documents carry their own MIME type and keep their name.
func photoRef(msg *tgbotapi.Message) *models.PhotoRef {
	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		return &models.PhotoRef{
			FileID:      largest.FileID,
			Name:        fmt.Sprintf("photo_%s.jpg", largest.FileUniqueID),
			ContentType: "image/jpeg",
		}
	}
	if msg.Document != nil {
		return &models.PhotoRef{
			FileID:      msg.Document.FileID,
			Name:        msg.Document.FileName,
			ContentType: msg.Document.MimeType,
		}
	}
	return nil
}

// submitListing runs the whole tail of the flow: validate the draft,
// push every staged photo through the upload pipeline (sequential, each
// with its own progress line), then commit the listing. Any upload
// failure aborts before the commit and names the file.
func (b *Bot) submitListing(ctx context.Context, chatID int64, state *models.UserState) {
	userID := state.UserID
	draft := state.Listing
	edit := draft.EditID != 0

	if err := b.validator.Struct(draft); err != nil {
		b.logger.Warn().Err(err).Int64("user_id", userID).Msg("listing draft invalid")
		b.sendMessage(chatID, "Please fill in all listing details before submitting.")
		return
	}
	if !edit && len(draft.Photos) == 0 {
		b.sendMessage(chatID, "Please attach at least one image.")
		return
	}
	if edit && len(draft.Photos) == 0 && len(draft.KeptMedia()) == 0 {
		b.sendMessage(chatID, "A listing needs at least one image - add a photo or keep one.")
		return
	}

	sess := b.requireSession(ctx, chatID, userID)
	if sess == nil {
		return
	}

	files, err := b.fetchAttachments(ctx, draft.Photos)
	if err != nil {
		b.logger.Error().Err(err).Msg("fetch attachments from telegram")
		b.sendMessage(chatID, "❌ Couldn't read your photos from Telegram. Please try again.")
		return
	}

	progress := b.chatProgress(chatID)
	uploaded, err := b.uploader.UploadAll(ctx, files, progress)
	if err != nil {
		if b.metrics != nil {
			b.metrics.UploadsTotal.WithLabelValues("error").Inc()
		}
		b.sendMessage(chatID, "❌ "+capitalize(err.Error())+". Submission aborted.")
		return
	}
	if b.metrics != nil && len(uploaded) > 0 {
		b.metrics.UploadsTotal.WithLabelValues("ok").Add(float64(len(uploaded)))
	}

	payload := api.ListingPayload{
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Location:    draft.Location,
		IsAvailable: true,
		Media:       append(draft.KeptMedia(), uploaded...),
	}

	if edit {
		if err := b.api.UpdateListing(ctx, sess.Token, draft.EditID, payload); err != nil {
			b.logger.Error().Err(err).Int64("listing_id", draft.EditID).Msg("update listing")
			b.sendMessage(chatID, "❌ Failed to update listing.")
			return
		}
		b.clearState(ctx, userID)
		b.sendMessage(chatID, "✅ Listing updated!")
	} else {
		created, err := b.api.CreateListing(ctx, sess.Token, payload)
		if err != nil {
			b.logger.Error().Err(err).Msg("create listing")
			b.sendMessage(chatID, "❌ Failed to create listing.")
			return
		}
		b.clearState(ctx, userID)
		b.sendMessage(chatID, fmt.Sprintf("✅ Listing created! %s is now live (id %d).",
			created.Title, created.ID))
	}
	b.showMainMenu(chatID)
}

// chatProgress gives each file its own message in the chat, edited as
// the pipeline moves through its stages.
func (b *Bot) chatProgress(chatID int64) uploader.Progress {
	lines := make(map[string]int)
	return func(name string, stage uploader.Stage) {
		text := fmt.Sprintf("%s: %s...", name, stage)
		if stage == uploader.StageDone {
			text = fmt.Sprintf("%s: ✅ upload successful", name)
		}
		if id, ok := lines[name]; ok {
			b.editText(chatID, id, text)
			return
		}
		msg, err := b.send(tgbotapi.NewMessage(chatID, text))
		if err == nil {
			lines[name] = msg.MessageID
		}
	}
}

// fetchAttachments pulls the staged files off Telegram's servers, in
// order.
func (b *Bot) fetchAttachments(ctx context.Context, refs []models.PhotoRef) ([]uploader.File, error) {
	httpc := &http.Client{Timeout: time.Minute}
	files := make([]uploader.File, 0, len(refs))
	for _, ref := range refs {
		url, err := b.bot.GetFileDirectURL(ref.FileID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.Name, err)
		}
		data, err := downloadAttachment(ctx, httpc, url, ref.Name)
		if err != nil {
			return nil, err
		}
		files = append(files, uploader.File{
			Name:        ref.Name,
			ContentType: ref.ContentType,
			Data:        data,
		})
	}
	return files, nil
}

// downloadAttachment fetches one file body. Direct file URLs go stale
// while a draft sits in Redis, and Telegram answers those with an error
// page rather than a transport failure - a non-2xx status must not be
// read as photo bytes.
func downloadAttachment(ctx context.Context, httpc *http.Client, url, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	res, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%s: telegram file fetch status %d", name, res.StatusCode)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

func (b *Bot) requireSession(ctx context.Context, chatID, userID int64) *session.Session {
	sess, err := b.sessions.Session(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("load session")
	}
	if sess == nil {
		b.sendMessage(chatID, "Please log in first: /login (or /signup if you're new).")
		return nil
	}
	return sess
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
