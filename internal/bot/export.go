package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"urbannest-bot/internal/models"
)

// handleExportListings builds an Excel snapshot of the whole catalogue
// and sends it to the requesting manager.
func (b *Bot) handleExportListings(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	loading, err := b.send(tgbotapi.NewMessage(chatID, "⏳ Preparing export..."))
	if err != nil {
		return
	}

	listings, err := b.api.ListListings(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("export: fetch listings")
		b.editText(chatID, loading.MessageID, "❌ Failed to fetch listings for export.")
		return
	}

	path, err := b.writeListingsWorkbook(listings)
	if err != nil {
		b.logger.Error().Err(err).Msg("export: write workbook")
		b.editText(chatID, loading.MessageID, "❌ Failed to build the export file.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("Listings export · %d properties", len(listings))
	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error().Err(err).Str("path", path).Msg("export: send document")
		b.editText(chatID, loading.MessageID, "❌ Failed to send the export file.")
		return
	}
	b.editText(chatID, loading.MessageID, "✅ Export ready.")
}

func (b *Bot) writeListingsWorkbook(listings []models.Listing) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Listings"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Title", "Location", "Price/night", "Available", "Photos", "Description"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, l := range listings {
		values := []interface{}{
			l.ID, l.Title, l.Location, l.Price, l.IsAvailable, len(l.Media), l.Description,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "B", "B", 32)
	f.SetColWidth(sheet, "C", "C", 24)
	f.SetColWidth(sheet, "G", "G", 48)

	if err := os.MkdirAll(b.cfg.Exports.Path, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("listings_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	path := filepath.Join(b.cfg.Exports.Path, name)
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
