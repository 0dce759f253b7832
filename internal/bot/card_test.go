package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"urbannest-bot/internal/models"
)

func TestMediaURLsPlaceholder(t *testing.T) {
	urls := mediaURLs(&models.Listing{ID: 1}, "https://storage.example", "https://placeholder.example/img")
	if len(urls) != 1 || urls[0] != "https://placeholder.example/img" {
		t.Errorf("empty media should yield exactly the placeholder, got %v", urls)
	}
}

func TestMediaURLsJoinsBase(t *testing.T) {
	l := &models.Listing{ID: 1, Media: []models.Media{
		{MediaURL: "abc.jpg"},
		{MediaURL: "def.png"},
	}}
	urls := mediaURLs(l, "https://storage.example/", "placeholder")
	if len(urls) != 2 {
		t.Fatalf("got %d urls", len(urls))
	}
	if urls[0] != "https://storage.example/abc.jpg" {
		t.Errorf("urls[0] = %q", urls[0])
	}
}

func TestCarouselRowBounds(t *testing.T) {
	// Single image: no strip at all.
	if row := carouselRow(cbCard, 1, 0, 1); row != nil {
		t.Errorf("single image should have no carousel, got %d buttons", len(row))
	}

	// First image: position and next only.
	row := carouselRow(cbCard, 1, 0, 3)
	if len(row) != 2 {
		t.Fatalf("first image: got %d buttons, want 2", len(row))
	}
	if *row[0].CallbackData != cbNoop {
		t.Errorf("first button should be the position marker, got %q", *row[0].CallbackData)
	}
	if *row[1].CallbackData != "card:1:1" {
		t.Errorf("next button = %q", *row[1].CallbackData)
	}

	// Middle image: all three.
	row = carouselRow(cbCard, 1, 1, 3)
	if len(row) != 3 {
		t.Fatalf("middle image: got %d buttons, want 3", len(row))
	}
	if *row[0].CallbackData != "card:1:0" || *row[2].CallbackData != "card:1:2" {
		t.Errorf("prev/next = %q / %q", *row[0].CallbackData, *row[2].CallbackData)
	}
	if row[1].Text != "2/3" {
		t.Errorf("position marker = %q", row[1].Text)
	}

	// Last image: prev and position only.
	row = carouselRow(cbCard, 1, 2, 3)
	if len(row) != 2 {
		t.Fatalf("last image: got %d buttons, want 2", len(row))
	}
	if *row[1].CallbackData != cbNoop {
		t.Errorf("last button should be the position marker, got %q", *row[1].CallbackData)
	}
}

func TestCardKeyboardDegradesWithoutID(t *testing.T) {
	if kb := cardKeyboard(&models.Listing{}, 0, 3); kb != nil {
		t.Error("listing without id should get no keyboard")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{65000, "65,000"},
		{400000, "400,000"},
		{1250000, "1,250,000"},
		{-65000, "-65,000"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.in); got != tt.want {
			t.Errorf("formatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCardCaptionTruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 150)
	caption := cardCaption(&models.Listing{Title: "Nest", Description: long, Price: 1000})
	if !strings.Contains(caption, strings.Repeat("x", 100)+"...") {
		t.Error("description should be cut at 100 chars with ellipsis")
	}
	if strings.Contains(caption, strings.Repeat("x", 101)) {
		t.Error("description not truncated")
	}
}

func TestCardCaptionTruncationKeepsRunesWhole(t *testing.T) {
	// 99 ASCII chars then multi-byte runes straddling the cut point: a
	// byte-index cut would slice a ₦ in half.
	desc := strings.Repeat("x", 99) + "₦₦₦"
	caption := cardCaption(&models.Listing{Title: "Nest", Description: desc, Price: 1000})
	if !utf8.ValidString(caption) {
		t.Fatal("caption contains a split rune")
	}
	if !strings.Contains(caption, "₦...") {
		t.Errorf("cut should land after the 100th rune:\n%s", caption)
	}
	if strings.Contains(caption, "�") {
		t.Error("caption contains a replacement character")
	}
}

func TestParseCarousel(t *testing.T) {
	id, index, ok := parseCarousel("card:42:3")
	if !ok || id != 42 || index != 3 {
		t.Errorf("parseCarousel = %d, %d, %v", id, index, ok)
	}
	if _, _, ok := parseCarousel("card:42"); ok {
		t.Error("short data should not parse")
	}
	if _, _, ok := parseCarousel("card:x:3"); ok {
		t.Error("non-numeric id should not parse")
	}
}
