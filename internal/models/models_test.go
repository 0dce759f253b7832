package models

import "testing"

func TestMediaKey(t *testing.T) {
	withID := Media{ID: 7, MediaURL: "abc.jpg"}
	if withID.Key() != "id:7" {
		t.Errorf("Key = %q", withID.Key())
	}
	fresh := Media{MediaURL: "abc.jpg"}
	if fresh.Key() != "url:abc.jpg" {
		t.Errorf("Key = %q", fresh.Key())
	}
}

func TestKeptMedia(t *testing.T) {
	draft := &ListingDraft{
		Existing: []Media{
			{ID: 1, MediaURL: "a.jpg"},
			{ID: 2, MediaURL: "b.jpg"},
			{MediaURL: "c.jpg"},
		},
		Removed: []string{"id:2", "url:c.jpg"},
	}
	kept := draft.KeptMedia()
	if len(kept) != 1 || kept[0].ID != 1 {
		t.Errorf("KeptMedia = %v", kept)
	}
}

func TestKeptMediaNothingRemoved(t *testing.T) {
	draft := &ListingDraft{
		Existing: []Media{{ID: 1}, {ID: 2}},
	}
	if got := draft.KeptMedia(); len(got) != 2 {
		t.Errorf("KeptMedia = %v", got)
	}
}
