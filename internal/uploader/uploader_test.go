package uploader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type fakePresigner struct {
	mu     sync.Mutex
	calls  []string
	base   string
	failOn string
}

func (f *fakePresigner) UploadURL(ctx context.Context, filename string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filename)
	f.mu.Unlock()
	if f.failOn != "" && strings.HasSuffix(filename, f.failOn) {
		return "", fmt.Errorf("presign refused")
	}
	return f.base + "/" + filename, nil
}

func TestUploadAllSequentialOrder(t *testing.T) {
	var mu sync.Mutex
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		received = append(received, r.Header.Get("Content-Type"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	presigner := &fakePresigner{base: srv.URL}
	u := New(presigner, zerolog.Nop())

	files := []File{
		{Name: "one.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "two.png", ContentType: "image/png", Data: []byte("b")},
		{Name: "three.jpg", ContentType: "image/jpeg", Data: []byte("c")},
	}

	var stages []string
	media, err := u.UploadAll(context.Background(), files, func(name string, stage Stage) {
		stages = append(stages, name+":"+string(stage))
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(media) != 3 {
		t.Fatalf("expected 3 media items, got %d", len(media))
	}

	// Keys are fresh UUIDs but extensions survive.
	if !strings.HasSuffix(media[0].MediaURL, ".jpg") || !strings.HasSuffix(media[1].MediaURL, ".png") {
		t.Errorf("extensions not preserved: %v", media)
	}
	for _, m := range media {
		if m.MediaType != "image" {
			t.Errorf("media type = %q", m.MediaType)
		}
	}

	// One file finishes completely before the next starts.
	want := []string{
		"one.jpg:" + string(StageRequestingURL),
		"one.jpg:" + string(StageUploading),
		"one.jpg:" + string(StageDone),
		"two.png:" + string(StageRequestingURL),
		"two.png:" + string(StageUploading),
		"two.png:" + string(StageDone),
		"three.jpg:" + string(StageRequestingURL),
		"three.jpg:" + string(StageUploading),
		"three.jpg:" + string(StageDone),
	}
	if len(stages) != len(want) {
		t.Fatalf("stage log length %d, want %d: %v", len(stages), len(want), stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage[%d] = %q, want %q", i, stages[i], want[i])
		}
	}

	if len(received) != 3 {
		t.Errorf("storage saw %d PUTs, want 3", len(received))
	}
}

func TestUploadAllAbortsOnFailureAndNamesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	presigner := &fakePresigner{base: srv.URL, failOn: ".png"}
	u := New(presigner, zerolog.Nop())

	files := []File{
		{Name: "first.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "second.png", ContentType: "image/png", Data: []byte("b")},
		{Name: "third.jpg", ContentType: "image/jpeg", Data: []byte("c")},
	}

	media, err := u.UploadAll(context.Background(), files, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if media != nil {
		t.Errorf("no media should be returned on abort, got %v", media)
	}
	if !strings.Contains(err.Error(), "second.png") {
		t.Errorf("error should name the failing file: %v", err)
	}
	// The third file must never be attempted.
	if len(presigner.calls) != 2 {
		t.Errorf("presigner saw %d calls, want 2: %v", len(presigner.calls), presigner.calls)
	}
}

func TestUploadAllStorageErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	u := New(&fakePresigner{base: srv.URL}, zerolog.Nop())
	_, err := u.UploadAll(context.Background(), []File{
		{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte("a")},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "photo.jpg") {
		t.Errorf("expected named storage failure, got %v", err)
	}
}

func TestObjectKeyKeepsExtension(t *testing.T) {
	key := objectKey("Kitchen Photo.JPG")
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want lowercase .jpg suffix", key)
	}
	if strings.Contains(key, "Kitchen") {
		t.Errorf("original name must not leak into the key: %q", key)
	}
}
