// Package uploader runs the create/edit media pipeline: for each file,
// ask the backend for a presigned URL, then PUT the bytes straight to
// object storage. Files go one at a time, in order - the listing
// submission that follows depends on every upload having finished, so
// the ordering is the contract, not an optimization.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"urbannest-bot/internal/models"
)

// Stage values reported per file as the pipeline advances.
type Stage string

const (
	StageRequestingURL Stage = "requesting upload URL"
	StageUploading     Stage = "uploading to storage"
	StageDone          Stage = "uploaded"
)

// Progress receives the file's display name and its current stage.
type Progress func(name string, stage Stage)

// Presigner is the single backend call the pipeline needs.
type Presigner interface {
	UploadURL(ctx context.Context, filename string) (string, error)
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Uploader struct {
	presigner Presigner
	httpc     *http.Client
	logger    zerolog.Logger
}

func New(presigner Presigner, logger zerolog.Logger) *Uploader {
	return &Uploader{
		presigner: presigner,
		httpc:     &http.Client{Timeout: 2 * time.Minute},
		logger:    logger,
	}
}

// WithHTTPClient overrides the storage-side client.
func (u *Uploader) WithHTTPClient(h *http.Client) *Uploader {
	u.httpc = h
	return u
}

// UploadAll pushes every file through the pipeline and returns the media
// references for the listing payload. The first failure aborts the whole
// run and the error names the file.
func (u *Uploader) UploadAll(ctx context.Context, files []File, progress Progress) ([]models.Media, error) {
	if progress == nil {
		progress = func(string, Stage) {}
	}

	media := make([]models.Media, 0, len(files))
	for _, f := range files {
		key := objectKey(f.Name)

		progress(f.Name, StageRequestingURL)
		url, err := u.presigner.UploadURL(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}

		progress(f.Name, StageUploading)
		if err := u.put(ctx, url, f); err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		progress(f.Name, StageDone)
		u.logger.Info().Str("file", f.Name).Str("key", key).Msg("uploaded")

		media = append(media, models.Media{
			MediaURL:  key,
			MediaType: mediaType(f.ContentType),
		})
	}
	return media, nil
}

func (u *Uploader) put(ctx context.Context, url string, f File) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(f.Data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := u.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("storage PUT failed: status %d", res.StatusCode)
	}
	return nil
}

// objectKey keeps the original extension but replaces the name with a
// fresh UUID so concurrent users can't collide on "kitchen.jpg".
func objectKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return uuid.NewString() + ext
}

func mediaType(contentType string) string {
	if strings.HasPrefix(contentType, "image") {
		return "image"
	}
	return "other"
}
