// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package images reconciles a product's image sources for submission:
// references already persisted by the backend, and files staged
// locally in the edit form. The backend expects the complete image
// set on every write, so persisted references are re-fetched and
// re-attached alongside newly staged files.
package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/model"
)

// Image limits for product forms.
const (
	// MaxImages is the combined cap on persisted plus staged images.
	MaxImages = 10

	// MaxFileSize is the per-file staging limit.
	MaxFileSize = 5 * 1024 * 1024
)

// Staging rejection reasons, surfaced to the user verbatim.
var (
	ErrNotImage     = errors.New("You can only upload image files.")
	ErrTooLarge     = errors.New("Image must be smaller than 5MB.")
	ErrLimitReached = errors.New("Maximum image limit reached.")
)

// Staged is a locally selected file not yet sent to the backend.
type Staged struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	Data        []byte

	// Thumbnail is a data URI preview, empty when the content could
	// not be decoded as an image.
	Thumbnail string
}

// Manager holds one form's image state.
type Manager struct {
	persisted []model.ImageRef
	staged    []Staged
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// LoadPersisted populates the persisted set from a product record,
// merging the legacy single image and the image list: legacy first,
// deduplicated by stored path, first-seen order.
func (m *Manager) LoadPersisted(p *model.Product, assetBaseURL string) {
	m.persisted = nil
	if !p.HasImages() {
		return
	}
	for _, stored := range p.AllImageURLs() {
		m.persisted = append(m.persisted, model.NewImageRef(stored, assetBaseURL))
	}
}

// KeepPersisted replaces the persisted set with the given stored
// paths, used when the edit form posts back which existing images the
// user kept.
func (m *Manager) KeepPersisted(storedPaths []string, assetBaseURL string) {
	m.persisted = nil
	seen := make(map[string]bool)
	for _, stored := range storedPaths {
		if stored == "" || seen[stored] {
			continue
		}
		seen[stored] = true
		m.persisted = append(m.persisted, model.NewImageRef(stored, assetBaseURL))
	}
}

// Persisted returns the persisted references in order.
func (m *Manager) Persisted() []model.ImageRef {
	return m.persisted
}

// StagedFiles returns the staged files in order.
func (m *Manager) StagedFiles() []Staged {
	return m.staged
}

// Count returns the combined persisted plus staged count.
func (m *Manager) Count() int {
	return len(m.persisted) + len(m.staged)
}

// Remaining returns how many more images can be staged.
func (m *Manager) Remaining() int {
	remaining := MaxImages - m.Count()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AtCapacity reports whether no further images can be added.
func (m *Manager) AtCapacity() bool {
	return m.Remaining() == 0
}

// AddStaged validates and stages one file. Rejections (wrong type,
// too large, capacity exhausted) leave previously staged files
// untouched and return a user-visible reason.
func (m *Manager) AddStaged(name, contentType string, data []byte) (Staged, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return Staged{}, ErrNotImage
	}
	if int64(len(data)) > MaxFileSize {
		return Staged{}, ErrTooLarge
	}
	if m.AtCapacity() {
		return Staged{}, ErrLimitReached
	}

	s := Staged{
		ID:          uuid.New().String(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
		Thumbnail:   thumbnailDataURI(data),
	}
	m.staged = append(m.staged, s)
	return s, nil
}

// RemoveExisting removes one persisted reference by position, freeing
// one slot. It does not touch staged files and does not call the
// backend: removal takes effect on the next submit.
func (m *Manager) RemoveExisting(index int) error {
	if index < 0 || index >= len(m.persisted) {
		return fmt.Errorf("no persisted image at index %d", index)
	}
	m.persisted = append(m.persisted[:index], m.persisted[index+1:]...)
	return nil
}

// RemoveStaged removes a staged file by its handle.
func (m *Manager) RemoveStaged(id string) bool {
	for i, s := range m.staged {
		if s.ID == id {
			m.staged = append(m.staged[:i], m.staged[i+1:]...)
			return true
		}
	}
	return false
}

// FetchFunc dereferences a persisted image URL and returns its content
// and content type.
type FetchFunc func(ctx context.Context, url string) (data []byte, contentType string, err error)

// BuildUploads assembles the outgoing multipart image set: staged
// files verbatim first, then every remaining persisted reference
// re-downloaded via its URL. A persisted reference whose content
// cannot be retrieved is logged and skipped; the submission proceeds
// without it.
func (m *Manager) BuildUploads(ctx context.Context, fetch FetchFunc) []api.Upload {
	uploads := make([]api.Upload, 0, m.Count())

	for _, s := range m.staged {
		uploads = append(uploads, api.Upload{
			Filename:    s.Name,
			ContentType: s.ContentType,
			Data:        s.Data,
		})
	}

	for _, ref := range m.persisted {
		data, contentType, err := fetch(ctx, ref.URL)
		if err != nil {
			slog.Warn("skipping unreachable persisted image",
				"url", ref.URL,
				"error", err)
			continue
		}
		if contentType == "" {
			contentType = "image/jpeg"
		}
		uploads = append(uploads, api.Upload{
			Filename:    ref.Name,
			ContentType: contentType,
			Data:        data,
		})
	}
	return uploads
}
