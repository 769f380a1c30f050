// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tntware/catalog-admin/internal/model"
)

const assetBase = "https://tnt-local.s3.us-east-1.amazonaws.com/"

// pngBytes returns a small valid PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestAddStagedRejectsNonImage(t *testing.T) {
	m := NewManager()
	_, ok := m.mustStage(t, "ok.png")

	_, err := m.AddStaged("notes.pdf", "application/pdf", []byte("%PDF"))
	require.ErrorIs(t, err, ErrNotImage)

	// Prior staged files are left intact.
	assert.Len(t, m.StagedFiles(), 1)
	assert.True(t, ok)
}

func TestAddStagedRejectsOversize(t *testing.T) {
	m := NewManager()
	m.mustStage(t, "keep.png")

	big := make([]byte, MaxFileSize+1)
	_, err := m.AddStaged("huge.jpg", "image/jpeg", big)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Len(t, m.StagedFiles(), 1)
}

func TestCapacityEnforcement(t *testing.T) {
	m := NewManager()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("products/img-%d.jpg", i)
	}
	m.KeepPersisted(paths, assetBase)

	m.mustStage(t, "a.png")
	m.mustStage(t, "b.png")
	require.Equal(t, MaxImages, m.Count())
	assert.True(t, m.AtCapacity())
	assert.Zero(t, m.Remaining())

	_, err := m.AddStaged("c.png", "image/png", []byte("x"))
	require.ErrorIs(t, err, ErrLimitReached)

	// Removing one persisted image frees exactly one slot.
	require.NoError(t, m.RemoveExisting(0))
	assert.Equal(t, 1, m.Remaining())
	m.mustStage(t, "c.png")
	assert.True(t, m.AtCapacity())
}

// mustStage stages a minimal image file and fails the test on error.
func (m *Manager) mustStage(t *testing.T, name string) (Staged, bool) {
	t.Helper()
	s, err := m.AddStaged(name, "image/png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	return s, true
}

func TestLoadPersistedMergesLegacyFirst(t *testing.T) {
	p := &model.Product{
		ImageURL:  "products/main.jpg",
		ImageURLs: []string{"products/side.jpg", "products/main.jpg", "products/back.jpg"},
	}

	m := NewManager()
	m.LoadPersisted(p, assetBase)

	refs := m.Persisted()
	require.Len(t, refs, 3)
	assert.Equal(t, "products/main.jpg", refs[0].Path)
	assert.Equal(t, "products/side.jpg", refs[1].Path)
	assert.Equal(t, "products/back.jpg", refs[2].Path)
	assert.Equal(t, "main.jpg", refs[0].Name)
	assert.Equal(t, assetBase+"products/main.jpg", refs[0].URL)
}

func TestRemoveExistingOutOfRange(t *testing.T) {
	m := NewManager()
	m.KeepPersisted([]string{"a.jpg"}, assetBase)

	assert.Error(t, m.RemoveExisting(-1))
	assert.Error(t, m.RemoveExisting(1))
	assert.NoError(t, m.RemoveExisting(0))
	assert.Empty(t, m.Persisted())
}

func TestRemoveStaged(t *testing.T) {
	m := NewManager()
	s, _ := m.mustStage(t, "a.png")
	m.mustStage(t, "b.png")

	assert.True(t, m.RemoveStaged(s.ID))
	assert.False(t, m.RemoveStaged(s.ID))
	require.Len(t, m.StagedFiles(), 1)
	assert.Equal(t, "b.png", m.StagedFiles()[0].Name)
}

func TestBuildUploadsOrderAndSkip(t *testing.T) {
	m := NewManager()
	m.KeepPersisted([]string{"products/good.jpg", "products/gone.jpg"}, assetBase)
	m.mustStage(t, "new.png")

	fetch := func(_ context.Context, url string) ([]byte, string, error) {
		if strings.Contains(url, "gone") {
			return nil, "", errors.New("404")
		}
		return []byte("remote-bytes"), "image/jpeg", nil
	}

	uploads := m.BuildUploads(context.Background(), fetch)

	// Staged first, then reachable persisted; the unreachable one is
	// skipped silently.
	require.Len(t, uploads, 2)
	assert.Equal(t, "new.png", uploads[0].Filename)
	assert.Equal(t, "good.jpg", uploads[1].Filename)
	assert.Equal(t, []byte("remote-bytes"), uploads[1].Data)
	assert.Equal(t, "image/jpeg", uploads[1].ContentType)
}

func TestStagedThumbnailGenerated(t *testing.T) {
	m := NewManager()
	s, err := m.AddStaged("real.png", "image/png", pngBytes(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.Thumbnail, "data:image/jpeg;base64,"))

	// Undecodable content still stages, just without a thumbnail.
	s2, err := m.AddStaged("fake.png", "image/png", []byte("not an image"))
	require.NoError(t, err)
	assert.Empty(t, s2.Thumbnail)
}
