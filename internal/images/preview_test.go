// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewDeduplicates(t *testing.T) {
	p := NewPreview([]string{"a.jpg", "", "b.jpg", "a.jpg"})
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.URLs)
	assert.Equal(t, 2, p.Count())
	assert.False(t, p.Single())
}

func TestPreviewEmptyState(t *testing.T) {
	p := NewPreview(nil)
	assert.True(t, p.Empty())
	assert.Equal(t, "", p.Current())
	assert.Equal(t, "0/0", p.Indicator())

	// Navigation on an empty preview is a no-op.
	p.Next()
	p.Prev()
	assert.Equal(t, "0/0", p.Indicator())
}

func TestPreviewSingleImage(t *testing.T) {
	p := NewPreview([]string{"only.jpg"})
	assert.True(t, p.Single())
	assert.Equal(t, "1/1", p.Indicator())

	p.Next()
	assert.Equal(t, "only.jpg", p.Current())
}

func TestPreviewCarouselWraps(t *testing.T) {
	p := NewPreview([]string{"1.jpg", "2.jpg", "3.jpg"})
	assert.Equal(t, "1/3", p.Indicator())

	p.Next()
	assert.Equal(t, "2.jpg", p.Current())
	assert.Equal(t, "2/3", p.Indicator())

	p.Next()
	p.Next() // wraps to the first
	assert.Equal(t, "1.jpg", p.Current())

	p.Prev() // wraps back to the last
	assert.Equal(t, "3.jpg", p.Current())
	assert.Equal(t, "3/3", p.Indicator())
}
