// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package images

import "fmt"

// Preview models the image preview modal: an ordered, deduplicated
// set of image URLs and a 1-based cursor. An empty preview renders a
// placeholder state, never a broken frame.
type Preview struct {
	URLs  []string
	index int
}

// NewPreview builds a preview from image URLs, dropping empties and
// duplicates while preserving first-seen order.
func NewPreview(urls []string) *Preview {
	p := &Preview{}
	seen := make(map[string]bool)
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		p.URLs = append(p.URLs, u)
	}
	return p
}

// Empty reports whether there is nothing to show.
func (p *Preview) Empty() bool { return len(p.URLs) == 0 }

// Single reports whether the preview shows one image directly rather
// than a carousel.
func (p *Preview) Single() bool { return len(p.URLs) == 1 }

// Count returns the number of images.
func (p *Preview) Count() int { return len(p.URLs) }

// Current returns the image under the cursor, or "" when empty.
func (p *Preview) Current() string {
	if p.Empty() {
		return ""
	}
	return p.URLs[p.index]
}

// Next advances the cursor, wrapping past the last image.
func (p *Preview) Next() {
	if len(p.URLs) < 2 {
		return
	}
	p.index = (p.index + 1) % len(p.URLs)
}

// Prev moves the cursor back, wrapping before the first image.
func (p *Preview) Prev() {
	if len(p.URLs) < 2 {
		return
	}
	p.index = (p.index - 1 + len(p.URLs)) % len(p.URLs)
}

// Indicator returns the 1-based "current/total" position label.
func (p *Preview) Indicator() string {
	if p.Empty() {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", p.index+1, len(p.URLs))
}
