// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package images

import (
	"bytes"
	"encoding/base64"
	"log/slog"

	"github.com/disintegration/imaging"
)

// Thumbnail dimensions for form previews.
const (
	thumbWidth  = 96
	thumbHeight = 96
)

// thumbnailDataURI renders a small JPEG preview of an image as a data
// URI. Content that does not decode as an image yields an empty
// string; the form falls back to a filename-only tile.
func thumbnailDataURI(data []byte) string {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		slog.Debug("staged file is not a decodable image", "error", err)
		return ""
	}

	thumb := imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		slog.Debug("failed to encode thumbnail", "error", err)
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
