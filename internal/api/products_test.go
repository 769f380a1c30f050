// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProductMultipart(t *testing.T) {
	type imagePart struct {
		filename    string
		contentType string
		content     string
	}

	var (
		gotMethod string
		gotFields map[string]string
		gotImages []imagePart
	)

	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, r.ParseMultipartForm(32<<20))

		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(f)
			require.NoError(t, err)
			_ = f.Close()
			gotImages = append(gotImages, imagePart{
				filename:    fh.Filename,
				contentType: fh.Header.Get("Content-Type"),
				content:     string(data),
			})
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})

	in := ProductInput{
		Name:        "Runner",
		Description: "Road shoe",
		CategoryID:  "cat-1",
		SalesPrice:  decimal.RequireFromString("99.9"),
		CostPrice:   decimal.RequireFromString("45"),
	}
	images := []Upload{
		{Filename: "front.png", ContentType: "image/png", Data: []byte("png-bytes")},
		{Filename: "side.jpg", ContentType: "image/jpeg", Data: []byte("jpg-bytes")},
	}

	require.NoError(t, client.UpdateProduct(context.Background(), "p-9", in, images))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Runner", gotFields["name"])
	assert.Equal(t, "Road shoe", gotFields["description"])
	assert.Equal(t, "cat-1", gotFields["categoryId"])
	assert.Equal(t, "99.90", gotFields["salesPrice"])
	assert.Equal(t, "45.00", gotFields["costPrice"])

	require.Len(t, gotImages, 2)
	assert.Equal(t, "front.png", gotImages[0].filename)
	assert.Equal(t, "image/png", gotImages[0].contentType)
	assert.Equal(t, "png-bytes", gotImages[0].content)
	assert.Equal(t, "side.jpg", gotImages[1].filename)
}

func TestCreateProductNoImages(t *testing.T) {
	var imageCount int
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		imageCount = len(r.MultipartForm.File["images"])
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})

	in := ProductInput{Name: "Bare", CategoryID: "c", SalesPrice: decimal.Zero, CostPrice: decimal.Zero}
	require.NoError(t, client.CreateProduct(context.Background(), in, nil))
	assert.Zero(t, imageCount)
}
