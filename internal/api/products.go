// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tntware/catalog-admin/internal/model"
)

// ProductInput carries the writable scalar fields of a product.
// Images travel separately as Upload parts.
type ProductInput struct {
	Name        string
	Description string
	CategoryID  string
	SalesPrice  decimal.Decimal
	CostPrice   decimal.Decimal
}

// Upload is one file part of a multipart product submission. The
// backend expects the complete image set on every write, so updates
// re-send previously persisted images as well.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListProducts fetches one page of products, optionally filtered by a
// search term and a category id.
func (c *Client) ListProducts(ctx context.Context, page int, search, categoryID string) (List[model.Product], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}
	if categoryID != "" {
		query.Set("categoryId", categoryID)
	}

	env, err := c.doJSON(ctx, http.MethodGet, "/products", query, nil)
	if err != nil {
		return List[model.Product]{}, err
	}

	var items []model.Product
	if err := decodeData(env, &items); err != nil {
		return List[model.Product]{}, err
	}
	return List[model.Product]{Items: items, Total: env.Total}, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return model.Product{}, err
	}

	var product model.Product
	if err := decodeData(env, &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

// CreateProduct creates a product from scalar fields plus image parts.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput, images []Upload) error {
	return c.submitProduct(ctx, http.MethodPost, "/products", in, images)
}

// UpdateProduct replaces a product, including its full image set.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput, images []Upload) error {
	return c.submitProduct(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, images)
}

// DeleteProduct deletes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
	return err
}

// submitProduct encodes the multipart create/update payload: scalar
// fields first, then each image as a repeated "images" part.
func (c *Client) submitProduct(ctx context.Context, method, path string, in ProductInput, images []Upload) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"categoryId":  in.CategoryID,
		"salesPrice":  in.SalesPrice.StringFixed(2),
		"costPrice":   in.CostPrice.StringFixed(2),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	for _, img := range images {
		part, err := createImagePart(writer, img)
		if err != nil {
			return err
		}
		if _, err := part.Write(img.Data); err != nil {
			return fmt.Errorf("writing image %s: %w", img.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = c.do(req)
	return err
}

// createImagePart adds a form file part carrying the original content
// type, which multipart.Writer.CreateFormFile would discard.
func createImagePart(writer *multipart.Writer, img Upload) (io.Writer, error) {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
	header.Set("Content-Type", contentType)

	w, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating image part %s: %w", img.Filename, err)
	}
	return w, nil
}
