package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ScribblesProject/tams/pkg/models"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Client is the stateless REST client for the TAMS backend. Every operation
// is a single round-trip with no caching and no retry. List-style endpoints
// fail open to empty collections; mutation endpoints collapse any transport
// or server failure to a boolean false.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type successResponse struct {
	Success bool `json:"success"`
	ID      int  `json:"id"`
}

// List fetches all assets. On transport or parse failure it returns an empty
// slice; the swallowed error is logged so the failure is still observable.
func (c *Client) List(ctx context.Context) []models.Asset {
	var body struct {
		Assets []models.Asset `json:"assets"`
	}
	if err := c.getJSON(ctx, "/api/asset/list/", &body); err != nil {
		c.log.Warn("asset list failed, returning empty collection", zap.Error(err))
		return []models.Asset{}
	}
	if body.Assets == nil {
		return []models.Asset{}
	}
	return body.Assets
}

// Create submits a full asset payload. On success the server-assigned id is
// returned; a "success" response without a usable id is treated as failure.
func (c *Client) Create(ctx context.Context, asset models.Asset) (bool, int) {
	resp, err := c.postJSON(ctx, "/api/asset/create/", asset)
	if err != nil {
		c.log.Warn("asset create failed", zap.Error(err))
		return false, 0
	}
	if !resp.Success {
		return false, 0
	}
	if resp.ID <= 0 {
		c.log.Warn("asset create reported success without an id")
		return false, 0
	}
	return true, resp.ID
}

// Update submits the same payload shape as Create against an existing id.
func (c *Client) Update(ctx context.Context, asset models.Asset) bool {
	resp, err := c.postJSON(ctx, fmt.Sprintf("/api/asset/update/%d/", asset.ID), asset)
	if err != nil {
		c.log.Warn("asset update failed", zap.Int("id", asset.ID), zap.Error(err))
		return false
	}
	return resp.Success
}

func (c *Client) Delete(ctx context.Context, assetID int) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+fmt.Sprintf("/api/asset/delete/%d/", assetID), nil)
	if err != nil {
		return false
	}
	resp, err := c.do(req)
	if err != nil {
		c.log.Warn("asset delete failed", zap.Int("id", assetID), zap.Error(err))
		return false
	}
	return resp.Success
}

func (c *Client) CategoryList(ctx context.Context) []models.Category {
	var body struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, "/api/asset/category/list/", &body); err != nil {
		c.log.Warn("category list failed, returning empty collection", zap.Error(err))
		return []models.Category{}
	}
	if body.Categories == nil {
		return []models.Category{}
	}
	return body.Categories
}

func (c *Client) TypeList(ctx context.Context, categoryID int) []models.AssetType {
	var body struct {
		Types []models.AssetType `json:"types"`
	}
	path := fmt.Sprintf("/api/asset/type/list/%d/", categoryID)
	if err := c.getJSON(ctx, path, &body); err != nil {
		c.log.Warn("type list failed, returning empty collection",
			zap.Int("categoryID", categoryID), zap.Error(err))
		return []models.AssetType{}
	}
	if body.Types == nil {
		return []models.AssetType{}
	}
	return body.Types
}

// UploadImage sends captured image bytes for an already-persisted asset.
func (c *Client) UploadImage(ctx context.Context, assetID int, image []byte, progress ProgressFunc) bool {
	path := fmt.Sprintf("/api/asset/media/image-upload/%d/", assetID)
	return c.uploadBinary(ctx, path, "image/jpeg", bytes.NewReader(image), int64(len(image)), progress)
}

// UploadMemo streams a recorded voice memo file for an already-persisted
// asset. A missing or unreadable file counts as an upload failure.
func (c *Client) UploadMemo(ctx context.Context, assetID int, fileRef string, progress ProgressFunc) bool {
	file, err := os.Open(fileRef)
	if err != nil {
		c.log.Warn("voice memo unreadable", zap.String("file", fileRef), zap.Error(err))
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false
	}

	path := fmt.Sprintf("/api/asset/media/voice-upload/%d/", assetID)
	return c.uploadBinary(ctx, path, "audio/aac", file, info.Size(), progress)
}

func (c *Client) uploadBinary(ctx context.Context, path, contentType string, body io.Reader, size int64, progress ProgressFunc) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, newProgressReader(body, size, progress))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.do(req)
	if err != nil {
		c.log.Warn("media upload failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return resp.Success
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (successResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return successResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return successResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (successResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return successResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return successResponse{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	var result successResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return successResponse{}, fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return result, nil
}
