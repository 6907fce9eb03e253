package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"bitebuddy-backend/internal/pkg/apperrors"
)

// MaxImageBytes is the largest image the host accepts.
const MaxImageBytes = 32 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// ImageHost stores an image and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// ImgBBClient is an ImageHost backed by the ImgBB upload API.
type ImgBBClient struct {
	APIKey    string
	UploadURL string
	Client    *http.Client
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ImgBBClient) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	if c.APIKey == "" {
		return "", apperrors.Configuration("Image upload is not configured: IMGBB_API_KEY is not set")
	}
	if c.UploadURL == "" {
		return "", apperrors.Configuration("Image upload is not configured: IMGBB_UPLOAD_URL is not set")
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(c.UploadURL, "?") + "?key=" + url.QueryEscape(c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return "", apperrors.Upstream("Image upload failed", fmt.Errorf("imgbb request: %w", err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.Upstream("Image upload failed", fmt.Errorf("imgbb error: status %d body: %s", resp.StatusCode, string(respBody)))
	}

	var out imgbbResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", apperrors.Upstream("Image upload failed", fmt.Errorf("imgbb response decode: %w", err))
	}
	if out.Data.DisplayURL != "" {
		return out.Data.DisplayURL, nil
	}
	if out.Data.URL != "" {
		return out.Data.URL, nil
	}
	return "", apperrors.Upstream("Image upload failed", fmt.Errorf("imgbb returned no image URL, body: %s", string(respBody)))
}

// Service validates images before handing them to the host.
type Service struct {
	Host ImageHost
}

// UploadResult is returned by the upload endpoint.
type UploadResult struct {
	URL string `json:"url"`
}

// UploadFoodImage checks the file and uploads it.
func (s *Service) UploadFoodImage(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, apperrors.InvalidInput("Image file is required", map[string]interface{}{"image": "is empty"})
	}
	if len(data) > MaxImageBytes {
		return nil, apperrors.InvalidInput("Image file is too large", map[string]interface{}{"image": "must be at most 32MB"})
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return nil, apperrors.InvalidInput("Unsupported image type", map[string]interface{}{"image": fileName})
	}
	if s.Host == nil {
		return nil, apperrors.Configuration("Image upload is not configured")
	}
	u, err := s.Host.Upload(ctx, fileName, data)
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: u}, nil
}
