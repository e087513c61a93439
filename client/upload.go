package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/meemong/shampooroom/models"
)

const presignedPath = "uploads/images/presigned-url"

// PresignedUpload is the server-issued upload descriptor: a time-limited URL
// plus form fields permitting one direct client-to-storage upload.
type PresignedUpload struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

type presignedResponse struct {
	UploadData    PresignedUpload `json:"uploadData"`
	UploadURLList []string        `json:"uploadUrlList"`
	RequestMethod string          `json:"requestMethod"`
}

// UploadImage requests a presigned descriptor for filename, streams the file
// straight to storage, and returns the final asset URL derived from the
// descriptor's storage key. The file never passes through the API server.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (models.Image, error) {
	query := url.Values{}
	setParam(query, "filename", filename)

	var presigned presignedResponse
	if err := c.t.Get(ctx, presignedPath, query, &presigned); err != nil {
		return models.Image{}, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range presigned.UploadData.Fields {
		if err := form.WriteField(key, value); err != nil {
			return models.Image{}, err
		}
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return models.Image{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Image{}, err
	}
	if err := form.Close(); err != nil {
		return models.Image{}, err
	}

	method := presigned.RequestMethod
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, presigned.UploadData.URL, &body)
	if err != nil {
		return models.Image{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.t.http.Do(req)
	if err != nil {
		return models.Image{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Image{}, fmt.Errorf("storage upload failed: %d", resp.StatusCode)
	}

	key := presigned.UploadData.Fields["key"]
	if key == "" {
		return models.Image{}, fmt.Errorf("presigned descriptor missing storage key")
	}
	return models.Image{ImageURL: c.storageHost + "/" + key}, nil
}
