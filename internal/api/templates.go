package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ListTemplates returns the template catalog.
func (c *Client) ListTemplates(ctx context.Context) ([]*Template, error) {
	var templates []*Template
	if err := c.do(ctx, http.MethodGet, "/api/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplateContent fetches the textual content of a template.
func (c *Client) GetTemplateContent(ctx context.Context, id int64) (string, error) {
	response := struct {
		Content string `json:"content"`
	}{}
	path := fmt.Sprintf("/api/template-content/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return "", err
	}
	return response.Content, nil
}

// UploadTemplate uploads a local file as a new template.
func (c *Client) UploadTemplate(ctx context.Context, path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening template file")
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, errors.Wrap(err, "copying template content")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-template", body)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	template := &Template{}
	if err := c.send(request, template); err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteTemplate removes a template from the catalog.
func (c *Client) DeleteTemplate(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/templates/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
