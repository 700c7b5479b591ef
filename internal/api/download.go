package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Download fetches a generated file by its server filename. Always an
// authenticated fetch: the resource requires the session credential, so a
// bare hyperlink would not work. The caller owns closing the body.
func (c *Client) Download(ctx context.Context, filename string) (*http.Response, error) {
	path := "/api/download/" + url.PathEscape(filename)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	return c.sendRaw(request)
}
