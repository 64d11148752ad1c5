package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// FetchAbstract returns the stored abstract of a document. Falling back to the
// text proxy when it is missing is left to the caller.
func (c *Client) FetchAbstract(ctx context.Context, documentID DocumentID) (abstract string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("abstract", start, err) }()

	var response abstractResponse
	endpoint := c.endpoint(nil, pathAbstracts, url.PathEscape(documentID.String()))
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return "", err
	}
	if response.Abstract == nil || strings.TrimSpace(*response.Abstract) == "" {
		return "", ErrEmptyResponse
	}

	return *response.Abstract, nil
}

// FetchText downloads a readable rendition of rawURL, normally a text-proxy URL.
// HTML answers are converted to Markdown.
func (c *Client) FetchText(ctx context.Context, rawURL string) (text string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("text_proxy", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", networkError(err)
	}
	req.Header.Set("Accept", "text/plain, text/markdown, text/html;q=0.5")

	body, header, err := c.do(req)
	if err != nil {
		return "", err
	}

	if !strings.Contains(strings.ToLower(header.Get("Content-Type")), "text/html") {
		return string(body), nil
	}

	markdown, err := c.mdConverter.ConvertString(string(body), converter.WithDomain(rawURL))
	if err != nil {
		return "", decodeError(fmt.Errorf("failed to convert html to markdown: %w", err))
	}

	return markdown, nil
}
