package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/meghashyamc/encarta/logger"
	"github.com/patrickmn/go-cache"
)

const (
	pathAbstractSearch = "abstracts/search/"
	pathAdvancedSearch = "articles/search/advanced/"
	pathChat           = "chat"
	pathAbstracts      = "abstracts"
	pathCategories     = "categories"
)

// Client is the single chokepoint for backend calls. It performs no retries:
// one failed attempt is returned to the caller as is.
type Client struct {
	baseURL       *url.URL
	httpClient    *http.Client
	textProxyBase string
	counts        *cache.Cache
	mdConverter   *converter.Converter
	logger        logger.Logger
	obs           *observer
}

// New creates a gateway Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("gateway: backend base url required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid backend base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("gateway: backend base url must be absolute, got %q", baseURL)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = http.DefaultClient
	}
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var counts *cache.Cache
	if cfg.categoryCountTTL > 0 {
		counts = cache.New(cfg.categoryCountTTL, 2*cfg.categoryCountTTL)
	}

	return &Client{
		baseURL:       parsed,
		httpClient:    cfg.httpClient,
		textProxyBase: cfg.textProxyBase,
		counts:        counts,
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		logger: cfg.logger,
		obs:    obs,
	}, nil
}

// TextProxyBase is the readability proxy configured for this client, possibly empty.
func (c *Client) TextProxyBase() string {
	return c.textProxyBase
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return networkError(err)
	}
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	body, _, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.Header, &HTTPError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, networkError(err)
	}

	return body, resp.Header, nil
}
