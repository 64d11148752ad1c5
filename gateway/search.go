package gateway

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Search runs the advanced search. q and categories are only sent when non-empty;
// categories are comma-joined in insertion order.
func (c *Client) Search(ctx context.Context, query SearchQuery) (result SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("advanced_search", start, err) }()

	query = query.Normalized()
	params := searchParams(query)
	if len(query.Categories) > 0 {
		params.Set("categories", strings.Join(query.Categories, ","))
	}

	return c.searchDocuments(ctx, c.endpoint(params, pathAdvancedSearch))
}

// SearchAbstracts runs the basic abstract search. Categories are not part of this endpoint.
func (c *Client) SearchAbstracts(ctx context.Context, query SearchQuery) (result SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("abstract_search", start, err) }()

	query = query.Normalized()

	return c.searchDocuments(ctx, c.endpoint(searchParams(query), pathAbstractSearch))
}

func searchParams(query SearchQuery) url.Values {
	params := url.Values{}
	if query.Text != "" {
		params.Set("q", query.Text)
	}
	params.Set("skip", strconv.Itoa(query.Skip))
	params.Set("limit", strconv.Itoa(query.Limit))

	return params
}

func (c *Client) searchDocuments(ctx context.Context, endpoint string) (SearchResult, error) {
	var documents []Document
	if err := c.getJSON(ctx, endpoint, &documents); err != nil {
		return nil, err
	}
	if documents == nil {
		documents = []Document{}
	}

	return SearchResult(documents), nil
}
