package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// CategoryCount returns the number of articles in a category. Counts only
// decorate the sidebar, so every failure degrades to 0 instead of an error.
// Failures are not cached.
func (c *Client) CategoryCount(ctx context.Context, categoryID string) int {
	if c.counts != nil {
		if count, found := c.counts.Get(categoryID); found {
			return count.(int)
		}
	}

	count, err := c.fetchCategoryCount(ctx, categoryID)
	if err != nil {
		c.logger.Warn("falling back to zero category count", "category", categoryID, "err", err.Error())
		return 0
	}

	if c.counts != nil {
		c.counts.Set(categoryID, count, cache.DefaultExpiration)
	}
	return count
}

func (c *Client) fetchCategoryCount(ctx context.Context, categoryID string) (count int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("category_count", start, err) }()

	var response categoryCountResponse
	endpoint := c.endpoint(nil, pathCategories, url.PathEscape(categoryID), "count")
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return 0, err
	}

	return response.Count, nil
}
