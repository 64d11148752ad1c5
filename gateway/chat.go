package gateway

import (
	"context"
	"time"
)

// SendChat posts the conversation and returns the reply content.
// A well-formed reply without content fails with ErrEmptyResponse.
func (c *Client) SendChat(ctx context.Context, messages []ChatTurn, options ChatOptions) (content string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chat", start, err) }()

	request := chatRequest{
		Messages:    messages,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
	}
	if request.Messages == nil {
		request.Messages = []ChatTurn{}
	}

	var response chatResponse
	if err := c.postJSON(ctx, c.endpoint(nil, pathChat), request, &response); err != nil {
		return "", err
	}
	if response.Content == nil || *response.Content == "" {
		return "", ErrEmptyResponse
	}

	return *response.Content, nil
}
