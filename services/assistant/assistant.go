package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/viewstate"
)

const (
	systemPrompt = "You are a helpful assistant that can answer questions about the documents and summaries provided. You will give a concise answer to the question and a summary of the documents in less than 3 sentences."

	chatMaxTokens   = 256
	chatTemperature = 0.3

	maxAttachments = 6
)

var ErrEmptyMessage = errors.New("message is empty")

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	ID          string             `json:"id"`
	Role        Role               `json:"role"`
	Content     string             `json:"content"`
	Attachments []gateway.Document `json:"attachments,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

// Chat is the remote chat completion the assistant asks first.
type Chat interface {
	SendChat(ctx context.Context, messages []gateway.ChatTurn, options gateway.ChatOptions) (string, error)
}

// Library finds documents the user has already seen that match a message.
type Library interface {
	Find(text string, limit int) ([]gateway.Document, error)
}

type Service struct {
	logger        logger.Logger
	chat          Chat
	library       Library
	slot          *viewstate.Slot[string]
	localFallback bool
	replies       *localReplies
	now           func() time.Time

	mu       sync.RWMutex
	messages []Message
}

type Option func(*Service)

// WithLocalFallback answers from local templates when the remote chat fails.
func WithLocalFallback(enabled bool) Option {
	return func(s *Service) {
		s.localFallback = enabled
	}
}

// WithRandom sets the source used to pick a generic reply. It must return a
// value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Service) {
		s.replies = newLocalReplies(intn)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the assistant. library may be nil, in which case research
// replies carry no attachments.
func New(logger logger.Logger, chat Chat, library Library, controller *viewstate.Controller, opts ...Option) *Service {
	s := &Service{
		logger:        logger,
		chat:          chat,
		library:       library,
		slot:          controller.Chat,
		localFallback: true,
		replies:       newLocalReplies(nil),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends the user message and the bot reply to the session. Only one
// message is answered at a time; a second Send while a reply is pending fails
// with viewstate.ErrSlotBusy and leaves the log untouched.
func (s *Service) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	ticket, err := s.slot.Begin()
	if err != nil {
		s.logger.Warn("chat message rejected, reply pending", "err", err.Error())
		return Message{}, err
	}

	s.append(Message{ID: uuid.NewString(), Role: RoleUser, Content: text, Timestamp: s.now()})

	reply, err := s.reply(ctx, text)
	if err != nil {
		if failErr := s.slot.Fail(ticket, err); failErr != nil {
			s.logger.Warn("chat failure discarded", "err", failErr.Error())
		}
		return Message{}, err
	}

	reply.ID = uuid.NewString()
	reply.Role = RoleBot
	reply.Timestamp = s.now()
	s.append(reply)

	if err := s.slot.Succeed(ticket, reply.Content); err != nil {
		s.logger.Warn("chat reply discarded", "err", err.Error())
	}

	return reply, nil
}

// Messages returns a copy of the session log in order.
func (s *Service) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		m.Attachments = append([]gateway.Document(nil), m.Attachments...)
		out[i] = m
	}
	return out
}

func (s *Service) append(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, m)
}

func (s *Service) reply(ctx context.Context, text string) (Message, error) {
	if isResearchQuery(text) {
		return Message{
			Content:     fmt.Sprintf(researchReplyFormat, text),
			Attachments: s.attachments(text),
		}, nil
	}

	content, err := s.chat.SendChat(ctx, []gateway.ChatTurn{
		{Role: gateway.ChatRoleSystem, Content: systemPrompt},
		{Role: gateway.ChatRoleUser, Content: text},
	}, gateway.ChatOptions{MaxTokens: intPtr(chatMaxTokens), Temperature: floatPtr(chatTemperature)})
	if err == nil {
		return Message{Content: content}, nil
	}

	if !s.localFallback {
		s.logger.Warn("remote chat failed", "kind", string(gateway.KindOf(err)), "err", err.Error())
		return Message{}, err
	}

	s.logger.Info("remote chat failed, answering locally", "kind", string(gateway.KindOf(err)))
	return Message{Content: s.replies.topicReply(text)}, nil
}

// attachments looks for documents matching the message, and falls back to the
// most recently seen ones.
func (s *Service) attachments(text string) []gateway.Document {
	if s.library == nil {
		return nil
	}

	docs, err := s.library.Find(text, maxAttachments)
	if err != nil {
		s.logger.Warn("could not look up attachments", "err", err.Error())
		return nil
	}
	if len(docs) > 0 {
		return docs
	}

	docs, err = s.library.Find("", maxAttachments)
	if err != nil {
		s.logger.Warn("could not look up attachments", "err", err.Error())
		return nil
	}
	return docs
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
