package reader

import (
	"context"
	"errors"
	"strings"

	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/media"
	"github.com/meghashyamc/encarta/notes"
	"github.com/meghashyamc/encarta/viewstate"
)

const (
	insightsPrompt = "You are a expert in obtaining insights and key words."
	risksPrompt    = "You are an expert at identifying risks and proposing practical mitigations from a scientific abstract. Respond concisely in Markdown with two sections:\n\n## Risks\n- bullet list\n\n## Mitigations\n- bullet list"

	// Text view fallbacks are cut to keep the prompt small.
	maxSourceRunes = 12000
)

var ErrNoSource = errors.New("no abstract or text view available for this article")

// Gateway is the backend access the reader needs.
type Gateway interface {
	FetchAbstract(ctx context.Context, id gateway.DocumentID) (string, error)
	FetchText(ctx context.Context, rawURL string) (string, error)
	SendChat(ctx context.Context, messages []gateway.ChatTurn, options gateway.ChatOptions) (string, error)
}

type Service struct {
	logger     logger.Logger
	gateway    Gateway
	resolver   *media.Resolver
	notes      *notes.Store
	controller *viewstate.Controller
}

func New(logger logger.Logger, gw Gateway, resolver *media.Resolver, notes *notes.Store, controller *viewstate.Controller) *Service {
	return &Service{
		logger:     logger,
		gateway:    gw,
		resolver:   resolver,
		notes:      notes,
		controller: controller,
	}
}

// Article is what the split view shows for an open document.
type Article struct {
	Document gateway.Document `json:"document"`
	Embed    media.Embed      `json:"embed"`
	Note     string           `json:"note"`
}

// Media is what a file, audio or video viewer shows.
type Media struct {
	Document   gateway.Document `json:"document"`
	Viewer     viewstate.Viewer `json:"viewer"`
	Resolution media.Resolution `json:"resolution"`
}

// Open shows doc in the split reader, replacing the article open there.
func (s *Service) Open(doc gateway.Document, useTextProxy bool) Article {
	s.selectIn(viewstate.ViewerReader, doc)

	return Article{
		Document: doc,
		Embed:    s.resolver.Embed(doc.Link, useTextProxy),
		Note:     s.notes.Load(doc.ID),
	}
}

// Show opens doc in the viewer for its media type.
func (s *Service) Show(doc gateway.Document) Media {
	viewer := media.ViewerFor(doc)
	s.selectIn(viewer, doc)

	return Media{
		Document:   doc,
		Viewer:     viewer,
		Resolution: s.resolver.Resolve(doc),
	}
}

// Close empties a viewer. Closing the reader drops pending generations of its article.
func (s *Service) Close(viewer viewstate.Viewer) bool {
	doc, ok := s.controller.Selection.Current(viewer)
	if !s.controller.Selection.Clear(viewer) {
		return false
	}
	if ok && viewer == viewstate.ViewerReader {
		s.controller.ReleaseDocument(doc.ID)
	}
	return true
}

func (s *Service) selectIn(viewer viewstate.Viewer, doc gateway.Document) {
	previous, replaced := s.controller.Selection.Select(viewer, doc)
	if replaced && viewer == viewstate.ViewerReader && previous.ID != doc.ID {
		s.controller.ReleaseDocument(previous.ID)
	}
}

// NotesAvailable reports whether notes are backed by storage for this session.
func (s *Service) NotesAvailable() bool {
	return s.notes.Available()
}

func (s *Service) LoadNote(id gateway.DocumentID) string {
	return s.notes.Load(id)
}

// SaveNote reports whether the note reached storage.
func (s *Service) SaveNote(id gateway.DocumentID, text string) bool {
	return s.notes.Save(id, text)
}

// Insights asks the chat backend for the insights and key words of doc.
func (s *Service) Insights(ctx context.Context, doc gateway.Document) (viewstate.State[string], error) {
	return viewstate.Run(ctx, s.controller.Insights(doc.ID), func(ctx context.Context) (string, error) {
		return s.generate(ctx, doc, insightsPrompt)
	})
}

// Risks asks the chat backend for risks and mitigations of doc, in Markdown.
func (s *Service) Risks(ctx context.Context, doc gateway.Document) (viewstate.State[string], error) {
	return viewstate.Run(ctx, s.controller.Risks(doc.ID), func(ctx context.Context) (string, error) {
		return s.generate(ctx, doc, risksPrompt)
	})
}

func (s *Service) generate(ctx context.Context, doc gateway.Document, prompt string) (string, error) {
	source, err := s.source(ctx, doc)
	if err != nil {
		return "", err
	}

	content, err := s.gateway.SendChat(ctx, []gateway.ChatTurn{
		{Role: gateway.ChatRoleSystem, Content: prompt},
		{Role: gateway.ChatRoleUser, Content: source},
	}, gateway.ChatOptions{})
	if err != nil {
		s.logger.Warn("generation failed", "document_id", doc.ID.String(), "kind", string(gateway.KindOf(err)), "err", err.Error())
		return "", err
	}

	return content, nil
}

// source returns the abstract of doc, or the text view of its link when the
// backend has no abstract.
func (s *Service) source(ctx context.Context, doc gateway.Document) (string, error) {
	abstract, err := s.gateway.FetchAbstract(ctx, doc.ID)
	if err == nil {
		return abstract, nil
	}
	s.logger.Info("abstract unavailable, trying text view", "document_id", doc.ID.String(), "kind", string(gateway.KindOf(err)))

	proxyURL, ok := s.resolver.TextProxyURL(doc.Link)
	if !ok {
		return "", ErrNoSource
	}

	text, err := s.gateway.FetchText(ctx, proxyURL)
	if err != nil {
		s.logger.Warn("text view unavailable", "document_id", doc.ID.String(), "err", err.Error())
		return "", ErrNoSource
	}

	text = truncateRunes(text, maxSourceRunes)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSource
	}
	return text, nil
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
