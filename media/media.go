package media

import (
	"net/url"
	"strings"

	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/viewstate"
)

type Kind string

const (
	KindPDF      Kind = "pdf"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindExternal Kind = "external"
)

// Resolution is the concrete resource a document opens to.
type Resolution struct {
	Kind Kind   `json:"kind"`
	URI  string `json:"uri"`
}

// Embed is the decision on whether a link can be shown inside a frame.
type Embed struct {
	Embeddable bool   `json:"embeddable"`
	Blocked    bool   `json:"blocked"`
	URI        string `json:"uri"`
}

type Fixtures struct {
	Audio string
	Video string
}

type Config struct {
	PDFAssets     map[string]string
	DefaultPDF    string
	Fixtures      Fixtures
	Blocklist     []string
	TextProxyBase string
}

type Resolver struct {
	pdfAssets     map[string]string
	defaultPDF    string
	fixtures      FixtureResolver
	blocklist     map[string]struct{}
	textProxyBase string
}

// New matches pdf asset ids case-insensitively, since config loading lowercases map keys.
func New(cfg Config) *Resolver {
	pdfAssets := make(map[string]string, len(cfg.PDFAssets))
	for id, path := range cfg.PDFAssets {
		pdfAssets[strings.ToLower(id)] = path
	}

	blocklist := make(map[string]struct{}, len(cfg.Blocklist))
	for _, host := range cfg.Blocklist {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			blocklist[host] = struct{}{}
		}
	}

	return &Resolver{
		pdfAssets:     pdfAssets,
		defaultPDF:    cfg.DefaultPDF,
		fixtures:      NewFixtureResolver(cfg.Fixtures),
		blocklist:     blocklist,
		textProxyBase: cfg.TextProxyBase,
	}
}

// Resolve never fails. A pdf id missing from the asset table opens the default pdf.
func (r *Resolver) Resolve(doc gateway.Document) Resolution {
	switch doc.Type {
	case gateway.MediaTypePDF:
		if path, ok := r.pdfAssets[strings.ToLower(doc.ID.String())]; ok {
			return Resolution{Kind: KindPDF, URI: path}
		}
		return Resolution{Kind: KindPDF, URI: r.defaultPDF}
	case gateway.MediaTypeAudio:
		return Resolution{Kind: KindAudio, URI: r.fixtures.Resolve(doc)}
	case gateway.MediaTypeVideo:
		return Resolution{Kind: KindVideo, URI: r.fixtures.Resolve(doc)}
	default:
		return Resolution{Kind: KindExternal, URI: doc.Link}
	}
}

// Embed decides how a link is shown. A blocked link becomes embeddable again
// through the text proxy when useTextProxy is set. Links that cannot be parsed,
// or have no host, are passed through as embeddable.
func (r *Resolver) Embed(link string, useTextProxy bool) Embed {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return Embed{Embeddable: true, URI: link}
	}

	if _, blocked := r.blocklist[strings.ToLower(u.Hostname())]; !blocked {
		return Embed{Embeddable: true, URI: link}
	}

	embed := Embed{Embeddable: false, Blocked: true, URI: link}
	if useTextProxy {
		if proxied, ok := r.TextProxyURL(link); ok {
			embed.Embeddable = true
			embed.URI = proxied
		}
	}
	return embed
}

// TextProxyURL rewrites link onto the text proxy. The proxied target is always
// requested over plain http with the original host, path and query.
func (r *Resolver) TextProxyURL(link string) (string, bool) {
	if r.textProxyBase == "" {
		return "", false
	}

	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return "", false
	}

	target := "http://" + u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}

	return r.textProxyBase + target, true
}

// ViewerFor returns the viewer a document is opened in.
func ViewerFor(doc gateway.Document) viewstate.Viewer {
	switch doc.Type {
	case gateway.MediaTypeAudio:
		return viewstate.ViewerAudio
	case gateway.MediaTypeVideo:
		return viewstate.ViewerVideo
	default:
		return viewstate.ViewerFile
	}
}
