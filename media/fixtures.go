package media

import "github.com/meghashyamc/encarta/gateway"

// FixtureResolver maps audio and video documents to their media files.
// Every audio document currently plays the same summary recording, and every
// video document the same summary video.
type FixtureResolver struct {
	fixtures Fixtures
}

func NewFixtureResolver(fixtures Fixtures) FixtureResolver {
	return FixtureResolver{fixtures: fixtures}
}

func (f FixtureResolver) Resolve(doc gateway.Document) string {
	switch doc.Type {
	case gateway.MediaTypeAudio:
		return f.fixtures.Audio
	case gateway.MediaTypeVideo:
		return f.fixtures.Video
	default:
		return ""
	}
}
