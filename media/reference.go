// Package media identifies what a playable card points to and normalizes those references.
package media

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yamanami-choir/yamanami/constant"
)

// Kind tells which playback engine a Reference belongs to.
type Kind int

const (
	KindNone Kind = iota
	KindLocal
	KindEmbedded
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// Reference is either a resolved local audio URL or a hosted video id, never both.
type Reference struct {
	LocalURL   string
	EmbeddedID string
}

// Kind returns the engine the reference targets.
func (r Reference) Kind() Kind {
	switch {
	case r.EmbeddedID != "":
		return KindEmbedded
	case r.LocalURL != "":
		return KindLocal
	default:
		return KindNone
	}
}

func (r Reference) String() string {
	switch r.Kind() {
	case KindEmbedded:
		return "embedded:" + r.EmbeddedID
	case KindLocal:
		return "local:" + r.LocalURL
	default:
		return "none"
	}
}

// Resolve builds the reference for a card's raw attributes.
// A video id wins over an audio URL. Cards carrying neither yield ok == false.
func Resolve(audioURL, videoID, origin string) (ref Reference, ok bool) {
	audioURL = strings.TrimSpace(audioURL)
	videoID = strings.TrimSpace(videoID)

	switch {
	case videoID != "":
		return Reference{EmbeddedID: videoID}, true
	case audioURL != "":
		encoded := audioURL
		if !strings.HasPrefix(audioURL, "http") {
			encoded = EncodeURI(audioURL)
		}
		return Reference{LocalURL: NormalizeURL(encoded, origin)}, true
	default:
		return Reference{}, false
	}
}

// NormalizeURL resolves raw against origin and returns the absolute form.
// Inputs that cannot be parsed are returned unchanged so they still compare equal to themselves.
func NormalizeURL(raw, origin string) string {
	if raw == "" {
		return ""
	}

	base, err := url.Parse(origin)
	if err != nil {
		return raw
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	resolved := base.ResolveReference(ref)
	if resolved.Path == "" && resolved.Host != "" {
		resolved.Path = "/"
	}
	return resolved.String()
}

// SameLocal reports whether two local URLs point at the same resource once normalized.
func SameLocal(a, b, origin string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeURL(a, origin) == NormalizeURL(b, origin)
}

// WatchURL returns the public page of a hosted video.
func WatchURL(id string) string {
	return constant.WatchURLPrefix + id
}

const uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789;,/?:@&=+$-_.!~*'()#"

// EncodeURI percent-encodes s the way browsers encode a whole URI, leaving reserved delimiters intact.
func EncodeURI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(uriUnreserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
