// Package poster collects poster references from entries and turns Drive
// share links into directly renderable thumbnail URLs.
package poster

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/sheetboard/internal/domain/model"
)

// ThumbnailURL is the image endpoint a resolved file id is substituted into.
const ThumbnailURL = "https://drive.google.com/thumbnail?id=%s&sz=w1000"

var (
	// /file/d/<id>/view, /d/<id>
	pathID = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)(?:/|$)`)
	// open?id=<id>, uc?export=view&id=<id>
	queryID = regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]+)`)
)

// ResolveDirectLink maps a Drive share link to its thumbnail URL. Anything
// without a recognizable file id is returned unchanged.
func ResolveDirectLink(ref string) string {
	id := fileID(ref)
	if id == "" {
		return ref
	}
	return fmt.Sprintf(ThumbnailURL, id)
}

func fileID(ref string) string {
	if m := pathID.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	if m := queryID.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	return ""
}

// ExtractPosters returns one resolved URL per entry with a non-blank poster,
// in entry order.
func ExtractPosters(entries []model.ScoreEntry) []string {
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Poster)
	}
	return Resolve(refs)
}

// Resolve maps every non-blank reference through ResolveDirectLink, keeping
// order and repeats.
func Resolve(refs []string) []string {
	out := []string{}
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ResolveDirectLink(ref))
		}
	}
	return out
}
