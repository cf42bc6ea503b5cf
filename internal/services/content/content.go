// Package content renders stored blog markdown to safe HTML.
package content

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const DefaultWordsPerMinute = 200

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

var headingID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Heading is one entry of a post's outline.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Rendered is a post body ready to embed in a page.
type Rendered struct {
	HTML        string    `json:"html"`
	Headings    []Heading `json:"headings"`
	ReadMinutes int       `json:"read_minutes"`
}

type Renderer struct {
	policy         *bluemonday.Policy
	plain          *bluemonday.Policy
	wordsPerMinute int
}

func NewRenderer(wordsPerMinute int) *Renderer {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(headingID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Renderer{
		policy:         p,
		plain:          bluemonday.StrictPolicy(),
		wordsPerMinute: wordsPerMinute,
	}
}

// Render converts markdown to sanitized HTML with anchored headings.
func (r *Renderer) Render(markdown string) Rendered {
	src := []byte(normalizeNewlines(markdown))

	unsafe := blackfriday.Run(src, blackfriday.WithExtensions(extensions))
	html := r.policy.SanitizeBytes(unsafe)

	return Rendered{
		HTML:        string(html),
		Headings:    Headings(markdown),
		ReadMinutes: ReadMinutes(r.plain.SanitizeBytes(unsafe), r.wordsPerMinute),
	}
}

// Headings lists the document's headings with the ids Render gives them.
func Headings(markdown string) []Heading {
	md := blackfriday.New(blackfriday.WithExtensions(extensions))
	root := md.Parse([]byte(normalizeNewlines(markdown)))

	out := []Heading{}
	ids := headingIDs{}
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering || node.Type != blackfriday.Heading {
			return blackfriday.GoToNext
		}

		var text strings.Builder
		node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
			if entering && (n.Type == blackfriday.Text || n.Type == blackfriday.Code) {
				text.Write(n.Literal)
			}
			return blackfriday.GoToNext
		})

		out = append(out, Heading{
			Level: node.HeadingData.Level,
			ID:    ids.unique(node.HeadingData.HeadingID),
			Text:  strings.TrimSpace(text.String()),
		})
		return blackfriday.SkipChildren
	})

	return out
}

// headingIDs hands out anchors the way the HTML renderer does: a repeated
// id gets a -N suffix, first cost, then cost-1, cost-2.
type headingIDs map[string]int

func (seen headingIDs) unique(id string) string {
	if id == "" {
		return id
	}
	for count, found := seen[id]; found; count, found = seen[id] {
		next := fmt.Sprintf("%s-%d", id, count+1)
		if _, taken := seen[next]; !taken {
			seen[id] = count + 1
			id = next
		} else {
			id += "-1"
		}
	}
	seen[id] = 0
	return id
}

// ReadMinutes estimates reading time, never less than one minute.
func ReadMinutes(text []byte, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(string(text)))
	return max(1, int(math.Ceil(float64(words)/float64(wordsPerMinute))))
}

// Progress is how far through the article the reader has scrolled, in
// percent. A page with nothing to scroll is fully read.
func Progress(scrollTop, scrollHeight, viewportHeight float64) float64 {
	scrollable := scrollHeight - viewportHeight
	if scrollable <= 0 || math.IsNaN(scrollable) {
		return 100
	}

	p := scrollTop / scrollable * 100
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
