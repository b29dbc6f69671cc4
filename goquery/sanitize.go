package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkoster/heatscan"
	"golang.org/x/net/html"
)

var _ heatscan.Sanitizer = (*Sanitizer)(nil)

// Markers of promotional and trailing material on detail pages.
const (
	calloutSelector = `div[class*="has-mint-background-color"]`
	captionSelector = "figcaption"
	trailerMarker   = "You might also be interested in"
)

// Sanitizer prunes promotional blocks, image captions, and the trailing
// related-content section from detail page content.
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize applies the pruning rules in order and flattens the result.
// Absent markers degrade silently; sanitizing already-clean content is a
// no-op.
func (s *Sanitizer) Sanitize(contentHTML string) (*heatscan.Sanitized, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINVALID, "failed to parse content: %v", err)
	}

	doc.Find(calloutSelector).Remove()
	doc.Find(captionSelector).Remove()
	truncateAtTrailer(doc)

	body := doc.Find("body")
	cleaned, err := body.Html()
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINTERNAL, "failed to serialize content: %v", err)
	}

	return &heatscan.Sanitized{
		Text: normalizeWhitespace(body.Text()),
		HTML: strings.TrimSpace(cleaned),
	}, nil
}

// truncateAtTrailer finds the first heading that introduces the trailing
// related-content section and removes the heading plus everything after
// it in document order. The marker phrase matches case-insensitively.
func truncateAtTrailer(doc *goquery.Document) {
	marker := strings.ToLower(trailerMarker)
	var heading *html.Node
	doc.Find("h2").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), marker) {
			heading = sel.Get(0)
			return false
		}
		return true
	})
	if heading == nil {
		return
	}

	removeFollowing(heading)
	if heading.Parent != nil {
		heading.Parent.RemoveChild(heading)
	}
}

// removeFollowing removes every node after n in document order, walking
// up from n to the body element.
func removeFollowing(n *html.Node) {
	for n != nil && n.Parent != nil {
		for sib := n.NextSibling; sib != nil; {
			next := sib.NextSibling
			n.Parent.RemoveChild(sib)
			sib = next
		}
		if n.Parent.Type == html.ElementNode && n.Parent.Data == "body" {
			return
		}
		n = n.Parent
	}
}

// normalizeWhitespace collapses whitespace runs to single spaces and
// trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
