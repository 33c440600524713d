package extract

import (
    "bytes"
    "strings"
    "unicode"

    "github.com/PuerkitoBio/goquery"
    "golang.org/x/text/unicode/norm"
)

const (
    // DefaultTitle is used when the page has no <title> element.
    DefaultTitle = "No Title Found"
    // DefaultDescription is used when neither a standard nor an Open Graph
    // description meta tag carries content.
    DefaultDescription = "No Description Found"
)

// HeadingLevels lists the heading keys in the order they are stored and rendered.
var HeadingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// Document is the structured snapshot of a single page.
//
// Every text field holds the element's flattened text with leading and
// trailing whitespace removed, inner whitespace runs collapsed to a single
// space and Unicode NFC applied. A present but blank element yields "".
type Document struct {
    Title       string              `json:"title" yaml:"title"`
    Description string              `json:"description" yaml:"description"`
    Headings    map[string][]string `json:"headings" yaml:"headings"`
    Paragraphs  []string            `json:"paragraphs" yaml:"paragraphs"`
}

// Empty returns a document holding only defaults and empty sequences.
func Empty() Document {
    d := Document{Title: DefaultTitle, Description: DefaultDescription}
    d.Normalize()
    return d
}

// Normalize makes sure every heading level is present and no sequence is nil,
// so that serialized output always carries all keys.
func (d *Document) Normalize() {
    if d.Headings == nil {
        d.Headings = make(map[string][]string, len(HeadingLevels))
    }
    for _, lvl := range HeadingLevels {
        if d.Headings[lvl] == nil {
            d.Headings[lvl] = []string{}
        }
    }
    if d.Paragraphs == nil {
        d.Paragraphs = []string{}
    }
}

// HeadingCount returns the total number of headings across all levels.
func (d Document) HeadingCount() int {
    n := 0
    for _, lvl := range HeadingLevels {
        n += len(d.Headings[lvl])
    }
    return n
}

// FromHTML builds a Document from raw HTML. The underlying parser follows the
// HTML5 recovery rules, so malformed markup degrades to missing fields and the
// function never returns an error.
func FromHTML(input []byte) Document {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
    if err != nil || doc == nil {
        return Empty()
    }

    out := Document{
        Title:       findTitle(doc),
        Description: findDescription(doc),
        Headings:    make(map[string][]string, len(HeadingLevels)),
    }
    for _, lvl := range HeadingLevels {
        out.Headings[lvl] = collectTexts(doc.Find(lvl))
    }
    out.Paragraphs = collectTexts(doc.Find("p"))
    out.Normalize()
    return out
}

func findTitle(doc *goquery.Document) string {
    t := doc.Find("title").First()
    if t.Length() == 0 {
        return DefaultTitle
    }
    return cleanText(t.Text())
}

// findDescription prefers <meta name="description"> and falls back to the
// Open Graph property. Tags with a missing or blank content attribute are
// skipped.
func findDescription(doc *goquery.Document) string {
    metas := doc.Find("meta")
    if v, ok := metaContent(metas, "name", "description"); ok {
        return v
    }
    if v, ok := metaContent(metas, "property", "og:description"); ok {
        return v
    }
    return DefaultDescription
}

func metaContent(metas *goquery.Selection, attr, want string) (string, bool) {
    var (
        found string
        ok    bool
    )
    metas.EachWithBreak(func(_ int, s *goquery.Selection) bool {
        v, has := s.Attr(attr)
        if !has || !strings.EqualFold(strings.TrimSpace(v), want) {
            return true
        }
        content := cleanText(s.AttrOr("content", ""))
        if content == "" {
            return true
        }
        found, ok = content, true
        return false
    })
    return found, ok
}

func collectTexts(sel *goquery.Selection) []string {
    out := make([]string, 0, sel.Length())
    sel.Each(func(_ int, s *goquery.Selection) {
        out = append(out, cleanText(s.Text()))
    })
    return out
}

// cleanText trims, collapses whitespace runs and applies NFC so that the same
// visible text always serializes to the same bytes.
func cleanText(s string) string {
    return norm.NFC.String(collapseSpaces(strings.TrimSpace(s)))
}

func collapseSpaces(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    lastSpace := false
    for _, r := range s {
        if unicode.IsSpace(r) {
            if !lastSpace {
                b.WriteByte(' ')
                lastSpace = true
            }
            continue
        }
        b.WriteRune(r)
        lastSpace = false
    }
    return b.String()
}
