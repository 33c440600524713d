package extract

import (
    "fmt"
    "reflect"
    "strings"
    "testing"
)

func TestFromHTML_ConcreteDocument(t *testing.T) {
    html := `<html><head><title>T</title><meta name="description" content="D"></head><body><h1>A</h1><p>Hello</p><p> World </p></body></html>`

    got := FromHTML([]byte(html))
    want := Document{
        Title:       "T",
        Description: "D",
        Headings: map[string][]string{
            "h1": {"A"}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
        },
        Paragraphs: []string{"Hello", "World"},
    }
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("unexpected document:\n got %#v\nwant %#v", got, want)
    }
}

func TestFromHTML_ParagraphsInDocumentOrder(t *testing.T) {
    var b strings.Builder
    b.WriteString("<html><body>")
    for i := 0; i < 25; i++ {
        fmt.Fprintf(&b, "<div><p>\n\t paragraph %d \n</p></div>", i)
    }
    b.WriteString("</body></html>")

    doc := FromHTML([]byte(b.String()))
    if len(doc.Paragraphs) != 25 {
        t.Fatalf("expected 25 paragraphs, got %d", len(doc.Paragraphs))
    }
    for i, p := range doc.Paragraphs {
        if want := fmt.Sprintf("paragraph %d", i); p != want {
            t.Fatalf("paragraph %d = %q, want %q", i, p, want)
        }
    }
}

func TestFromHTML_AllHeadingLevelsPresent(t *testing.T) {
    doc := FromHTML([]byte(`<html><body><h3>Only three</h3></body></html>`))
    for _, lvl := range HeadingLevels {
        hs, ok := doc.Headings[lvl]
        if !ok {
            t.Fatalf("missing heading level %s", lvl)
        }
        if hs == nil {
            t.Fatalf("heading level %s is nil, want empty slice", lvl)
        }
        if lvl != "h3" && len(hs) != 0 {
            t.Fatalf("expected no %s headings, got %v", lvl, hs)
        }
    }
    if got := doc.Headings["h3"]; len(got) != 1 || got[0] != "Only three" {
        t.Fatalf("unexpected h3 headings: %v", got)
    }
}

func TestFromHTML_HeadingsKeepDocumentOrderPerLevel(t *testing.T) {
    html := `<body><h2>first</h2><h1>top</h1><section><h2>second</h2></section><h6>tiny</h6><h2>third</h2></body>`
    doc := FromHTML([]byte(html))
    if got := doc.Headings["h2"]; !reflect.DeepEqual(got, []string{"first", "second", "third"}) {
        t.Fatalf("h2 = %v", got)
    }
    if got := doc.Headings["h6"]; !reflect.DeepEqual(got, []string{"tiny"}) {
        t.Fatalf("h6 = %v", got)
    }
}

func TestFromHTML_NestedMarkupIsFlattened(t *testing.T) {
    html := `<body><h1>  Hello <em>big</em>
        <a href="#">world</a> </h1><p><span> a </span><b>b</b>   c</p><p>   </p></body>`
    doc := FromHTML([]byte(html))
    if got := doc.Headings["h1"]; len(got) != 1 || got[0] != "Hello big world" {
        t.Fatalf("h1 = %v", got)
    }
    if !reflect.DeepEqual(doc.Paragraphs, []string{"a b c", ""}) {
        t.Fatalf("paragraphs = %#v", doc.Paragraphs)
    }
}

func TestFromHTML_DescriptionFallbacks(t *testing.T) {
    cases := []struct {
        name string
        head string
        want string
    }{
        {"standard", `<meta name="description" content=" Standard ">`, "Standard"},
        {"open graph only", `<meta property="og:description" content="OG">`, "OG"},
        {"standard preferred", `<meta property="og:description" content="OG"><meta name="description" content="Std">`, "Std"},
        {"case insensitive name", `<meta name="Description" content="Upper">`, "Upper"},
        {"missing content falls back", `<meta name="description"><meta property="og:description" content="OG">`, "OG"},
        {"none", `<meta name="keywords" content="k">`, DefaultDescription},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            doc := FromHTML([]byte("<html><head>" + tc.head + "</head><body></body></html>"))
            if doc.Description != tc.want {
                t.Fatalf("description = %q, want %q", doc.Description, tc.want)
            }
        })
    }
}

func TestFromHTML_TitleDefaults(t *testing.T) {
    if got := FromHTML([]byte(`<html><head></head><body><p>x</p></body></html>`)).Title; got != DefaultTitle {
        t.Fatalf("missing title: got %q", got)
    }
    if got := FromHTML([]byte("<title> \n\t </title>")).Title; got != "" {
        t.Fatalf("blank title should yield its trimmed text, got %q", got)
    }
    if got := FromHTML([]byte(`<title> Spaced   Title </title><title>Second</title>`)).Title; got != "Spaced Title" {
        t.Fatalf("first title: got %q", got)
    }
}

func TestFromHTML_EmptyAndMalformedInputs(t *testing.T) {
    inputs := []string{
        "",
        "   ",
        "not html at all",
        "<html>",
        "<p>unclosed <b>bold <h1>heading",
        "<<<>>>&&&;;;</p></div></body>",
        "<meta name=description content>",
        "\x00\xff\xfe<title>\xc3\x28</title>",
    }
    for _, in := range inputs {
        doc := FromHTML([]byte(in))
        for _, lvl := range HeadingLevels {
            if doc.Headings[lvl] == nil {
                t.Fatalf("input %q: heading level %s missing", in, lvl)
            }
        }
        if doc.Paragraphs == nil {
            t.Fatalf("input %q: paragraphs nil", in)
        }
        if doc.Title == "" || doc.Description == "" {
            t.Fatalf("input %q: empty title/description %#v", in, doc)
        }
    }

    empty := FromHTML(nil)
    if !reflect.DeepEqual(empty, Empty()) {
        t.Fatalf("expected defaults for empty input, got %#v", empty)
    }
}

func TestFromHTML_PreservesNonASCII(t *testing.T) {
    doc := FromHTML([]byte(`<title>Café — 東京</title><p>naïve</p>`))
    if doc.Title != "Café — 東京" {
        t.Fatalf("title = %q", doc.Title)
    }
    if doc.Paragraphs[0] != "naïve" {
        t.Fatalf("paragraph = %q", doc.Paragraphs[0])
    }
}

func TestDOMExtractor_MatchesFromHTML(t *testing.T) {
    in := []byte(`<title>x</title><h4>y</h4><p>z</p>`)
    var e Extractor = DOMExtractor{}
    if !reflect.DeepEqual(e.Extract(in), FromHTML(in)) {
        t.Fatalf("extractor result differs from FromHTML")
    }
}

func TestNormalize_FillsMissingKeys(t *testing.T) {
    d := Document{Title: "t", Headings: map[string][]string{"h2": {"b"}}}
    d.Normalize()
    if len(d.Headings) != 6 || d.Paragraphs == nil {
        t.Fatalf("normalize incomplete: %#v", d)
    }
    if d.HeadingCount() != 1 {
        t.Fatalf("heading count = %d", d.HeadingCount())
    }
}
