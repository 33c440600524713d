// Package render turns a stored snapshot into human-readable exports.
package render

import (
    "strings"

    "github.com/hyperifyio/pagechat/internal/extract"
)

// Markdown renders doc as a Markdown document: the title as a level-one
// heading, the description as a blockquote, one section per non-empty
// heading level and the paragraphs in order.
func Markdown(doc extract.Document) string {
    var sb strings.Builder
    sb.WriteString("# ")
    sb.WriteString(doc.Title)
    sb.WriteString("\n\n> ")
    sb.WriteString(doc.Description)
    sb.WriteString("\n")

    if doc.HeadingCount() > 0 {
        sb.WriteString("\n## Headings\n")
        for _, lvl := range extract.HeadingLevels {
            items := doc.Headings[lvl]
            if len(items) == 0 {
                continue
            }
            sb.WriteString("\n### ")
            sb.WriteString(strings.ToUpper(lvl))
            sb.WriteString("\n\n")
            for _, h := range items {
                sb.WriteString("- ")
                sb.WriteString(h)
                sb.WriteString("\n")
            }
        }
    }

    paras := nonEmpty(doc.Paragraphs)
    if len(paras) > 0 {
        sb.WriteString("\n## Paragraphs\n")
        for _, p := range paras {
            sb.WriteString("\n")
            sb.WriteString(p)
            sb.WriteString("\n")
        }
    }
    return sb.String()
}

func nonEmpty(in []string) []string {
    out := make([]string, 0, len(in))
    for _, s := range in {
        if strings.TrimSpace(s) != "" {
            out = append(out, s)
        }
    }
    return out
}
