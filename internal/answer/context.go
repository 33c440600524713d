package answer

import (
    "encoding/json"
    "strings"

    "github.com/hyperifyio/pagechat/internal/extract"
)

// BuildContext renders the snapshot as the grounding text handed to the model:
//
//	Title: <title>
//	Description: <description>
//	Headings: {"h1":[...],...,"h6":[...]}
//	Paragraphs: <p1> <p2> ...
func BuildContext(doc extract.Document) string {
    var sb strings.Builder
    sb.WriteString("Title: ")
    sb.WriteString(doc.Title)
    sb.WriteString("\nDescription: ")
    sb.WriteString(doc.Description)
    sb.WriteString("\nHeadings: ")
    sb.WriteString(renderHeadings(doc.Headings))
    sb.WriteString("\nParagraphs: ")
    sb.WriteString(strings.Join(doc.Paragraphs, " "))
    return sb.String()
}

// BuildPrompt combines context and question into the single user message.
func BuildPrompt(context, question string) string {
    return "Context:\n" + context + "\n\nQuestion: " + question
}

// renderHeadings writes the mapping as compact JSON in h1..h6 order with
// every level present.
func renderHeadings(h map[string][]string) string {
    var sb strings.Builder
    sb.WriteByte('{')
    for i, lvl := range extract.HeadingLevels {
        if i > 0 {
            sb.WriteByte(',')
        }
        items := h[lvl]
        if items == nil {
            items = []string{}
        }
        k, _ := json.Marshal(lvl)
        v, _ := json.Marshal(items)
        sb.Write(k)
        sb.WriteByte(':')
        sb.Write(v)
    }
    sb.WriteByte('}')
    return sb.String()
}
