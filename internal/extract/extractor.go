package extract

// Extractor defines a minimal interface for content extraction strategies.
// Implementations must be deterministic and free of side effects.
type Extractor interface {
    // Extract converts raw HTML bytes into a structured Document.
    Extract(input []byte) Document
}

// DOMExtractor walks the parsed DOM with FromHTML.
type DOMExtractor struct{}

func (DOMExtractor) Extract(input []byte) Document {
    return FromHTML(input)
}
