package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// Benchmark a full Scrape against a local server serving a mid-sized page.
func BenchmarkClient_Scrape(b *testing.B) {
	page := "<html><head><title>bench</title></head><body>" + strings.Repeat("<h2>section</h2><p>lorem ipsum dolor sit amet</p>", 200) + "</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "pagechat-bench", Timeout: 5 * time.Second}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Scrape(context.Background(), srv.URL); err != nil {
			b.Fatalf("scrape: %v", err)
		}
	}
}
