package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Chat runs an interactive session: a line starting with http:// or https://
// scrapes that page, ":show" prints the snapshot, ":q" or ":quit" ends the
// session and any other non-blank line is asked as a question.
func (a *App) Chat(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Webpage Scraper with Chatbot Integration")
	fmt.Fprintf(out, "Model: %s\n", a.cfg.LLMModel)
	_, st := a.Snapshot()
	fmt.Fprintln(out, st.Message)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ":q" || line == ":quit":
			return nil
		case line == ":show":
			md, err := a.Export("md", "")
			if err != nil {
				fmt.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprint(out, md)
		case isURL(line):
			fmt.Fprintf(out, "Scraping and processing URL: %s\n", line)
			fmt.Fprintln(out, a.Scrape(ctx, line).Message)
		default:
			answerText, st := a.Ask(ctx, line)
			if !st.OK {
				fmt.Fprintln(out, st.Message)
				continue
			}
			fmt.Fprintln(out, "Answer:")
			fmt.Fprintln(out, answerText)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func isURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
