package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagechat/internal/answer"
	"github.com/hyperifyio/pagechat/internal/cache"
	"github.com/hyperifyio/pagechat/internal/extract"
	"github.com/hyperifyio/pagechat/internal/fetch"
	"github.com/hyperifyio/pagechat/internal/llm"
	"github.com/hyperifyio/pagechat/internal/render"
	"github.com/hyperifyio/pagechat/internal/store"
)

// User-facing status messages.
const (
	MsgEmptyURL      = "Please enter a valid URL."
	MsgScrapeSuccess = "Webpage scraped and data saved successfully!"
	MsgNoData        = "No data available. Please scrape a webpage first."
	MsgDataLoaded    = "Scraped data loaded successfully."
)

// Status is the outcome of a user-facing operation. Failures carry a
// readable message and never a stack trace.
type Status struct {
	OK      bool
	Message string
	// Err is the underlying cause of a failure, when there is one.
	Err     error
}

func ok(msg string) Status     { return Status{OK: true, Message: msg} }
func failed(msg string) Status { return Status{OK: false, Message: msg} }

func failedWith(msg string, err error) Status {
	return Status{OK: false, Message: msg, Err: err}
}

// StatusError reports a failed Status as an error. Its text is the
// user-facing message and it unwraps to the cause.
type StatusError struct {
	Message string
	Err     error
}

func (e *StatusError) Error() string { return e.Message }
func (e *StatusError) Unwrap() error { return e.Err }

// App wires the fetcher, the snapshot store and the answerer together.
type App struct {
	cfg      Config
	store    *store.Store
	fetcher  *fetch.Client
	answerer *answer.Answerer
	models   llm.ModelLister
	clients  []*http.Client
}

// New builds an App from cfg. Missing fields take their defaults. ctx bounds
// the answer cache housekeeping done at startup.
func New(ctx context.Context, cfg Config) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	llmHTTP := newHTTPClient(0)
	pageHTTP := newHTTPClient(cfg.FetchTimeout)
	provider := llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, llmHTTP)
	a := &App{
		cfg:     cfg,
		store:   store.New(cfg.DataPath),
		clients: []*http.Client{llmHTTP, pageHTTP},
		fetcher: &fetch.Client{
			HTTPClient: pageHTTP,
			UserAgent:  cfg.UserAgent,
			Timeout:    cfg.FetchTimeout,
			Extractor:  extract.DOMExtractor{},
		},
		answerer: &answer.Answerer{
			Client:       provider,
			Model:        cfg.LLMModel,
			Timeout:      cfg.LLMTimeout,
			SystemPrompt: cfg.SystemPrompt,
		},
		models: provider,
	}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(ctx, cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired answers")
			}
		}
		a.answerer.Cache = &cache.AnswerCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	return a, nil
}

// Close releases idle connections held by the page and model clients.
func (a *App) Close() {
	for _, c := range a.clients {
		c.CloseIdleConnections()
	}
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// Scrape fetches rawURL, extracts it and replaces the stored snapshot. The
// store is only touched when the fetch succeeds.
func (a *App) Scrape(ctx context.Context, rawURL string) Status {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return failed(MsgEmptyURL)
	}
	log.Info().Str("url", rawURL).Msg("scraping")
	doc, err := a.fetcher.Scrape(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("scrape failed")
		return failedWith(fmt.Sprintf("Error scraping the webpage: %v", err), err)
	}
	if err := a.store.Save(doc); err != nil {
		log.Error().Err(err).Str("path", a.store.Path).Msg("save failed")
		return failedWith(fmt.Sprintf("Failed to update the data file: %v", err), err)
	}
	log.Info().
		Str("url", rawURL).
		Str("path", a.store.Path).
		Int("paragraphs", len(doc.Paragraphs)).
		Msg("snapshot updated")
	return ok(MsgScrapeSuccess)
}

// Snapshot loads the stored document. A missing or unreadable snapshot is
// reported through Status.
func (a *App) Snapshot() (extract.Document, Status) {
	doc, err := a.store.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return extract.Document{}, failedWith(MsgNoData, err)
		}
		log.Warn().Err(err).Str("path", a.store.Path).Msg("snapshot unreadable")
		return extract.Document{}, failedWith(fmt.Sprintf("Error reading data file: %v", err), err)
	}
	return doc, ok(MsgDataLoaded)
}

// Ask answers question from the stored snapshot. Model failures are returned
// as the answer text; only a missing snapshot yields a failed Status.
func (a *App) Ask(ctx context.Context, question string) (string, Status) {
	doc, st := a.Snapshot()
	if !st.OK {
		return "", st
	}
	return a.answerer.AnswerText(ctx, doc, question), st
}

// Models lists the models offered by the configured backend, sorted by id.
func (a *App) Models(ctx context.Context) ([]string, error) {
	if a.models == nil {
		return nil, errors.New("model listing not supported")
	}
	list, err := a.models.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Export renders the stored snapshot. Format "md" (or "markdown") returns the
// Markdown text and writes it to outPath when set; "pdf" requires outPath.
func (a *App) Export(format, outPath string) (string, error) {
	doc, st := a.Snapshot()
	if !st.OK {
		return "", &StatusError{Message: st.Message, Err: st.Err}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		md := render.Markdown(doc)
		if outPath != "" {
			if err := writeFile(outPath, []byte(md)); err != nil {
				return "", fmt.Errorf("write output: %w", err)
			}
		}
		return md, nil
	case "pdf":
		if outPath == "" {
			return "", errors.New("pdf export requires an output path")
		}
		if err := render.WritePDF(doc, outPath); err != nil {
			return "", fmt.Errorf("write pdf: %w", err)
		}
		return "", nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}
