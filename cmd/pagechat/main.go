package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagechat/internal/store"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps command errors to process exit codes: 2 when there is no
// snapshot to work with, 1 for every other failure.
func exitCode(err error) int {
	var se *statusError
	if errors.As(err, &se) && se.noData {
		return 2
	}
	return 1
}

// statusError carries a user-facing failure message out of a command.
type statusError struct {
	msg    string
	noData bool
}

func (e *statusError) Error() string { return e.msg }

// failure wraps a user-facing message; a cause of store.ErrNotFound marks
// the missing-snapshot case.
func failure(msg string, cause error) error {
	return &statusError{msg: msg, noData: errors.Is(cause, store.ErrNotFound)}
}
