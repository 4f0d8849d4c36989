// Package cli runs the interactive chat in a terminal.
package cli

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/studyhelper/student-helper-bot/internal/interface/presenter"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Responder produces the reply for one line of input.
type Responder interface {
	Respond(ctx context.Context, text string) string
}

var quitWords = []string{"quit", "exit", "bye", "goodbye"}

// IsQuit reports whether line ends the session.
func IsQuit(line string) bool {
	return slices.Contains(quitWords, strings.ToLower(strings.TrimSpace(line)))
}

// Session is one interactive chat.
type Session struct {
	assistant Responder
	input     InputReader
	console   *Console
	banner    string
	log       *logger.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBanner replaces the welcome text.
func WithBanner(banner string) SessionOption {
	return func(s *Session) { s.banner = banner }
}

// WithLogger sets the session logger.
func WithLogger(log *logger.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session reading from input and printing to console.
func NewSession(assistant Responder, input InputReader, console *Console, opts ...SessionOption) *Session {
	s := &Session{
		assistant: assistant,
		input:     input,
		console:   console,
		banner:    presenter.Banner(),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if p, ok := input.(PromptingReader); ok {
		p.SetPrompt(console.promptLabel())
	}
	return s
}

type readResult struct {
	line string
	err  error
}

// Run prints the banner and answers lines until a quit word, end of input or
// ctx cancellation. All three end the session cleanly with a nil error; a
// read failure is returned.
func (s *Session) Run(ctx context.Context) error {
	s.console.Banner(s.banner)

	_, drawsPrompt := s.input.(PromptingReader)
	for {
		if drawsPrompt {
			s.console.Line("")
		} else {
			s.console.Prompt()
		}

		// ReadLine cannot be interrupted, so it runs aside and a cancelled
		// session simply stops waiting for it.
		res := make(chan readResult, 1)
		go func() {
			line, err := s.input.ReadLine()
			res <- readResult{line: line, err: err}
		}()

		var r readResult
		select {
		case <-ctx.Done():
			s.console.Line("\n" + presenter.Interrupted)
			return nil
		case r = <-res:
		}

		switch {
		case errors.Is(r.err, io.EOF):
			s.console.Line("")
			return nil
		case errors.Is(r.err, ErrInterrupted):
			s.console.Line("\n" + presenter.Interrupted)
			return nil
		case r.err != nil:
			s.log.Error("reading input failed", logger.Err(r.err))
			return r.err
		}

		if IsQuit(r.line) {
			s.console.Line(presenter.Goodbye)
			return nil
		}
		if strings.TrimSpace(r.line) == "" {
			continue
		}

		reply := s.assistant.Respond(ctx, r.line)
		if reply == "" {
			continue
		}
		s.console.Reply(reply)
	}
}
