package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ══════════════════════════════════════════════════════════════════════════════
// INPUT READERS
// ══════════════════════════════════════════════════════════════════════════════

// ErrInterrupted is returned by ReadLine when the user pressed Ctrl+C.
var ErrInterrupted = errors.New("cli: input interrupted")

// InputReader reads one line of user input. It returns io.EOF when the input
// is exhausted.
type InputReader interface {
	ReadLine() (string, error)
}

// PromptingReader draws its own prompt.
type PromptingReader interface {
	InputReader
	SetPrompt(prompt string)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewInputReader returns a line editor with history when interactive is set
// and in is a terminal, and a plain line reader otherwise (pipes, CI).
func NewInputReader(in *os.File, out io.Writer, interactive bool, maxHistory int) InputReader {
	if !interactive || !IsTerminal(in) {
		return NewLineReader(in)
	}
	return &InteractiveReader{
		in:         in,
		out:        out,
		history:    make([]string, 0, maxHistory),
		maxHistory: maxHistory,
		prompt:     "> ",
	}
}

// ── Plain reader ──

const maxLineBytes = 64 * 1024

// LineReader reads newline-terminated lines.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &LineReader{scanner: s}
}

// ReadLine returns the next line without its terminator.
func (r *LineReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// ── Interactive reader ──

// InteractiveReader edits one line at a time with a bubbletea text input.
// Up and Down walk the history of submitted lines.
type InteractiveReader struct {
	in         io.Reader
	out        io.Writer
	history    []string
	maxHistory int
	prompt     string
}

// SetPrompt sets the prompt drawn in front of the input.
func (r *InteractiveReader) SetPrompt(prompt string) {
	r.prompt = prompt
}

// ReadLine runs the line editor until Enter, Ctrl+C or Ctrl+D.
func (r *InteractiveReader) ReadLine() (string, error) {
	m := newInputModel(r.prompt, r.history)

	p := tea.NewProgram(m, tea.WithInput(r.in), tea.WithOutput(r.out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	result, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from bubbletea: %T", final)
	}

	switch {
	case result.eof:
		return "", io.EOF
	case result.interrupted:
		return "", ErrInterrupted
	}

	line := result.textInput.Value()
	r.addToHistory(strings.TrimSpace(line))
	return line, nil
}

func (r *InteractiveReader) addToHistory(line string) {
	if line == "" {
		return
	}
	if n := len(r.history); n > 0 && r.history[n-1] == line {
		return
	}
	r.history = append(r.history, line)
	if r.maxHistory > 0 && len(r.history) > r.maxHistory {
		r.history = r.history[1:]
	}
}

// inputModel is the bubbletea model behind InteractiveReader.
type inputModel struct {
	textInput    textinput.Model
	history      []string
	historyIndex int    // -1 when editing a fresh line
	draft        string // the fresh line while browsing history
	done         bool
	eof          bool
	interrupted  bool
}

func newInputModel(prompt string, history []string) inputModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = maxLineBytes
	ti.Width = 80
	ti.Focus()
	return inputModel{textInput: ti, history: history, historyIndex: -1}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlC:
			m.interrupted = true
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlD:
			if m.textInput.Value() == "" {
				m.eof = true
				m.done = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if len(m.history) == 0 {
				return m, nil
			}
			if m.historyIndex == -1 {
				m.draft = m.textInput.Value()
				m.historyIndex = len(m.history) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.textInput.SetValue(m.history[m.historyIndex])
			m.textInput.CursorEnd()
			return m, nil

		case tea.KeyDown:
			if m.historyIndex == -1 {
				return m, nil
			}
			if m.historyIndex < len(m.history)-1 {
				m.historyIndex++
				m.textInput.SetValue(m.history[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.textInput.SetValue(m.draft)
			}
			m.textInput.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	return m.textInput.View()
}
