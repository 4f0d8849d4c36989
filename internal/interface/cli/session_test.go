package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/interface/presenter"
)

type echoResponder struct {
	seen []string
}

func (e *echoResponder) Respond(_ context.Context, text string) string {
	e.seen = append(e.seen, text)
	return "echo: " + text
}

type scriptReader struct {
	lines []string
	err   error
}

func (s *scriptReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", s.err
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type blockingReader struct{ release chan struct{} }

func (b *blockingReader) ReadLine() (string, error) {
	<-b.release
	return "", io.EOF
}

func newTestSession(input InputReader) (*Session, *echoResponder, *bytes.Buffer) {
	var out bytes.Buffer
	resp := &echoResponder{}
	return NewSession(resp, input, NewConsole(&out, PlainTheme()), WithBanner("Hello\nworld")), resp, &out
}

func TestSession_AnswersUntilQuit(t *testing.T) {
	s, resp, out := newTestSession(NewLineReader(strings.NewReader("hi there\n\n   \nGoodBye \nnever read\n")))

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"hi there"}, resp.seen, "blank lines are skipped, nothing after quit is read")
	want := "Hello\nworld\n" +
		"\n" + PromptLabel +
		"\n" + AssistantLabel + "echo: hi there\n" +
		"\n" + PromptLabel +
		"\n" + PromptLabel +
		"\n" + PromptLabel +
		presenter.Goodbye + "\n"
	assert.Equal(t, want, out.String())
}

func TestSession_EndOfInput(t *testing.T) {
	s, resp, out := newTestSession(NewLineReader(strings.NewReader("add subject Math grade 9")))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"add subject Math grade 9"}, resp.seen)
	assert.NotContains(t, out.String(), presenter.Goodbye)
}

func TestSession_Interrupted(t *testing.T) {
	s, _, out := newTestSession(&scriptReader{err: ErrInterrupted})

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), "\n"+presenter.Interrupted+"\n"))
}

func TestSession_ReadError(t *testing.T) {
	boom := errors.New("tty gone")
	s, _, _ := newTestSession(&scriptReader{err: boom})

	assert.ErrorIs(t, s.Run(context.Background()), boom)
}

func TestSession_ContextCancel(t *testing.T) {
	reader := &blockingReader{release: make(chan struct{})}
	defer close(reader.release)

	s, _, out := newTestSession(reader)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop on cancel")
	}
	assert.Contains(t, out.String(), presenter.Interrupted)
}

func TestIsQuit(t *testing.T) {
	for _, w := range []string{"quit", " EXIT ", "Bye", "goodbye\t"} {
		assert.True(t, IsQuit(w), w)
	}
	for _, w := range []string{"", "quit now", "bye bye"} {
		assert.False(t, IsQuit(w), w)
	}
}

func TestConsole_AlertReprintsPrompt(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out, PlainTheme())
	ch := NewTerminalChannel(console)

	res := ch.Send(context.Background(), notification.Alert{Task: "study Math", Time: "in 5 minutes"})
	assert.True(t, res.Success)
	assert.Equal(t, notification.ChannelTerminal, ch.Type())

	want := "\n\n🔔 REMINDER ALERT! 🔔\n" +
		"⏰ Time: in 5 minutes\n" +
		"📝 Task: study Math\n" +
		"💡 Don't forget to study Math!\n" +
		notification.Separator + "\n" +
		PromptLabel
	assert.Equal(t, want, out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = ch.Send(ctx, notification.Alert{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Error, context.Canceled)
}

func TestConsole_StyledLabels(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out, DefaultTheme())
	console.Reply("line one\nline two")
	assert.True(t, strings.HasSuffix(out.String(), "line one\nline two\n"), "reply body is not restyled")
}

func TestInteractiveReader_History(t *testing.T) {
	r := &InteractiveReader{maxHistory: 2}
	r.addToHistory("a")
	r.addToHistory("a")
	r.addToHistory("")
	r.addToHistory("b")
	r.addToHistory("c")
	assert.Equal(t, []string{"b", "c"}, r.history)
}

func TestInputModel_Keys(t *testing.T) {
	key := func(m inputModel, k tea.KeyType) inputModel {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		return next.(inputModel)
	}

	m := newInputModel("> ", []string{"first", "second"})
	m.textInput.SetValue("draft")

	m = key(m, tea.KeyUp)
	assert.Equal(t, "second", m.textInput.Value())
	m = key(m, tea.KeyUp)
	m = key(m, tea.KeyUp)
	assert.Equal(t, "first", m.textInput.Value(), "stops at the oldest entry")
	m = key(m, tea.KeyDown)
	assert.Equal(t, "second", m.textInput.Value())
	m = key(m, tea.KeyDown)
	assert.Equal(t, "draft", m.textInput.Value(), "walking past the newest restores the draft")

	m = key(m, tea.KeyCtrlD)
	assert.False(t, m.eof, "Ctrl+D only ends input on an empty line")

	m.textInput.SetValue("")
	m = key(m, tea.KeyCtrlD)
	assert.True(t, m.eof)
	assert.Empty(t, m.View())

	m = key(newInputModel("> ", nil), tea.KeyCtrlC)
	assert.True(t, m.interrupted)

	m = key(newInputModel("> ", nil), tea.KeyEnter)
	assert.True(t, m.done)
}
