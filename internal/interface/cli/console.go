package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
)

const (
	// PromptLabel is printed before every line of input.
	PromptLabel = "💬 Chat with me: "
	// AssistantLabel is printed before every reply.
	AssistantLabel = "🤖 Assistant: "
)

// Console serialises writes to the terminal. The session and the reminder
// alerts print from different goroutines.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	theme Theme
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, theme Theme) *Console {
	return &Console{w: w, theme: theme}
}

func (c *Console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, s)
}

// Banner prints the welcome text with its first line highlighted.
func (c *Console) Banner(text string) {
	title, rest, _ := strings.Cut(text, "\n")
	c.print(c.theme.render(c.theme.Title, title) + "\n" + rest + "\n")
}

// Prompt prints the input prompt without a trailing newline.
func (c *Console) Prompt() {
	c.print("\n" + c.promptLabel())
}

func (c *Console) promptLabel() string {
	return c.theme.render(c.theme.Prompt, PromptLabel)
}

// Reply prints an assistant reply.
func (c *Console) Reply(text string) {
	c.print("\n" + c.theme.render(c.theme.Assistant, AssistantLabel) + text + "\n")
}

// Line prints text followed by a newline.
func (c *Console) Line(text string) {
	c.print(text + "\n")
}

// Alert prints a reminder alert and then the prompt again, since the user is
// usually in the middle of typing.
func (c *Console) Alert(a notification.Alert) {
	lines := a.Lines()
	var b strings.Builder
	b.WriteString("\n\n")
	for i, l := range lines {
		if i == 0 || i == len(lines)-1 {
			l = c.theme.render(c.theme.Alert, l)
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(c.promptLabel())
	c.print(b.String())
}
