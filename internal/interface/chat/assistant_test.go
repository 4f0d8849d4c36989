package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studyhelper/student-helper-bot/internal/application/conversation"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/internal/interface/presenter"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

type memBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	saveErr error
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "empty")
	}
	return m.data, nil
}

func (m *memBackend) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = data
	return nil
}

type scriptedGenerator struct {
	reply string
	err   error
	calls int
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

type intentRecorder struct {
	names []string
}

func (r *intentRecorder) ObserveIntent(name string, _ bool, _ time.Duration) {
	r.names = append(r.names, name)
}

var testNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)

func newAssistant(t *testing.T, cfg Config) (*Assistant, *memBackend) {
	t.Helper()
	backend := &memBackend{}
	cfg.Store = persistence.NewStore(backend)
	cfg.Clock = timeutil.NewFixedClock(testNow)
	cfg.NewID = func() string { return "id-1" }
	cfg.Responder = conversation.NewResponder(conversation.WithPicker(func(int) int { return 0 }))
	cfg.Location = "student_data.json"
	return NewAssistant(cfg), backend
}

func TestAssistant_GradesAndProgress(t *testing.T) {
	a, backend := newAssistant(t, Config{})
	ctx := context.Background()

	assert.Equal(t, "✅ Added Math: 8.0\n📊 Current average in Math: 8.00\n💾 Data saved!",
		a.Respond(ctx, "add subject Math grade 8"))
	assert.Equal(t, "✅ Added Math: 9.5\n📊 Current average in Math: 8.75\n💾 Data saved!",
		a.Respond(ctx, "add subject math grade 9.5"))
	assert.Equal(t, 2, backend.saves)

	backend.saveErr = errors.New("read-only file system")
	reply := a.Respond(ctx, "add subject Art grade 7")
	assert.Equal(t, "✅ Added Art: 7.0\n📊 Current average in Art: 7.00\n"+presenter.NotSaved, reply)
	backend.saveErr = nil

	progress := a.Respond(ctx, "show my progress")
	assert.Contains(t, progress, "📚 Math:\n   Grades: [8.0, 9.5]\n   Average: 8.75 🌟 Excellent")
	assert.Equal(t, progress, a.Respond(ctx, "show subjects"))

	assert.True(t, strings.HasPrefix(a.Respond(ctx, "add subject grade"), "❌ Format:"))
	assert.Equal(t, 3, backend.saves, "a bad command does not save")
}

func TestAssistant_Reminders(t *testing.T) {
	a, _ := newAssistant(t, Config{})
	ctx := context.Background()

	assert.Equal(t, "⏰ No reminders set! Try: 'set reminder study Math in 5 minutes'", a.Respond(ctx, "show reminders"))

	got := a.Respond(ctx, "set reminder study Physics in 10 minutes")
	assert.Equal(t, "⏰ Reminder set!\n📝 Task: study Physics\n🕐 Time: in 10 minutes\n⚡ I'll notify you automatically when it's time!\n💾 Reminder saved!", got)

	list := a.Respond(ctx, "show reminders")
	assert.Contains(t, list, "1. 📝 study Physics\n   🕐 in 10 minutes\n   ⏳ Pending")

	assert.True(t, strings.HasPrefix(a.Respond(ctx, "set reminder something"), "⏰ Format:"))
}

func TestAssistant_Goals(t *testing.T) {
	a, _ := newAssistant(t, Config{})
	ctx := context.Background()

	assert.Equal(t, "🎯 Goal set: study 2 hours daily\n📈 Track your progress with 'show goals'\n💪 You've got this!",
		a.Respond(ctx, "set goal study 2 hours daily"))
	assert.Contains(t, a.Respond(ctx, "show goals"), "1. 📋 study 2 hours daily\n   📅 Created: 2025-05-01\n   📈 Progress: 0%")
	assert.True(t, strings.HasPrefix(a.Respond(ctx, "set goal"), "🎯 Format:"))
}

func TestAssistant_CGPA(t *testing.T) {
	a, _ := newAssistant(t, Config{})
	ctx := context.Background()

	assert.Equal(t, "🎯 CGPA: 8.00 from grades [8.0, 9.0, 7.0]\n💡 Add these to tracking: 'add subject [name] grade [grade]'",
		a.Respond(ctx, "calculate cgpa with grades 8, 9, 15, 7"))
	assert.Contains(t, a.Respond(ctx, "my grades are 6 and 8"), "🎯 CGPA: 7.00")
	assert.Equal(t, "🧮 CGPA Calculator ready! Format: 'calculate cgpa with grades 8, 9, 7, 8'",
		a.Respond(ctx, "calculate cgpa"))
}

func TestAssistant_HelpAdviceAndConversation(t *testing.T) {
	rec := &intentRecorder{}
	a, _ := newAssistant(t, Config{Observer: rec})
	ctx := context.Background()

	assert.Contains(t, a.Respond(ctx, "help"), "Your data is automatically saved in 'student_data.json'")
	assert.True(t, strings.HasPrefix(a.Respond(ctx, "what is gpa"), "GPA stands for Grade Point Average!"))
	assert.True(t, strings.HasPrefix(a.Respond(ctx, "I'm so stressed"), "😌 Feeling stressed is normal"))
	assert.Equal(t, "", a.Respond(ctx, "   "))

	assert.Equal(t, []string{"help_command", "gpa_question", "unknown"}, rec.names)
}

func TestAssistant_GeneratorFirstThenFallback(t *testing.T) {
	gen := &scriptedGenerator{reply: "Break the chapter into three short sessions."}
	a, _ := newAssistant(t, Config{Generator: gen, GeneratorName: "fake"})
	ctx := context.Background()

	assert.Equal(t, "🤖 Break the chapter into three short sessions.", a.Respond(ctx, "the chapter is long"))
	assert.Equal(t, "🤖 Break the chapter into three short sessions.", a.Respond(ctx, "explain gpa"))
	assert.Contains(t, a.Respond(ctx, "help"), "ACTIVE ✅ (fake)")
	assert.Equal(t, 2, gen.calls, "structured commands never reach the generator")

	gen.err = errors.New("offline")
	assert.True(t, strings.HasPrefix(a.Respond(ctx, "explain gpa"), "GPA stands for Grade Point Average!"))
	assert.True(t, strings.HasPrefix(a.Respond(ctx, "hello"), "Hello! 👋"))
}
