// Package chat routes one line of user input to the handler for its intent
// and returns the reply text.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/application/command"
	"github.com/studyhelper/student-helper-bot/internal/application/conversation"
	"github.com/studyhelper/student-helper-bot/internal/application/generator"
	"github.com/studyhelper/student-helper-bot/internal/application/query"
	"github.com/studyhelper/student-helper-bot/internal/domain/intent"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/internal/interface/presenter"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// Observer is told the intent of every routed message.
type Observer interface {
	ObserveIntent(name string, structured bool, d time.Duration)
}

// Config holds the Assistant's dependencies. Only Store is required.
type Config struct {
	Store      *persistence.Store
	Classifier *intent.Classifier
	Responder  *conversation.Responder

	// Generator is optional; nil keeps every reply canned.
	Generator generator.Generator
	// GeneratorName is shown in the help text when Generator is set.
	GeneratorName string
	// Location is shown in the help text.
	Location string

	Clock    timeutil.Clock
	NewID    command.IDFunc
	Logger   *logger.Logger
	Observer Observer
}

// Assistant answers chat messages.
type Assistant struct {
	classifier *intent.Classifier
	responder  *conversation.Responder
	gen        generator.Generator
	help       presenter.HelpOptions

	addGrade    *command.AddGradeHandler
	setReminder *command.SetReminderHandler
	setGoal     *command.SetGoalHandler

	progress  *query.GetProgressHandler
	reminders *query.ListRemindersHandler
	goals     *query.ListGoalsHandler

	log      *logger.Logger
	observer Observer
}

// NewAssistant wires the command and query handlers over cfg.Store.
func NewAssistant(cfg Config) *Assistant {
	if cfg.Classifier == nil {
		cfg.Classifier = intent.NewClassifier(intent.NewResolver(nil))
	}
	if cfg.Responder == nil {
		cfg.Responder = conversation.NewResponder()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Location == "" {
		cfg.Location = cfg.Store.BackendName()
	}

	help := presenter.HelpOptions{Location: cfg.Location}
	if cfg.Generator != nil {
		help.Generator = cfg.GeneratorName
		if help.Generator == "" {
			help.Generator = "custom"
		}
	}

	return &Assistant{
		classifier:  cfg.Classifier,
		responder:   cfg.Responder,
		gen:         cfg.Generator,
		help:        help,
		addGrade:    command.NewAddGradeHandler(cfg.Store, cfg.Logger),
		setReminder: command.NewSetReminderHandler(cfg.Store, cfg.Clock, cfg.NewID, cfg.Logger),
		setGoal:     command.NewSetGoalHandler(cfg.Store, cfg.Clock, cfg.NewID),
		progress:    query.NewGetProgressHandler(cfg.Store),
		reminders:   query.NewListRemindersHandler(cfg.Store),
		goals:       query.NewListGoalsHandler(cfg.Store),
		log:         cfg.Logger.With(logger.Component("assistant")),
		observer:    cfg.Observer,
	}
}

// Respond returns the reply for text. Blank input gets an empty reply.
func (a *Assistant) Respond(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	start := time.Now()
	c := a.classifier.Classify(text)
	reply := a.route(ctx, c, text)

	a.log.Debug("message routed",
		logger.Intent(c.Intent.String()),
		logger.Bool("structured", c.Structured),
		logger.Latency(time.Since(start)),
	)
	if a.observer != nil {
		a.observer.ObserveIntent(c.Intent.String(), c.Structured, time.Since(start))
	}
	return reply
}

func (a *Assistant) route(ctx context.Context, c intent.Classification, text string) string {
	if !c.Structured {
		return a.converse(ctx, text)
	}

	switch c.Intent {
	case intent.AddSubject:
		res, err := a.addGrade.Handle(ctx, command.AddGradeCommand{Text: text})
		if err != nil {
			return a.failure(err)
		}
		return presenter.GradeAdded(res)

	case intent.ShowSubjects, intent.ShowProgress:
		return presenter.RenderProgress(a.progress.Handle())

	case intent.SetReminder:
		res, err := a.setReminder.Handle(ctx, command.SetReminderCommand{Text: text})
		if err != nil {
			return a.failure(err)
		}
		return presenter.ReminderSet(res)

	case intent.ShowReminders:
		return presenter.RenderReminders(a.reminders.Handle(query.ListRemindersQuery{}))

	case intent.SetGoal:
		goal, err := a.setGoal.Handle(ctx, command.SetGoalCommand{Text: text})
		if err != nil {
			return a.failure(err)
		}
		return presenter.GoalSet(goal)

	case intent.ShowGoals:
		return presenter.RenderGoals(a.goals.Handle())

	case intent.HelpCommand:
		return presenter.Help(a.help)

	case intent.CGPACalculation:
		grades, cgpa, err := student.ComputeCGPA(text)
		if err != nil {
			return a.failure(err)
		}
		return presenter.CGPA(grades, cgpa)
	}

	if c.Intent.IsAdvisory() {
		if reply, ok := a.generate(ctx, text); ok {
			return reply
		}
		if reply, ok := a.responder.Advise(c.Intent); ok {
			return reply
		}
	}
	return a.converse(ctx, text)
}

func (a *Assistant) converse(ctx context.Context, text string) string {
	if reply, ok := a.generate(ctx, text); ok {
		return reply
	}
	return a.responder.Respond(text, a.progress.SubjectNames())
}

func (a *Assistant) generate(ctx context.Context, text string) (string, bool) {
	if a.gen == nil {
		return "", false
	}
	reply, err := generator.Reply(ctx, a.gen, text)
	if err != nil {
		if !errors.Is(err, generator.ErrUnavailable) {
			a.log.Warn("generator failed", logger.Err(err))
		}
		return "", false
	}
	return reply, true
}

func (a *Assistant) failure(err error) string {
	if !shared.IsValidation(err) {
		a.log.Error("command failed", logger.Err(err))
	}
	return shared.UserMessage(err)
}

// SubjectNames lists the tracked subjects.
func (a *Assistant) SubjectNames() []string { return a.progress.SubjectNames() }
