// Package conversation produces the replies for input that is not a
// structured command: keyword categories with canned responses, greetings,
// gratitude and a generic fallback, plus the advisory topic answers.
package conversation

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORIES
// ══════════════════════════════════════════════════════════════════════════════

// Category is one keyword group with its response bank.
type Category struct {
	Name      string
	Keywords  []string
	Responses []string
}

const (
	CategoryStruggling     = "struggling"
	CategoryMotivation     = "motivation"
	CategoryStress         = "stress"
	CategoryImprovement    = "improvement"
	CategoryStudyMethods   = "study_methods"
	CategoryTimeManagement = "time_management"
	CategoryExams          = "exams"
	CategoryGrades         = "grades"
)

// DefaultCategories returns the categories in match order.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:     CategoryStruggling,
			Keywords: []string{"struggling", "difficult", "hard", "trouble", "challenge", "problem"},
			Responses: []string{
				"I understand you're facing some challenges! 💪 That's completely normal for students. What specific area are you struggling with? I can help with study techniques, time management, or subject-specific advice.",
				"Everyone struggles sometimes - you're not alone! 🤗 Tell me more about what's difficult for you. Is it a particular subject, time management, or study methods?",
				"Struggles are part of the learning journey! 🌱 The fact that you're asking for help shows you're on the right track. What would you like to focus on improving?",
			},
		},
		{
			Name:     CategoryMotivation,
			Keywords: []string{"motivation", "motivated", "inspire", "encourage", "give up", "demotivated"},
			Responses: []string{
				"🌟 Stay motivated! Remember why you started studying. Every small step counts! Set achievable goals and celebrate your progress. You've got this! 💪",
				"Motivation comes and goes, but discipline stays! 🔥 Try breaking your big goals into smaller wins. Each completed task is progress!",
				"You're capable of amazing things! 🚀 Sometimes we just need to remind ourselves of our 'why'. What are you studying towards?",
			},
		},
		{
			Name:     CategoryStress,
			Keywords: []string{"stress", "stressed", "anxiety", "pressure", "overwhelmed", "worried"},
			Responses: []string{
				"😌 Feeling stressed is normal, but let's manage it together! Try: 1) Break tasks into smaller chunks 2) Use the Pomodoro technique (25min study + 5min break) 3) Take regular breaks 4) Get enough sleep. Deep breaths! 🧘",
				"Stress happens to everyone! 💙 Let's tackle this step by step. What's causing the most stress right now? We can make a plan together.",
				"Take a deep breath! 🌬️ Stress often comes from feeling overwhelmed. Let's organize your tasks and set some manageable study reminders.",
			},
		},
		{
			Name:     CategoryImprovement,
			Keywords: []string{"improve", "better", "get good", "enhance", "upgrade", "boost"},
			Responses: []string{
				"📈 Great mindset! To improve: 1) Track your current performance 2) Set specific goals 3) Use active study techniques 4) Regular practice 5) Get feedback. What subject would you like to focus on?",
				"Love the growth mindset! 🌱 Improvement comes from consistent effort. Let's identify your current level and create a plan to level up!",
				"The fact that you want to improve shows you're already on the right path! 🎯 Let's set some specific goals and track your progress.",
			},
		},
		{
			Name:     CategoryStudyMethods,
			Keywords: []string{"how to study", "study methods", "study techniques", "learn better", "memorize"},
			Responses: []string{
				"📚 Great study techniques: 1) Active recall (test yourself) 2) Spaced repetition 3) Pomodoro technique 4) Teach others 5) Make summaries 6) Practice problems. Which subject are you studying?",
				"Effective studying is about quality, not quantity! 🎯 Try the Feynman technique: explain concepts in simple terms. If you can't explain it simply, you don't understand it well enough.",
				"Smart study tips: 1) Study in chunks, not marathons 2) Use multiple senses 3) Connect new info to what you know 4) Take breaks 5) Stay hydrated! 💧",
			},
		},
		{
			Name:     CategoryTimeManagement,
			Keywords: []string{"time management", "schedule", "organize time", "procrastination", "deadline"},
			Responses: []string{
				"⏰ Time management tips: 1) Use a planner 2) Prioritize with the Eisenhower Matrix 3) Time blocking 4) Eliminate distractions 5) Set deadlines before the real ones. What's your biggest time challenge?",
				"Time is your most valuable resource! ⌛ Try the 2-minute rule: if something takes less than 2 minutes, do it now. For bigger tasks, break them down.",
				"Procrastination killer tips: 1) Start with 5 minutes 2) Remove barriers 3) Use the 'Swiss cheese' method (poke holes in big tasks) 4) Reward yourself! 🎉",
			},
		},
		{
			Name:     CategoryExams,
			Keywords: []string{"exam", "test", "preparation", "exam prep", "nervous about exam"},
			Responses: []string{
				"🎯 Exam prep strategy: 1) Start early 2) Create a study schedule 3) Practice with past papers 4) Study in exam conditions 5) Get enough sleep 6) Eat brain food 7) Stay calm and confident!",
				"Exam success formula: Preparation + Practice + Positive mindset! 📝 Focus on understanding concepts, not just memorizing. How long until your exam?",
				"Exam nerves are normal! 😊 Channel that energy into focused preparation. Create a realistic study plan and stick to it. You've got this! 💪",
			},
		},
		{
			Name:     CategoryGrades,
			Keywords: []string{"grades", "marks", "score", "gpa", "cgpa", "performance"},
			Responses: []string{
				"📊 Grades reflect effort, not worth! Focus on learning and improvement. Track your progress with 'show my progress' and set goals with 'set goal [target]'. What subject would you like to improve in?",
				"Remember: grades are feedback, not judgment! 🎯 Use them to identify areas for improvement. I can help you track your academic progress!",
				"Good grades come from good habits! 📈 Consistent study, active participation, and seeking help when needed. Let's work on building those habits together!",
			},
		},
	}
}

var (
	greetingKeywords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	greetingReplies  = []string{
		"Hello! 👋 I'm here to help with your studies! What's on your mind today?",
		"Hi there! 😊 Ready to tackle some academic challenges together?",
		"Hey! 🎓 How can I help you with your studies today?",
		"Hello! 🌟 What academic goal are you working on today?",
	}

	thanksKeywords = []string{"thank", "thanks", "appreciate", "helpful"}
	thanksReplies  = []string{
		"You're very welcome! 😊 That's what I'm here for! Any other questions?",
		"Happy to help! 🌟 Keep up the great work with your studies!",
		"Glad I could help! 💪 You're doing great - keep going!",
		"My pleasure! 🎯 Remember, I'm always here when you need study support!",
	}
)

const (
	improvementHintFormat = "\n\n💡 I see you're tracking: %s. Pick one to focus on improving!"
	timeManagementHint    = "\n\n⏰ Tip: Try 'set reminder take break in 25 minutes' for Pomodoro!"
	stressHint            = "\n\n💙 Remember: You can set study reminders to pace yourself better!"

	fallbackFormat = "That's an interesting point about '%s'! 🤔 I'm here to help with your studies. What specific aspect would you like to explore? I can help with study strategies, time management, goal setting, or track your academic progress!"

	// Keywords shorter than this only match as substrings.
	fuzzyMinLen = 5
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONDER
// ══════════════════════════════════════════════════════════════════════════════

// Picker returns an index in [0, n).
type Picker func(n int) int

// Responder answers free-form messages.
type Responder struct {
	categories []Category
	pick       Picker
	fuzzy      bool
}

// Option configures a Responder.
type Option func(*Responder)

// WithPicker replaces the random choice, mostly for tests.
func WithPicker(p Picker) Option {
	return func(r *Responder) { r.pick = p }
}

// WithCategories replaces the default category table.
func WithCategories(c []Category) Option {
	return func(r *Responder) { r.categories = c }
}

// WithFuzzyKeywords turns typo-tolerant keyword matching on or off.
func WithFuzzyKeywords(enabled bool) Option {
	return func(r *Responder) { r.fuzzy = enabled }
}

// NewResponder creates a responder over DefaultCategories.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		categories: DefaultCategories(),
		pick:       rand.IntN,
		fuzzy:      true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match returns the first category whose keywords occur in text.
func (r *Responder) Match(text string) (Category, bool) {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	return lo.Find(r.categories, func(c Category) bool {
		return containsKeyword(lower, words, c.Keywords, r.fuzzy)
	})
}

// Respond picks a reply for text. subjects are the tracked subject names,
// used to personalise improvement advice.
func (r *Responder) Respond(text string, subjects []string) string {
	if c, ok := r.Match(text); ok {
		reply := r.choose(c.Responses)
		switch c.Name {
		case CategoryImprovement:
			if len(subjects) > 0 {
				reply += fmt.Sprintf(improvementHintFormat, strings.Join(lo.Slice(subjects, 0, 3), ", "))
			}
		case CategoryTimeManagement:
			reply += timeManagementHint
		case CategoryStress:
			reply += stressHint
		}
		return reply
	}

	lower := strings.ToLower(text)
	if lo.SomeBy(greetingKeywords, func(k string) bool { return strings.Contains(lower, k) }) {
		return r.choose(greetingReplies)
	}
	if lo.SomeBy(thanksKeywords, func(k string) bool { return strings.Contains(lower, k) }) {
		return r.choose(thanksReplies)
	}
	return Fallback(text)
}

// Fallback is the reply when nothing else applies.
func Fallback(text string) string {
	return fmt.Sprintf(fallbackFormat, text)
}

func (r *Responder) choose(replies []string) string {
	if len(replies) == 0 {
		return ""
	}
	i := r.pick(len(replies))
	if i < 0 || i >= len(replies) {
		i = 0
	}
	return replies[i]
}

// containsKeyword matches keywords as substrings of the lowercased text. A
// single-word keyword of fuzzyMinLen letters or more also matches a word of
// the input with the same first letter within a small edit distance, so
// "strugling" still counts as "struggling".
func containsKeyword(lower string, words []string, keywords []string, fuzzyMatch bool) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	if !fuzzyMatch {
		return false
	}
	for _, k := range keywords {
		if len(k) < fuzzyMinLen || strings.Contains(k, " ") {
			continue
		}
		for _, w := range words {
			w = strings.Trim(w, ".,!?;:'\"()")
			if len(w) < fuzzyMinLen || w[0] != k[0] {
				continue
			}
			if fuzzy.LevenshteinDistance(k, w) <= maxTypos(k) {
				return true
			}
		}
	}
	return false
}

func maxTypos(keyword string) int {
	if len(keyword) >= 9 {
		return 2
	}
	return 1
}
