package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/intent"
)

func first(int) int { return 0 }

func TestResponder_Categories(t *testing.T) {
	r := NewResponder(WithPicker(first))

	tests := []struct {
		input string
		want  string
	}{
		{"I'm struggling with physics", CategoryStruggling},
		{"I have no motivation today", CategoryMotivation},
		{"feeling really stressed", CategoryStress},
		{"how do I get better marks", CategoryImprovement},
		{"what should I memorize first", CategoryStudyMethods},
		{"I keep fighting procrastination", CategoryTimeManagement},
		{"my exam is on friday", CategoryExams},
		{"what about my performance", CategoryGrades},
		{"i am strugling a lot", CategoryStruggling},
		{"feeling overwelmed", CategoryStress},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := r.Match(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Name)
		})
	}
}

func TestResponder_ShortKeywordsAreNotFuzzy(t *testing.T) {
	r := NewResponder(WithPicker(first))
	_, ok := r.Match("a herd of goats")
	assert.False(t, ok, "'hard' is too short for typo matching")
}

func TestResponder_FuzzyDisabled(t *testing.T) {
	r := NewResponder(WithPicker(first), WithFuzzyKeywords(false))
	_, ok := r.Match("i am strugling a lot")
	assert.False(t, ok)

	c, ok := r.Match("i am struggling a lot")
	require.True(t, ok)
	assert.Equal(t, CategoryStruggling, c.Name)
}

func TestResponder_Personalisation(t *testing.T) {
	r := NewResponder(WithPicker(first))

	reply := r.Respond("I want to improve", []string{"Art", "Math", "Physics", "Zoology"})
	assert.True(t, strings.HasPrefix(reply, "📈 Great mindset!"))
	assert.True(t, strings.HasSuffix(reply, "\n\n💡 I see you're tracking: Art, Math, Physics. Pick one to focus on improving!"))

	reply = r.Respond("I want to improve", nil)
	assert.NotContains(t, reply, "I see you're tracking")

	reply = r.Respond("help with my schedule", nil)
	assert.True(t, strings.HasSuffix(reply, timeManagementHint))

	reply = r.Respond("so much pressure", nil)
	assert.True(t, strings.HasSuffix(reply, stressHint))
}

func TestResponder_GreetingThanksFallback(t *testing.T) {
	r := NewResponder(WithPicker(func(n int) int { return n - 1 }))

	assert.Equal(t, greetingReplies[3], r.Respond("Hey there", nil))
	assert.Equal(t, thanksReplies[3], r.Respond("much appreciated", nil))
	assert.Equal(t,
		"That's an interesting point about 'quantum foam'! 🤔 I'm here to help with your studies. What specific aspect would you like to explore? I can help with study strategies, time management, goal setting, or track your academic progress!",
		r.Respond("quantum foam", nil))
}

func TestResponder_PickerOutOfRange(t *testing.T) {
	r := NewResponder(WithPicker(func(int) int { return 99 }))
	assert.Equal(t, greetingReplies[0], r.Respond("hello", nil))
}

func TestResponder_Advise(t *testing.T) {
	r := NewResponder(WithPicker(first))

	for _, name := range []intent.Name{intent.GPAQuestion, intent.CGPAQuestion, intent.StudyTips, intent.TimeManagement, intent.ExamPrep} {
		reply, ok := r.Advise(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, reply, name)
		assert.True(t, name.IsAdvisory())
	}

	reply, _ := r.Advise(intent.GPAQuestion)
	assert.True(t, strings.HasPrefix(reply, "GPA stands for Grade Point Average!"))

	_, ok := r.Advise(intent.ShowGoals)
	assert.False(t, ok)
}
