package presenter

import (
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// HELP AND BANNER
// ══════════════════════════════════════════════════════════════════════════════

const helpText = `🤖 Student Helper Commands:

🗣️ CONVERSATIONAL MODE:
• Ask natural questions like "How can I study better?"
• "I'm struggling with time management, help me"
• "What's the best way to prepare for exams?"
• Chat naturally about any study topic!

📚 STRUCTURED COMMANDS:
• 'add subject [name] grade [grade]' - Add a subject grade
• 'show subjects' or 'show progress' - View all subjects

⏰ REMINDERS (WITH NOTIFICATIONS!):
• 'set reminder [task] at [time]' - Set timed reminder
• 'set reminder [task] in [X] minutes' - Set quick reminder
• 'show reminders' - View all reminders

🎯 GOALS:
• 'set goal [goal]' - Set a study goal
• 'show goals' - View all goals

📊 CALCULATIONS:
• 'calculate cgpa with grades X, Y, Z' - Calculate CGPA
• 'what is gpa/cgpa' - Get explanations

💾 DATA:
Your data is automatically saved in '%s'

🔔 NOTIFICATIONS:
Reminders will automatically notify you when due!`

// HelpOptions carries the runtime details mentioned in the help text.
type HelpOptions struct {
	// Location is where the record is stored, usually the JSON file path.
	Location string
	// Generator is the active text generator provider, empty when disabled.
	Generator string
}

// Help returns the command reference.
func Help(opts HelpOptions) string {
	text := fmt.Sprintf(helpText, opts.Location)
	if opts.Generator != "" {
		return text + fmt.Sprintf("\n\n🧠 Conversational AI: ACTIVE ✅ (%s)", opts.Generator)
	}
	return text + "\n\n🧠 Conversational AI: keyword mode (set GENERATOR_PROVIDER to enable)"
}

// Banner is printed when a chat session starts.
func Banner() string {
	lines := []string{
		"🎓 Welcome to your Student Helper!",
		"I can have natural conversations AND help with structured tasks!",
		"",
		"🌟 Features:",
		"📚 Track your subjects and grades",
		"⏰ Set study reminders (WITH ACTIVE NOTIFICATIONS!)",
		"📊 View your academic progress",
		"🎯 Set and track study goals",
		"💾 Save your data for next time",
		"🗣️ Have natural conversations about studying!",
		"",
		"💬 Try natural questions like:",
		"- 'I'm struggling with time management, can you help?'",
		"- 'What's the best way to study for exams?'",
		"- 'How can I improve my grades?'",
		"- Or use commands: 'add subject Math grade 8.5'",
		"- Type 'help' for all commands or 'quit' to exit",
		strings.Repeat("-", 70),
	}
	return strings.Join(lines, "\n")
}

// Goodbye is printed when the user quits.
const Goodbye = "\n👋 Goodbye! Your data has been saved. Keep studying smart! 🌟"

// Interrupted is printed when the session ends on a signal.
const Interrupted = "👋 Goodbye! Your data has been saved."
