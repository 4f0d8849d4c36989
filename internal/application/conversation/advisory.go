package conversation

import "github.com/studyhelper/student-helper-bot/internal/domain/intent"

// Advice answers for the advisory intents, two variants each.
var advice = map[intent.Name][]string{
	intent.GPAQuestion: {
		"GPA stands for Grade Point Average! 📊 It's a numerical representation of your academic performance, usually calculated on a scale of 0-4.0 (US system) or 0-10 (some other systems). It helps schools and employers quickly understand your academic standing.",
		"Great question! GPA (Grade Point Average) is like your academic report card in one number. It shows how well you're doing overall in your studies. Higher GPA = better performance! Most systems use either 0-4.0 or 0-10 scales.",
	},
	intent.CGPAQuestion: {
		"CGPA stands for Cumulative Grade Point Average! 🎓 It's your overall academic performance across ALL semesters or years, while GPA might just be for one semester. Think of CGPA as your complete academic journey summed up in one number!",
		"CGPA is your 'lifetime' academic average! While GPA shows one semester's performance, CGPA shows your ENTIRE academic journey. It's what employers and graduate schools really care about!",
	},
	intent.StudyTips: {
		"Here are proven study strategies! 📚✨\n🎯 Active Learning: Test yourself instead of just re-reading\n⏰ Pomodoro Technique: 25 min study + 5 min break\n📝 Cornell Notes: Divide notes into sections\n🏠 Dedicated Space: Same spot every time\n😴 Sleep: 7-8 hours for memory consolidation\n🔄 Spaced Repetition: Review material at increasing intervals",
		"Absolutely! Here's what research shows works best! 🧠\n💡 Explain concepts to someone else (even yourself!)\n📊 Use visual aids: diagrams, charts, mind maps\n🎵 Create memory tricks and mnemonics\n⚡ Study during your peak energy hours\n🍎 Take care of your body: exercise, nutrition, hydration\n📱 Minimize distractions: phone away, focus apps",
	},
	intent.TimeManagement: {
		"Time management is a superpower! ⚡ Here's how to master it:\n📅 Use a planner (digital or paper)\n🎯 Priority Matrix: Urgent vs Important\n🍎 Eat the frog: Hard tasks first\n⏰ Time blocking: Assign specific hours to tasks\n🚫 Learn to say NO to time-wasters\n🎉 Reward yourself for completing tasks!",
		"Great question! Time management = life management! 🌟\n📝 Brain dump: Write everything down\n🔢 Use the 80/20 rule: Focus on high-impact activities\n⏰ Set realistic deadlines\n🔄 Weekly reviews: What worked? What didn't?\n🧘 Include buffer time for unexpected things\n💪 Build routines to reduce decision fatigue",
	},
	intent.ExamPrep: {
		"Exam preparation strategy! 🎯\n📚 Start early: No cramming!\n📋 Create a study schedule working backwards from exam date\n🎯 Practice tests: Simulate exam conditions\n👥 Study groups: Teach and learn from others\n🧠 Memory techniques: Flashcards, mnemonics\n😌 Stress management: Exercise, meditation, proper sleep\n🍎 Nutrition: Brain food on exam day!",
		"Let's ace those exams! 🏆\n📖 Active reading: Summarize, question, review\n✍️ Practice writing: If it's a written exam\n⏰ Time management during exams: Don't spend too long on one question\n🔍 Review mistakes: Learn from practice tests\n💤 Rest before exams: Tired brain = poor performance\n🎯 Positive mindset: You've got this!",
	},
}

// Advise returns a topic answer for an advisory intent. ok is false for
// any other intent.
func (r *Responder) Advise(name intent.Name) (string, bool) {
	answers, ok := advice[name]
	if !ok {
		return "", false
	}
	return r.choose(answers), true
}
