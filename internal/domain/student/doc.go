// Package student contains the student record: subjects with their grades,
// reminders, goals and the opaque study session list.
//
// # Record
//
// A Record is one document per installation. Subjects map a normalised name
// to every grade ever added for it; grades are only appended. Reminders and
// goals keep insertion order, which is also the display order.
//
//	rec := student.NewRecord()
//	name, avg := rec.AddGrade("data  structures", 9)
//	// name == "Data Structures", avg == 9
//
// # Summaries
//
// Progress() derives per-subject averages, a tier label and the overall CGPA,
// which is the mean of the per-subject means (not of all grades):
//
//	p := rec.Progress()
//	fmt.Printf("%.2f over %d subjects\n", p.OverallCGPA, len(p.Subjects))
//
// # Commands
//
// ParseGradeCommand, ParseGoalCommand and ExtractGrades turn free text into
// values. They return errors from the shared package whose Message is the
// usage hint shown to the user.
package student
