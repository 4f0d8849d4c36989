package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/studyhelper/student-helper-bot/internal/application/query"
	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/scheduler"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

// SubjectDTO is one subject of the progress view.
type SubjectDTO struct {
	Name    string    `json:"name"`
	Grades  []float64 `json:"grades"`
	Average float64   `json:"average"`
	Tier    string    `json:"tier"`
}

// ProgressDTO is the academic summary.
type ProgressDTO struct {
	Subjects      []SubjectDTO `json:"subjects"`
	OverallCGPA   float64      `json:"overall_cgpa"`
	TotalSubjects int          `json:"total_subjects"`
}

// ReminderDTO is one reminder.
type ReminderDTO struct {
	ID        string `json:"id,omitempty"`
	Task      string `json:"task"`
	Time      string `json:"time"`
	DueAt     string `json:"due_at"`
	CreatedAt string `json:"created_at"`
	Status    string `json:"status"`
}

// GoalDTO is one goal.
type GoalDTO struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
}

// JobDTO is one background job.
type JobDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Schedule    string     `json:"schedule"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	RunCount    int64      `json:"run_count"`
	FailCount   int64      `json:"fail_count"`
	LastError   string     `json:"last_error,omitempty"`
}

func toJobDTO(j scheduler.JobInfo, _ int) JobDTO {
	dto := JobDTO{
		Name:        j.Name,
		Description: j.Description,
		Schedule:    j.Schedule,
		RunCount:    j.RunCount,
		FailCount:   j.FailCount,
	}
	if !j.LastRun.IsZero() {
		dto.LastRun = lo.ToPtr(j.LastRun)
	}
	if j.LastResult != nil && j.LastResult.Error != nil {
		dto.LastError = j.LastResult.Error.Error()
	}
	return dto
}

func toProgressDTO(p student.Progress) ProgressDTO {
	return ProgressDTO{
		Subjects: lo.Map(p.Subjects, func(s student.SubjectSummary, _ int) SubjectDTO {
			return SubjectDTO{Name: s.Name, Grades: s.Grades, Average: s.Average, Tier: tierName(s.Tier)}
		}),
		OverallCGPA:   p.OverallCGPA,
		TotalSubjects: len(p.Subjects),
	}
}

func tierName(t student.Tier) string {
	switch t {
	case student.TierExcellent:
		return "excellent"
	case student.TierVeryGood:
		return "very_good"
	case student.TierGood:
		return "good"
	default:
		return "improving"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name": "Student Helper status API",
		"endpoints": map[string]string{
			"health":    "/health",
			"progress":  "/api/v1/progress",
			"reminders": "/api/v1/reminders",
			"goals":     "/api/v1/goals",
			"jobs":      "/api/v1/jobs",
		},
	}, nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status, nil)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	if s.deps.Progress == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Progress is not available")
		return
	}
	writeJSON(w, r, http.StatusOK, toProgressDTO(s.deps.Progress.Handle()), nil)
}

// handleGetReminders lists reminders; ?pending=true keeps only the ones
// still waiting for their alert.
func (s *Server) handleGetReminders(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reminders == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Reminders are not available")
		return
	}

	pending := false
	if raw := r.URL.Query().Get("pending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "pending must be true or false")
			return
		}
		pending = v
	}

	items := s.deps.Reminders.Handle(query.ListRemindersQuery{PendingOnly: pending})
	dtos := lo.Map(items, func(rem reminder.Reminder, _ int) ReminderDTO {
		return ReminderDTO{
			ID:        rem.ID,
			Task:      rem.Task,
			Time:      rem.Time,
			DueAt:     rem.DueAt,
			CreatedAt: rem.CreatedAt,
			Status:    string(rem.Status()),
		}
	})
	writeJSON(w, r, http.StatusOK, dtos, &ResponseMeta{TotalCount: len(dtos)})
}

func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	if s.deps.Goals == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Goals are not available")
		return
	}

	dtos := lo.Map(s.deps.Goals.Handle(), func(g student.Goal, _ int) GoalDTO {
		return GoalDTO{ID: g.ID, Text: g.Text, CreatedAt: g.CreatedAt, Progress: g.Progress, Target: g.Target}
	})
	writeJSON(w, r, http.StatusOK, dtos, &ResponseMeta{TotalCount: len(dtos)})
}

func (s *Server) handleGetJobs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Jobs == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "The reminder poller is not running")
		return
	}
	dtos := lo.Map(s.deps.Jobs.ListJobs(), toJobDTO)
	writeJSON(w, r, http.StatusOK, dtos, &ResponseMeta{TotalCount: len(dtos)})
}
