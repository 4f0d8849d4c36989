package postgres

import (
	"context"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

// DefaultSnapshotKey names the row used when no key is configured.
const DefaultSnapshotKey = "default"

// SnapshotRepository keeps the serialised student record in one JSONB row.
type SnapshotRepository struct {
	conn *Connection
	key  string
}

// NewSnapshotRepository creates a repository for key.
func NewSnapshotRepository(conn *Connection, key string) *SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotRepository{conn: conn, key: key}
}

// Name identifies the backend in logs and metrics.
func (r *SnapshotRepository) Name() string { return "postgres" }

// Load returns the stored document.
func (r *SnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT document FROM student_snapshots WHERE key = $1`

	var doc []byte
	err := r.conn.QueryRow(ctx, query, r.key).Scan(&doc)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "no snapshot for key "+r.key)
	}
	if err != nil {
		return nil, shared.WrapError("store", "Load", shared.ErrIO, "failed to read snapshot", err)
	}
	return doc, nil
}

// Save upserts the document.
func (r *SnapshotRepository) Save(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO student_snapshots (key, document, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.conn.Exec(ctx, query, r.key, string(data)); err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "failed to write snapshot", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ALERT LOG
// ══════════════════════════════════════════════════════════════════════════════

// AlertLog appends every delivered reminder alert to reminder_alerts.
type AlertLog struct {
	conn *Connection
	key  string
}

// NewAlertLog creates an alert channel writing under key.
func NewAlertLog(conn *Connection, key string) *AlertLog {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &AlertLog{conn: conn, key: key}
}

// Type implements notification.Channel.
func (l *AlertLog) Type() notification.ChannelType { return notification.ChannelPostgres }

// Send records the alert.
func (l *AlertLog) Send(ctx context.Context, alert notification.Alert) notification.DeliveryResult {
	query := `
		INSERT INTO reminder_alerts (snapshot_key, reminder_id, task, due_at, fired_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := l.conn.Exec(ctx, query, l.key, alert.ReminderID, alert.Task, alert.DueAt, alert.FiredAt)
	if err != nil {
		return notification.NewFailureResult(l.Type(), time.Now(), err)
	}
	return notification.NewSuccessResult(l.Type(), time.Now())
}

// AlertRecord is one row of the alert history.
type AlertRecord struct {
	ReminderID string    `json:"reminder_id"`
	Task       string    `json:"task"`
	DueAt      string    `json:"due_at"`
	FiredAt    time.Time `json:"fired_at"`
}

// Recent returns the latest alerts, newest first.
func (l *AlertLog) Recent(ctx context.Context, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT reminder_id, task, due_at, fired_at
		FROM reminder_alerts
		WHERE snapshot_key = $1
		ORDER BY fired_at DESC
		LIMIT $2
	`

	rows, err := l.conn.Query(ctx, query, l.key, limit)
	if err != nil {
		return nil, shared.WrapError("alerts", "Recent", shared.ErrIO, "failed to query alerts", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(&rec.ReminderID, &rec.Task, &rec.DueAt, &rec.FiredAt); err != nil {
			return nil, shared.WrapError("alerts", "Recent", shared.ErrIO, "failed to scan alert", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
