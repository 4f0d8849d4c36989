package postgres

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_student_snapshots",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_reminder_alerts",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: STUDENT SNAPSHOTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- One row per data key; the whole record lives in document.
CREATE TABLE IF NOT EXISTS student_snapshots (
    key TEXT PRIMARY KEY,
    document JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS student_snapshots;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: REMINDER ALERTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS reminder_alerts (
    id BIGSERIAL PRIMARY KEY,
    snapshot_key TEXT NOT NULL,
    reminder_id TEXT NOT NULL,
    task TEXT NOT NULL,
    due_at TEXT NOT NULL,
    fired_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reminder_alerts_key_fired ON reminder_alerts(snapshot_key, fired_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS reminder_alerts;
`
