package database

import (
	"context"
	"fmt"

	"smartstudio/internal/clock"
	"smartstudio/internal/models"
)

// RecordAudit appends one audit row stamped in studio-local time.
func (db *DB) RecordAudit(ctx context.Context, action, details string) error {
	_, err := db.db.ExecContext(ctx,
		`INSERT INTO audit_logs (action, details, timestamp) VALUES (?, ?, ?)`,
		action, details, clock.Studio{}.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (db *DB) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, action, details, timestamp FROM audit_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
