package database

import (
	"context"
	"fmt"
	"strings"

	"smartstudio/internal/models"
)

// SeedEquipment inserts the configured gear list, skipping names that
// already exist. Called once at startup.
func (db *DB) SeedEquipment(ctx context.Context, names []string) error {
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		_, err := db.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO equipment (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("failed to seed equipment %q: %w", name, err)
		}
	}
	return nil
}

func (db *DB) AddEquipment(ctx context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("equipment name is empty")
	}
	_, err := db.db.ExecContext(ctx, `INSERT INTO equipment (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to add equipment: %w", err)
	}
	return nil
}

func (db *DB) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT id, name, created_at FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (db *DB) ListEquipmentNames(ctx context.Context) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT name FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
