package database

import (
	"context"
	"fmt"
	"time"

	"smartstudio/internal/models"
)

func (db *DB) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.Status == "" {
		course.Status = models.StatusActive
	}
	result, err := db.db.ExecContext(ctx,
		`INSERT INTO courses (student_name, instrument, schedule_day, schedule_time, duration, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.StudentName,
		course.Instrument,
		course.ScheduleDay,
		course.ScheduleTime,
		course.Duration,
		course.Status,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	course.ID = id
	return nil
}

func (db *DB) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, student_name, instrument, schedule_day, schedule_time, duration, status, created_at
         FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.StudentName, &c.Instrument, &c.ScheduleDay, &c.ScheduleTime, &c.Duration, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (db *DB) DeleteCourse(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
