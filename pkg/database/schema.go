package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the health-telemetry tables
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createUsersTable,
		createHealthReadingsTable,
		createAlertHistoryTable,
		createMealPlansTable,
		createMealRemindersTable,
		createAppointmentsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createHealthReadingsIndexes,
		createAlertHistoryIndexes,
		createMealPlansIndexes,
		createMealRemindersIndexes,
		createAppointmentsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'patient',
			health_conditions TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createHealthReadingsTable = `
		CREATE TABLE IF NOT EXISTS health_readings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			heart_rate DOUBLE PRECISION,
			bp_systolic INTEGER,
			bp_diastolic INTEGER,
			oxygen_level DOUBLE PRECISION,
			temperature DOUBLE PRECISION,
			glucose_level DOUBLE PRECISION,
			source VARCHAR(20) NOT NULL,
			document_path TEXT,
			report_name TEXT,
			hospital_name TEXT,
			doctor_name TEXT,
			extracted_at TIMESTAMPTZ,
			is_emergency BOOLEAN NOT NULL DEFAULT FALSE,
			recorded_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createAlertHistoryTable = `
		CREATE TABLE IF NOT EXISTS alert_history (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			reading_id UUID REFERENCES health_readings(id) ON DELETE SET NULL,
			alert_type VARCHAR(30) NOT NULL,
			severity VARCHAR(10) NOT NULL,
			message TEXT NOT NULL,
			resolved BOOLEAN NOT NULL DEFAULT FALSE,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createMealPlansTable = `
		CREATE TABLE IF NOT EXISTS meal_plans (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			doctor_id UUID REFERENCES users(id),
			plan_name VARCHAR(200) NOT NULL,
			health_conditions TEXT[] NOT NULL DEFAULT '{}',
			meal_type VARCHAR(20) NOT NULL,
			meal_name VARCHAR(200),
			items JSONB NOT NULL DEFAULT '[]',
			target_calories DOUBLE PRECISION,
			target_protein DOUBLE PRECISION,
			target_carbohydrates DOUBLE PRECISION,
			target_fat DOUBLE PRECISION,
			scheduled_days INTEGER[] NOT NULL DEFAULT '{}',
			scheduled_time VARCHAR(5),
			start_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			end_date TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			notes TEXT,
			reminder_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			reminder_minutes_before INTEGER NOT NULL DEFAULT 15,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createMealRemindersTable = `
		CREATE TABLE IF NOT EXISTS meal_reminders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			meal_plan_id UUID NOT NULL REFERENCES meal_plans(id) ON DELETE CASCADE,
			scheduled_date DATE NOT NULL,
			reminder_time TIMESTAMPTZ NOT NULL,
			meal_type VARCHAR(20) NOT NULL,
			meal_name VARCHAR(200),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
			sent_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (meal_plan_id, scheduled_date)
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			patient_id UUID NOT NULL REFERENCES users(id),
			doctor_id UUID NOT NULL REFERENCES users(id),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			type VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			notes TEXT,
			location VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createHealthReadingsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_health_readings_user_recorded ON health_readings(user_id, recorded_at DESC);
		CREATE INDEX IF NOT EXISTS idx_health_readings_source ON health_readings(source);
		CREATE INDEX IF NOT EXISTS idx_health_readings_emergency ON health_readings(is_emergency);`

	createAlertHistoryIndexes = `
		CREATE INDEX IF NOT EXISTS idx_alert_history_user_created ON alert_history(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_alert_history_severity ON alert_history(severity);`

	createMealPlansIndexes = `
		CREATE INDEX IF NOT EXISTS idx_meal_plans_user_active ON meal_plans(user_id, is_active);`

	createMealRemindersIndexes = `
		CREATE INDEX IF NOT EXISTS idx_meal_reminders_user_status_time ON meal_reminders(user_id, status, reminder_time);
		CREATE INDEX IF NOT EXISTS idx_meal_reminders_due ON meal_reminders(reminder_time) WHERE status = 'pending';`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor_time ON appointments(doctor_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);`
)
