package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
)

// SchemaSQL is the reference Chimera schema for SQLite.
//
// Production runs against an externally provisioned MySQL database; this copy
// exists for local development (`chimera db init`) and tests. Tests load it via
// GetSchemaSQL() rather than declaring their own tables.
//
// Statements the client runs must work on both MySQL and SQLite, which is why
// the Rank column is always written with backticks.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS TRAINER (
	Trainer_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT NOT NULL,
	NotorietyScore INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS RESEARCH_PROJECT (
	Project_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Title TEXT NOT NULL,
	Status TEXT NOT NULL DEFAULT 'Active'
);

CREATE TABLE IF NOT EXISTS BASE (
	Base_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT NOT NULL UNIQUE,
	Boss_ID INTEGER,
	FOREIGN KEY (Boss_ID) REFERENCES BOSS(Boss_Personnel_ID)
);

CREATE TABLE IF NOT EXISTS PERSONNEL (
	Personnel_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	FName TEXT NOT NULL,
	LName TEXT NOT NULL,
	` + "`Rank`" + ` TEXT NOT NULL CHECK(` + "`Rank`" + ` IN ('Boss', 'Grunt', 'Scientist')),
	StartDate DATE NOT NULL,
	Base_ID INTEGER,
	FOREIGN KEY (Base_ID) REFERENCES BASE(Base_ID)
);

CREATE INDEX IF NOT EXISTS idx_personnel_base ON PERSONNEL(Base_ID);

CREATE TABLE IF NOT EXISTS GRUNT (
	Grunt_Personnel_ID INTEGER PRIMARY KEY,
	Squad_ID INTEGER,
	FOREIGN KEY (Grunt_Personnel_ID) REFERENCES PERSONNEL(Personnel_ID) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS SCIENTIST (
	Scientist_Personnel_ID INTEGER PRIMARY KEY,
	Specialization TEXT NOT NULL,
	Project_ID INTEGER,
	FOREIGN KEY (Scientist_Personnel_ID) REFERENCES PERSONNEL(Personnel_ID) ON DELETE CASCADE,
	FOREIGN KEY (Project_ID) REFERENCES RESEARCH_PROJECT(Project_ID)
);

CREATE TABLE IF NOT EXISTS BOSS (
	Boss_Personnel_ID INTEGER PRIMARY KEY,
	Region_Managed TEXT NOT NULL,
	FOREIGN KEY (Boss_Personnel_ID) REFERENCES PERSONNEL(Personnel_ID) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS MISSION (
	Mission_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Objective TEXT NOT NULL,
	Status TEXT NOT NULL CHECK(Status IN ('Pending', 'Active', 'Completed', 'Failed', 'Aborted')) DEFAULT 'Pending',
	Target_Trainer_ID INTEGER,
	EndDate DATE,
	FOREIGN KEY (Target_Trainer_ID) REFERENCES TRAINER(Trainer_ID)
);

CREATE TABLE IF NOT EXISTS MISSION_ASSIGNMENT (
	Mission_ID INTEGER NOT NULL,
	Personnel_ID INTEGER NOT NULL,
	Role TEXT NOT NULL,
	Assignment_Status TEXT NOT NULL DEFAULT 'Assigned',
	PRIMARY KEY (Mission_ID, Personnel_ID),
	FOREIGN KEY (Mission_ID) REFERENCES MISSION(Mission_ID),
	FOREIGN KEY (Personnel_ID) REFERENCES PERSONNEL(Personnel_ID)
);

CREATE TABLE IF NOT EXISTS ASSET (
	Asset_Code TEXT PRIMARY KEY,
	Asset_Type TEXT NOT NULL,
	Value_Estimate DECIMAL(12, 2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS MISSION_ASSETS (
	Mission_ID INTEGER NOT NULL,
	Asset_Code TEXT NOT NULL,
	Acquisition_Status TEXT NOT NULL,
	PRIMARY KEY (Mission_ID, Asset_Code),
	FOREIGN KEY (Mission_ID) REFERENCES MISSION(Mission_ID),
	FOREIGN KEY (Asset_Code) REFERENCES ASSET(Asset_Code)
);

CREATE TABLE IF NOT EXISTS POKEMON (
	Pokemon_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT NOT NULL,
	HP INTEGER NOT NULL,
	Attack INTEGER NOT NULL,
	Defense INTEGER NOT NULL,
	Project_ID INTEGER,
	FOREIGN KEY (Project_ID) REFERENCES RESEARCH_PROJECT(Project_ID)
);

CREATE TABLE IF NOT EXISTS POKEMON_TYPE (
	Pokemon_ID INTEGER NOT NULL,
	Type TEXT NOT NULL,
	PRIMARY KEY (Pokemon_ID, Type),
	FOREIGN KEY (Pokemon_ID) REFERENCES POKEMON(Pokemon_ID) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS OWNERSHIP (
	Personnel_ID INTEGER NOT NULL,
	Pokemon_ID INTEGER NOT NULL UNIQUE,
	PRIMARY KEY (Personnel_ID, Pokemon_ID),
	FOREIGN KEY (Personnel_ID) REFERENCES PERSONNEL(Personnel_ID),
	FOREIGN KEY (Pokemon_ID) REFERENCES POKEMON(Pokemon_ID)
);

CREATE INDEX IF NOT EXISTS idx_ownership_personnel ON OWNERSHIP(Personnel_ID);

CREATE TABLE IF NOT EXISTS EXPERIMENTATION_EVENT (
	Event_ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Pokemon_ID INTEGER NOT NULL,
	Serum_ID INTEGER NOT NULL,
	Project_ID INTEGER,
	Event_Date DATE NOT NULL,
	FOREIGN KEY (Pokemon_ID) REFERENCES POKEMON(Pokemon_ID),
	FOREIGN KEY (Project_ID) REFERENCES RESEARCH_PROJECT(Project_ID)
);
`

// GetSchemaSQL returns the reference schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

// LoadSchema returns the schema in path, or SchemaSQL when path is empty.
func LoadSchema(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return SchemaSQL, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("schema file %s is empty", path)
	}
	return string(data), nil
}

// InitSchema creates the schema's tables in one transaction.
func InitSchema(ctx context.Context, database *sqlx.DB, schema string) error {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}
