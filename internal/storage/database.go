package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"learnleap/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the catalog database for the given driver.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if strings.Contains(dbCfg.DSN, ":memory:") {
			// every pooled connection would otherwise see its own empty database
			db.SetMaxOpenConns(1)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := dbCfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
				dbCfg.Username,
				dbCfg.Password,
				dbCfg.Host,
				dbCfg.Port,
				dbCfg.DBName,
				dbCfg.Params,
			)
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the catalog tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS scholarships (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				amount TEXT NOT NULL,
				deadline TEXT NOT NULL,
				match_score INTEGER NOT NULL,
				requirements TEXT NOT NULL,
				details TEXT NOT NULL DEFAULT '',
				position INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS skills (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				importance TEXT NOT NULL,
				description TEXT NOT NULL,
				improvement_tips TEXT NOT NULL DEFAULT '',
				position INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS skill_scholarships (
				skill_id INTEGER NOT NULL,
				scholarship_name TEXT NOT NULL,
				position INTEGER NOT NULL,
				PRIMARY KEY (skill_id, position),
				FOREIGN KEY(skill_id) REFERENCES skills(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				deadline TEXT NOT NULL,
				priority TEXT NOT NULL,
				position INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS profiles (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				completion_score INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS profile_traits (
				profile_id INTEGER NOT NULL,
				kind TEXT NOT NULL,
				value TEXT NOT NULL,
				position INTEGER NOT NULL,
				PRIMARY KEY (profile_id, kind, position),
				FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_scholarships_position ON scholarships(position)`,
			`CREATE INDEX IF NOT EXISTS idx_skills_position ON skills(position)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS scholarships (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				name VARCHAR(255) NOT NULL UNIQUE,
				amount VARCHAR(64) NOT NULL,
				deadline VARCHAR(64) NOT NULL,
				match_score INT NOT NULL,
				requirements TEXT NOT NULL,
				details TEXT NOT NULL,
				position INT NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_scholarships_position (position)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS skills (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				name VARCHAR(255) NOT NULL UNIQUE,
				importance VARCHAR(16) NOT NULL,
				description TEXT NOT NULL,
				improvement_tips TEXT NOT NULL,
				position INT NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_skills_position (position)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS skill_scholarships (
				skill_id BIGINT UNSIGNED NOT NULL,
				scholarship_name VARCHAR(255) NOT NULL,
				position INT NOT NULL,
				PRIMARY KEY (skill_id, position),
				CONSTRAINT fk_skill_scholarships_skill FOREIGN KEY (skill_id) REFERENCES skills(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				name VARCHAR(255) NOT NULL UNIQUE,
				deadline VARCHAR(64) NOT NULL,
				priority VARCHAR(16) NOT NULL,
				position INT NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS profiles (
				id BIGINT UNSIGNED NOT NULL,
				name VARCHAR(255) NOT NULL,
				completion_score INT NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS profile_traits (
				profile_id BIGINT UNSIGNED NOT NULL,
				kind VARCHAR(32) NOT NULL,
				value VARCHAR(255) NOT NULL,
				position INT NOT NULL,
				PRIMARY KEY (profile_id, kind, position),
				CONSTRAINT fk_profile_traits_profile FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
