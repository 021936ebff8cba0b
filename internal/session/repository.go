package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned when nobody is logged in on this machine.
var ErrNoSession = errors.New("no stored session")

// Repository keeps the auth token, the user blob and the last fetched
// attendance history. Breaks are deliberately absent.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	sessionQuery := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)
	`
	if _, err := r.db.Exec(sessionQuery); err != nil {
		return err
	}

	historyQuery := `
	CREATE TABLE IF NOT EXISTS attendance_history (
		check_in_time TEXT PRIMARY KEY,
		record_id INTEGER NOT NULL DEFAULT 0,
		date TEXT NOT NULL DEFAULT '',
		check_out_time TEXT,
		total_hours REAL
	)
	`
	_, err := r.db.Exec(historyQuery)
	return err
}

func (r *Repository) SaveSession(s hrms.Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO session (id, token, user_json, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at`,
		s.Token, string(user), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (r *Repository) LoadSession() (hrms.Session, error) {
	var s hrms.Session
	var user string
	err := r.db.QueryRow("SELECT token, user_json FROM session WHERE id = 1").Scan(&s.Token, &user)
	if errors.Is(err, sql.ErrNoRows) {
		return hrms.Session{}, ErrNoSession
	}
	if err != nil {
		return hrms.Session{}, err
	}
	if err := json.Unmarshal([]byte(user), &s.User); err != nil {
		return hrms.Session{}, err
	}
	return s, nil
}

// ClearSession logs the machine out and drops the cached history with it.
func (r *Repository) ClearSession() error {
	if _, err := r.db.Exec("DELETE FROM session"); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM attendance_history")
	return err
}

// CacheHistory upserts fetched history rows. Days without a check-in carry
// nothing worth showing offline and are skipped.
func (r *Repository) CacheHistory(days []attendance.Day) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO attendance_history (check_in_time, record_id, date, check_out_time, total_hours)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(check_in_time) DO UPDATE SET record_id = excluded.record_id, date = excluded.date,
		 check_out_time = excluded.check_out_time, total_hours = excluded.total_hours`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range days {
		if d.CheckInTime == nil {
			continue
		}
		var checkOut sql.NullString
		if d.CheckOutTime != nil {
			checkOut = sql.NullString{String: d.CheckOutTime.UTC().Format(time.RFC3339), Valid: true}
		}
		var hours sql.NullFloat64
		if d.TotalHours != nil {
			hours = sql.NullFloat64{Float64: *d.TotalHours, Valid: true}
		}
		if _, err := stmt.Exec(d.CheckInTime.UTC().Format(time.RFC3339), d.ID, d.Date, checkOut, hours); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedHistory returns up to limit cached rows, newest first.
func (r *Repository) CachedHistory(limit int) ([]attendance.Day, error) {
	rows, err := r.db.Query(
		`SELECT record_id, date, check_in_time, check_out_time, total_hours
		 FROM attendance_history ORDER BY check_in_time DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		var d attendance.Day
		var checkIn string
		var checkOut sql.NullString
		var hours sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.Date, &checkIn, &checkOut, &hours); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, checkIn); err == nil {
			d.CheckInTime = &t
		}
		if checkOut.Valid {
			if t, err := time.Parse(time.RFC3339, checkOut.String); err == nil {
				d.CheckOutTime = &t
			}
		}
		if hours.Valid {
			h := hours.Float64
			d.TotalHours = &h
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
