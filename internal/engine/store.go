package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists runs, run logs and settings to SQLite.
type Store struct {
	db *sql.DB
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// terminalStates is the SQL list of states a run never leaves.
const terminalStates = `('rejected','convert_failed','pack_failed','succeeded','interrupted')`

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(4)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			type            TEXT NOT NULL,
			state           TEXT NOT NULL,
			source_json     TEXT NOT NULL DEFAULT '',
			output_folder   TEXT NOT NULL DEFAULT '',
			mod_folder      TEXT NOT NULL DEFAULT '',
			game_pak_folder TEXT NOT NULL DEFAULT '',
			produced_path   TEXT NOT NULL DEFAULT '',
			asset_path      TEXT NOT NULL DEFAULT '',
			archive_path    TEXT NOT NULL DEFAULT '',
			digest          TEXT NOT NULL DEFAULT '',
			message         TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL,
			completed_at    TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS run_logs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			level     TEXT NOT NULL,
			message   TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_run_logs_run_id ON run_logs(run_id);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

const runColumns = `id, type, state, source_json, output_folder, mod_folder, game_pak_folder, produced_path, asset_path, archive_path, digest, message, created_at, updated_at, completed_at`

// CreateRun inserts a new run.
func (s *Store) CreateRun(run *Run) error {
	_, err := s.db.Exec(`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Type, run.State,
		run.SourceJSON, run.OutputFolder, run.ModFolder, run.GamePakFolder,
		run.ProducedPath, run.AssetPath, run.ArchivePath, run.Digest, run.Message,
		formatTime(run.CreatedAt), formatTime(run.UpdatedAt), formatCompleted(run.CompletedAt),
	)
	return err
}

// UpdateRun updates a run's mutable fields.
func (s *Store) UpdateRun(run *Run) error {
	_, err := s.db.Exec(`UPDATE runs SET state=?, produced_path=?, asset_path=?, archive_path=?, digest=?, message=?, updated_at=?, completed_at=? WHERE id=?`,
		run.State, run.ProducedPath, run.AssetPath, run.ArchivePath, run.Digest, run.Message,
		formatTime(run.UpdatedAt), formatCompleted(run.CompletedAt),
		run.ID,
	)
	return err
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id=?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return run, err
}

// ListRuns returns runs, most recent first. limit <= 0 means no limit.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// AppendLog adds a log entry for a run.
func (s *Store) AppendLog(entry *LogEntry) error {
	_, err := s.db.Exec(`INSERT INTO run_logs (run_id, timestamp, level, message) VALUES (?, ?, ?, ?)`,
		entry.RunID, formatTime(entry.Timestamp), entry.Level, entry.Message,
	)
	return err
}

// GetLogs returns all log entries for a run in insertion order.
func (s *Store) GetLogs(runID string) ([]*LogEntry, error) {
	rows, err := s.db.Query(`SELECT run_id, timestamp, level, message FROM run_logs WHERE run_id=? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*LogEntry
	for rows.Next() {
		var entry LogEntry
		var ts string
		if err := rows.Scan(&entry.RunID, &ts, &entry.Level, &entry.Message); err != nil {
			return nil, err
		}
		entry.Timestamp = parseTime(ts)
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}

// RecoverOrphanedRuns marks runs left non-terminal by a crashed process as
// interrupted. Returns their IDs.
func (s *Store) RecoverOrphanedRuns() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM runs WHERE state NOT IN ` + terminalStates)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			ids = append(ids, id)
		}
	}
	rows.Close()

	if len(ids) == 0 {
		return nil, nil
	}

	now := formatTime(time.Now())
	_, err = s.db.Exec(`UPDATE runs SET state=?, message='interrupted before the tools finished', completed_at=?, updated_at=? WHERE state NOT IN `+terminalStates,
		StateInterrupted, now, now)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		s.AppendLog(&LogEntry{
			RunID:     id,
			Timestamp: time.Now(),
			Level:     "warn",
			Message:   "Run interrupted: the packer exited while this run was in progress",
		})
	}

	return ids, nil
}

// ClearTerminalRuns deletes finished runs and their logs.
// Returns the number of runs deleted.
func (s *Store) ClearTerminalRuns() (int64, error) {
	_, err := s.db.Exec(`DELETE FROM run_logs WHERE run_id IN (
		SELECT id FROM runs WHERE state IN ` + terminalStates + `
	)`)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`DELETE FROM runs WHERE state IN ` + terminalStates)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Settings ---

// LoadSetting returns the stored value for key, or nil if unset.
func (s *Store) LoadSetting(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// SaveSetting stores value under key, replacing any previous value.
func (s *Store) SaveSetting(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, string(value))
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt, updatedAt, completedAt string
	err := row.Scan(&run.ID, &run.Type, &run.State,
		&run.SourceJSON, &run.OutputFolder, &run.ModFolder, &run.GamePakFolder,
		&run.ProducedPath, &run.AssetPath, &run.ArchivePath, &run.Digest, &run.Message,
		&createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = parseTime(createdAt)
	run.UpdatedAt = parseTime(updatedAt)
	if completedAt != "" {
		t := parseTime(completedAt)
		run.CompletedAt = &t
	}
	return &run, nil
}

func formatCompleted(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
