package transcriptcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"subextract/internal/logging"
	"subextract/internal/services/whisper"
)

// Key identifies a transcript by its source audio and decoding settings.
type Key struct {
	VideoHash      string
	Model          string
	Language       string
	Task           string
	WordTimestamps bool
	InitialPrompt  string
	// Decoding knobs and device also change the transcript.
	NoSpeechThreshold       float64
	ConditionOnPreviousText bool
	Device                  string
}

// ID returns the stable primary key for k.
func (k Key) ID() string {
	h := sha256.New()
	for _, part := range []string{
		k.VideoHash,
		strings.ToLower(strings.TrimSpace(k.Model)),
		strings.ToLower(strings.TrimSpace(k.Language)),
		strings.ToLower(strings.TrimSpace(k.Task)),
		strconv.FormatBool(k.WordTimestamps),
		k.InitialPrompt,
		strconv.FormatFloat(k.NoSpeechThreshold, 'g', -1, 64),
		strconv.FormatBool(k.ConditionOnPreviousText),
		strings.ToLower(strings.TrimSpace(k.Device)),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store manages transcript persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("transcript cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "transcriptcache"),
		now:    time.Now,
	}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the cached transcript for key if present.
func (s *Store) Lookup(ctx context.Context, key Key) (whisper.Result, bool, error) {
	id := key.ID()
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM transcripts WHERE cache_key = ?", id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("transcript cache miss", logging.String("cache_key", id))
		return whisper.Result{}, false, nil
	}
	if err != nil {
		return whisper.Result{}, false, fmt.Errorf("query transcript: %w", err)
	}

	var result whisper.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return whisper.Result{}, false, fmt.Errorf("decode cached transcript: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE transcripts SET last_used_at = ? WHERE cache_key = ?",
		s.timestamp(), id,
	); err != nil {
		s.logger.Debug("transcript cache touch failed", logging.Error(err))
	}

	s.logger.Info("transcript cache hit",
		logging.String("cache_key", id),
		logging.Int("segments", len(result.Segments)),
	)
	return result, true, nil
}

// Save stores result under key, replacing any earlier entry.
func (s *Store) Save(ctx context.Context, key Key, result whisper.Result) error {
	if strings.TrimSpace(key.VideoHash) == "" {
		return errors.New("video hash cannot be empty")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	ts := s.timestamp()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (
            cache_key, video_hash, model, language, task, word_timestamps,
            initial_prompt, no_speech_threshold, condition_on_previous_text, device,
            segment_count, payload_json, created_at, last_used_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(cache_key) DO UPDATE SET
            segment_count = excluded.segment_count,
            payload_json = excluded.payload_json,
            created_at = excluded.created_at,
            last_used_at = excluded.last_used_at`,
		key.ID(),
		key.VideoHash,
		key.Model,
		key.Language,
		key.Task,
		boolToInt(key.WordTimestamps),
		key.InitialPrompt,
		key.NoSpeechThreshold,
		boolToInt(key.ConditionOnPreviousText),
		key.Device,
		len(result.Segments),
		string(payload),
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	s.logger.Debug("transcript cached",
		logging.String("cache_key", key.ID()),
		logging.Int("segments", len(result.Segments)),
	)
	return nil
}

// Count returns the number of cached transcripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM transcripts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count transcripts: %w", err)
	}
	return n, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
