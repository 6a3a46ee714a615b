package backlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/db"
	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

var _ assistant.Recorder = (*Store)(nil)

// Store persists unanswered questions and topic hit counters.
type Store struct {
	db  *db.DB
	log *slog.Logger
}

// NewStore creates a new backlog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, log: logging.ForComponent(logging.CompBacklog)}
}

// Normalize folds case, whitespace and trailing punctuation so repeats of
// a question collapse onto one row.
func Normalize(question string) string {
	fields := strings.Fields(strings.ToLower(question))
	return strings.TrimRight(strings.Join(fields, " "), "?!.")
}

// Record implements assistant.Recorder. Unmatched questions are upserted
// into the backlog; matched ones bump the topic's hit counter. A resolved
// question that is asked again without a match is reopened.
func (s *Store) Record(ctx context.Context, rec assistant.Record) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if rec.Matched {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO topic_hits (platform, topic, hits, last_hit) VALUES (?, ?, 1, ?)
			 ON CONFLICT(platform, topic) DO UPDATE SET hits = hits + 1, last_hit = excluded.last_hit`,
			string(rec.Result.Platform), rec.Result.Topic, at,
		)
		if err != nil {
			return fmt.Errorf("recording topic hit: %w", err)
		}
		return nil
	}

	normalized := Normalize(rec.Question)
	if normalized == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unanswered_questions (id, normalized, question, source, status, ask_count, first_seen, last_seen)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		 ON CONFLICT(normalized) DO UPDATE SET
		     ask_count = ask_count + 1,
		     last_seen = excluded.last_seen,
		     status = CASE WHEN status = 'resolved' THEN 'open' ELSE status END`,
		uuid.New().String(), normalized, strings.TrimSpace(rec.Question), rec.Source, StatusOpen, at, at,
	)
	if err != nil {
		return fmt.Errorf("recording question: %w", err)
	}
	s.log.Debug("question_recorded", slog.String("source", rec.Source), slog.String("normalized", normalized))
	return nil
}

const questionColumns = `id, question, source, status, ask_count, note, first_seen, last_seen`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (Question, error) {
	var q Question
	var note sql.NullString
	err := row.Scan(&q.ID, &q.Question, &q.Source, &q.Status, &q.AskCount, &note, &q.FirstSeen, &q.LastSeen)
	q.Note = note.String
	return q, err
}

// GetByID retrieves a question by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM unanswered_questions WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting question: %w", err)
	}
	return &q, nil
}

// List returns questions matching the filter, most frequently asked first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Question, error) {
	query := `SELECT ` + questionColumns + ` FROM unanswered_questions WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY ask_count DESC, last_seen DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpdateStatus changes the status of a question and replaces its note.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status, note string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var noteArg any
	if note != "" {
		noteArg = note
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE unanswered_questions SET status = ?, note = ? WHERE id = ?`,
		status, noteArg, id,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// OpenCount returns the number of open questions.
func (s *Store) OpenCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM unanswered_questions WHERE status = ?`, StatusOpen,
	).Scan(&count)
	return count, err
}

// TopicHits returns hit counters, busiest topic first.
func (s *Store) TopicHits(ctx context.Context) ([]TopicHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, topic, hits, last_hit FROM topic_hits ORDER BY hits DESC, platform, topic`)
	if err != nil {
		return nil, fmt.Errorf("listing topic hits: %w", err)
	}
	defer rows.Close()

	var hits []TopicHit
	for rows.Next() {
		var h TopicHit
		if err := rows.Scan(&h.Platform, &h.Topic, &h.Hits, &h.LastHit); err != nil {
			return nil, fmt.Errorf("scanning topic hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
