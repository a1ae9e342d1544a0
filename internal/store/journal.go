package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// EntryKind separates player actions from emitted cues in the journal.
type EntryKind string

const (
	KindAction EntryKind = "action"
	KindCue    EntryKind = "cue"
)

// JournalEntry is one line of a session journal.
type JournalEntry struct {
	SessionID string
	Seq       int64
	Kind      EntryKind
	Name      string
	Detail    map[string]any
}

// Journal is the append side of the session journal.
type Journal interface {
	AppendJournal(ctx context.Context, e JournalEntry) error
}

// SessionSummary describes one journaled session.
type SessionSummary struct {
	ID      string `json:"id"`
	Entries int    `json:"entries"`
	LastSeq int64  `json:"last_seq"`
}

// AppendJournal inserts a journal entry.
// Uses ON CONFLICT DO NOTHING for idempotency - rewriting the same
// (session_id, seq) is silently ignored.
func (s *Store) AppendJournal(ctx context.Context, e JournalEntry) error {
	detail, err := marshalDetail(e.Detail)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO journal (session_id, seq, kind, name, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		e.SessionID,
		e.Seq,
		string(e.Kind),
		e.Name,
		detail,
	)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// ReadJournal returns every entry of one session ordered by seq.
func (s *Store) ReadJournal(ctx context.Context, sessionID string) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, name, detail
		FROM journal
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			e      JournalEntry
			kind   string
			detail string
		)
		if err := rows.Scan(&e.SessionID, &e.Seq, &kind, &e.Name, &detail); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Kind = EntryKind(kind)
		if e.Detail, err = unmarshalDetail(detail); err != nil {
			return nil, fmt.Errorf("journal entry %s/%d: %w", e.SessionID, e.Seq, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// Sessions lists every journaled session. Session ids are UUIDv7, so the
// binary order is creation order.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MAX(seq)
		FROM journal
		GROUP BY session_id
		ORDER BY session_id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var ss SessionSummary
		if err := rows.Scan(&ss.ID, &ss.Entries, &ss.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

// marshalDetail converts a detail map to JSON TEXT. Map keys are sorted by
// encoding/json; HTML escaping is disabled so stored text matches what
// callers wrote.
func marshalDetail(detail map[string]any) (string, error) {
	if len(detail) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(detail); err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalDetail(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("unmarshal detail: %w", err)
	}
	return m, nil
}
