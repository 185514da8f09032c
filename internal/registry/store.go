// Package registry keeps light bookkeeping around the backend: conversation
// history in SQLite and a cached view of the document catalog.
package registry

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Conversation is one question-and-answer thread.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a conversation row for list views.
type Summary struct {
	ID        string
	Title     string
	UpdatedAt time.Time
	Queries   int
}

// QueryRecord is one settled question within a conversation.
type QueryRecord struct {
	ID           int64
	Conversation string
	Question     string
	Answer       string
	Sources      int
	AskedAt      time.Time
}

// Store provides SQLite-backed persistence for conversations.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		sources INTEGER DEFAULT 0,
		asked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateConversation creates a new conversation with the given title.
func (s *Store) CreateConversation(title string) (*Conversation, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO conversations (id, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		id, title, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	return &Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetConversation retrieves a conversation by ID. Returns nil when not found.
func (s *Store) GetConversation(id string) (*Conversation, error) {
	row := s.db.QueryRow(
		`SELECT id, title, created_at, updated_at
		 FROM conversations WHERE id = ?`,
		id,
	)

	var conv Conversation
	err := row.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns summaries of the most recently active conversations.
func (s *Store) ListConversations(limit int) ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.title, c.updated_at, COALESCE(COUNT(q.id), 0) as queries
		 FROM conversations c
		 LEFT JOIN queries q ON c.id = q.conversation_id
		 GROUP BY c.id
		 ORDER BY c.updated_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.UpdatedAt, &sum.Queries); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}

// AddQuery records a settled question in the conversation and bumps its
// updated_at timestamp.
func (s *Store) AddQuery(conversationID, question, answer string, sources int) error {
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO queries (conversation_id, question, answer, sources, asked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conversationID, question, answer, sources, now,
	)
	if err != nil {
		return fmt.Errorf("insert query: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		now, conversationID,
	)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}

	return nil
}

// GetQueries retrieves all recorded questions for a conversation in order.
func (s *Store) GetQueries(conversationID string) ([]QueryRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, conversation_id, question, answer, sources, asked_at
		 FROM queries
		 WHERE conversation_id = ?
		 ORDER BY asked_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []QueryRecord
	for rows.Next() {
		var rec QueryRecord
		if err := rows.Scan(&rec.ID, &rec.Conversation, &rec.Question, &rec.Answer, &rec.Sources, &rec.AskedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
