// Package store persists extracted documents, parsed answer maps, and
// grading reports in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT NOT NULL,
		source_path TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		question_key TEXT NOT NULL,
		answer_text TEXT NOT NULL,
		UNIQUE (document_id, question_key),
		FOREIGN KEY (document_id) REFERENCES documents(id)
	);

	CREATE TABLE IF NOT EXISTS grading_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_doc_id INTEGER NOT NULL,
		teacher_doc_id INTEGER NOT NULL,
		semantic_weight REAL NOT NULL,
		keyword_weight REAL NOT NULL,
		max_marks REAL NOT NULL,
		percent REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'graded',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (student_doc_id) REFERENCES documents(id),
		FOREIGN KEY (teacher_doc_id) REFERENCES documents(id)
	);

	CREATE TABLE IF NOT EXISTS score_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		question_key TEXT NOT NULL,
		student_ans TEXT NOT NULL,
		teacher_ans TEXT NOT NULL,
		score REAL NOT NULL,
		semantic REAL NOT NULL,
		keyword REAL NOT NULL,
		mark REAL NOT NULL,
		feedback TEXT NOT NULL,
		UNIQUE (session_id, question_key),
		FOREIGN KEY (session_id) REFERENCES grading_sessions(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertDocument stores an extracted document and returns its ID.
func (s *Store) InsertDocument(doc model.Document) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO documents (role, source_path, text, created_at) VALUES (?, ?, ?, ?)`,
		doc.Role, doc.SourcePath, doc.Text, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetDocument returns a document by ID.
func (s *Store) GetDocument(id int64) (model.Document, error) {
	var doc model.Document
	err := s.db.QueryRow(
		`SELECT id, role, source_path, text, created_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Role, &doc.SourcePath, &doc.Text, &doc.CreatedAt)
	return doc, err
}

// SaveAnswers stores a document's parsed answer map, replacing any previous
// parse of the same document.
func (s *Store) SaveAnswers(documentID int64, answers model.AnswerMap) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM answers WHERE document_id = ?`, documentID); err != nil {
		return err
	}
	for key, text := range answers {
		_, err := tx.Exec(
			`INSERT INTO answers (document_id, question_key, answer_text) VALUES (?, ?, ?)`,
			documentID, key, text,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetAnswers returns a document's parsed answer map.
func (s *Store) GetAnswers(documentID int64) (model.AnswerMap, error) {
	rows, err := s.db.Query(
		`SELECT question_key, answer_text FROM answers WHERE document_id = ?`, documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	answers := make(model.AnswerMap)
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, err
		}
		answers[key] = text
	}
	return answers, rows.Err()
}

// CreateSession creates a grading session row.
func (s *Store) CreateSession(sess model.GradingSession) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO grading_sessions
		 (student_doc_id, teacher_doc_id, semantic_weight, keyword_weight, max_marks, percent, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.StudentDocID, sess.TeacherDocID, sess.SemanticWeight, sess.KeywordWeight,
		sess.MaxMarks, sess.Percent, sess.Status, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetSession returns a session by ID.
func (s *Store) GetSession(id int64) (model.GradingSession, error) {
	var sess model.GradingSession
	err := s.db.QueryRow(
		`SELECT id, student_doc_id, teacher_doc_id, semantic_weight, keyword_weight, max_marks, percent, status, created_at
		 FROM grading_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.StudentDocID, &sess.TeacherDocID, &sess.SemanticWeight,
		&sess.KeywordWeight, &sess.MaxMarks, &sess.Percent, &sess.Status, &sess.CreatedAt)
	return sess, err
}

// ListSessions returns all grading sessions, newest first.
func (s *Store) ListSessions() ([]model.GradingSession, error) {
	rows, err := s.db.Query(
		`SELECT id, student_doc_id, teacher_doc_id, semantic_weight, keyword_weight, max_marks, percent, status, created_at
		 FROM grading_sessions ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.GradingSession
	for rows.Next() {
		var sess model.GradingSession
		if err := rows.Scan(&sess.ID, &sess.StudentDocID, &sess.TeacherDocID, &sess.SemanticWeight,
			&sess.KeywordWeight, &sess.MaxMarks, &sess.Percent, &sess.Status, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SaveReport stores a session's per-question records and final percent.
func (s *Store) SaveReport(sessionID int64, report *model.GradeReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, rec := range report.Records {
		_, err := tx.Exec(
			`INSERT INTO score_records
			 (session_id, question_key, student_ans, teacher_ans, score, semantic, keyword, mark, feedback)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, question_key) DO UPDATE SET
			 student_ans = excluded.student_ans, teacher_ans = excluded.teacher_ans,
			 score = excluded.score, semantic = excluded.semantic, keyword = excluded.keyword,
			 mark = excluded.mark, feedback = excluded.feedback`,
			sessionID, key, rec.StudentAnswer, rec.TeacherAnswer,
			rec.Score, rec.Semantic, rec.Keyword, rec.Mark, rec.Feedback,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		`UPDATE grading_sessions SET percent = ?, status = ? WHERE id = ?`,
		report.Percent, model.StatusGraded, sessionID,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetReport rebuilds a session's grade report from its stored records.
func (s *Store) GetReport(sessionID int64) (*model.GradeReport, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT question_key, student_ans, teacher_ans, score, semantic, keyword, mark, feedback
		 FROM score_records WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &model.GradeReport{
		Records:  make(map[string]model.ScoreRecord),
		MaxMarks: sess.MaxMarks,
		Percent:  sess.Percent,
	}
	for rows.Next() {
		var key string
		var rec model.ScoreRecord
		if err := rows.Scan(&key, &rec.StudentAnswer, &rec.TeacherAnswer,
			&rec.Score, &rec.Semantic, &rec.Keyword, &rec.Mark, &rec.Feedback); err != nil {
			return nil, err
		}
		report.Records[key] = rec
		report.TotalMarks += rec.Mark
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	report.QuestionCount = len(report.Records)
	return report, nil
}
