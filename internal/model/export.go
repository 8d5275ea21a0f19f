package model

import "time"

// ReportExport is the top-level JSON structure for grading result export.
type ReportExport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	EmbedModel  string          `json:"embed_model,omitempty"`
	Sessions    []SessionExport `json:"sessions"`
}

// SessionExport holds one grading session's data for export.
type SessionExport struct {
	SessionID      int64            `json:"session_id"`
	CreatedAt      time.Time        `json:"created_at"`
	StudentSource  string           `json:"student_source"`
	TeacherSource  string           `json:"teacher_source"`
	SemanticWeight float64          `json:"semantic_weight"`
	KeywordWeight  float64          `json:"keyword_weight"`
	MaxMarks       float64          `json:"max_marks"`
	Percent        float64          `json:"percent"`
	Questions      []QuestionExport `json:"questions"`
}

// QuestionExport holds per-question data for export.
type QuestionExport struct {
	Key           string  `json:"question"`
	StudentAnswer string  `json:"student_ans"`
	TeacherAnswer string  `json:"teacher_ans"`
	Score         float64 `json:"score"`
	Semantic      float64 `json:"semantic"`
	Keyword       float64 `json:"keyword"`
	Mark          float64 `json:"marks"`
	Feedback      string  `json:"feedback"`
}
