package model

import "time"

// DocumentRole identifies which side of a grading session a document belongs to.
type DocumentRole string

const (
	RoleStudent DocumentRole = "student"
	RoleTeacher DocumentRole = "teacher"
)

// Document is one extracted source document. Text is the raw extracted text:
// per-page line contents joined by spaces, pages joined by newlines.
type Document struct {
	ID         int64        `json:"id"`
	Role       DocumentRole `json:"role"`
	SourcePath string       `json:"source_path"`
	Text       string       `json:"text"`
	CreatedAt  time.Time    `json:"created_at"`
}

// AnswerMap maps a canonical question key (e.g. "Q1") to the cleaned answer
// text for that question. One map exists per document in a grading session.
// Never mutated after segmentation.
type AnswerMap map[string]string

// ScoreRecord holds the grading outcome for a single question.
type ScoreRecord struct {
	StudentAnswer string  `json:"student_ans"`
	TeacherAnswer string  `json:"teacher_ans"`
	Score         float64 `json:"score"`
	Semantic      float64 `json:"semantic"`
	Keyword       float64 `json:"keyword"`
	Mark          float64 `json:"marks"`
	Feedback      string  `json:"feedback"`
}

// GradeReport is the terminal output of one grading session.
type GradeReport struct {
	Records       map[string]ScoreRecord `json:"results"`
	QuestionCount int                    `json:"question_count"`
	TotalMarks    float64                `json:"total_marks"`
	MaxMarks      float64                `json:"max_marks"`
	Percent       float64                `json:"percent"`
}

// SessionStatus represents the status of a grading session.
type SessionStatus string

const (
	StatusGraded SessionStatus = "graded"
	StatusFailed SessionStatus = "failed"
)

// GradingSession ties two documents to the report produced from them.
type GradingSession struct {
	ID             int64         `json:"id"`
	StudentDocID   int64         `json:"student_doc_id"`
	TeacherDocID   int64         `json:"teacher_doc_id"`
	SemanticWeight float64       `json:"semantic_weight"`
	KeywordWeight  float64       `json:"keyword_weight"`
	MaxMarks       float64       `json:"max_marks"`
	Percent        float64       `json:"percent"`
	Status         SessionStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// GradingConfig holds runtime grading parameters set via CLI flags.
type GradingConfig struct {
	SemanticWeight float64 // weight of the embedding similarity signal
	KeywordWeight  float64 // weight of the lexical overlap signal
	MaxMarks       float64 // marks awarded for a perfect score of 1.0
	Clamp          bool    // clamp the blended score to [0,1] before marking
}
