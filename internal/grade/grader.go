// Package grade blends the semantic and keyword signals into marks and
// qualitative feedback, per question and per session.
package grade

import (
	"context"
	"fmt"
	"math"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/score"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/textproc"
)

// Feedback strings, matched against the blended score from highest threshold
// down.
const (
	FeedbackExcellent = "Excellent answer! Meaning and keywords match almost perfectly."
	FeedbackNearly    = "Nearly correct—minor gaps in meaning or facts."
	FeedbackPartial   = "Partially correct—some important content missing."
	FeedbackWeak      = "Weak answer; not matching expected concepts."
)

// DefaultGraderConfig is the standalone grader default (0.7 semantic / 0.3
// keyword). The batch orchestrator historically uses its own slightly
// different pair, DefaultBatchConfig; the two are intentionally kept as
// separate knobs.
func DefaultGraderConfig() model.GradingConfig {
	return model.GradingConfig{
		SemanticWeight: 0.7,
		KeywordWeight:  0.3,
		MaxMarks:       10,
	}
}

// DefaultBatchConfig is the default used when grading a whole answer sheet
// (0.65 semantic / 0.35 keyword).
func DefaultBatchConfig() model.GradingConfig {
	return model.GradingConfig{
		SemanticWeight: 0.65,
		KeywordWeight:  0.35,
		MaxMarks:       10,
	}
}

// Grader scores a student answer against a teacher answer.
type Grader struct {
	embedder score.Embedder
	config   model.GradingConfig
}

// New creates a Grader using the given embedder and config.
func New(e score.Embedder, cfg model.GradingConfig) *Grader {
	return &Grader{embedder: e, config: cfg}
}

// Grade normalizes both answers, computes the semantic and keyword signals,
// and blends them with the configured weights. Weights are not required to
// sum to 1 and the semantic signal is unclamped, so the blended score may
// leave [0,1] and the mark may exceed MaxMarks unless Clamp is set.
func (g *Grader) Grade(ctx context.Context, student, teacher string) (model.ScoreRecord, error) {
	studentNorm := textproc.Normalize(student)
	teacherNorm := textproc.Normalize(teacher)

	semantic, err := score.Semantic(ctx, g.embedder, studentNorm, teacherNorm)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("semantic score: %w", err)
	}
	kw := score.Keyword(studentNorm, teacherNorm)

	blended := g.config.SemanticWeight*semantic + g.config.KeywordWeight*kw
	if g.config.Clamp {
		blended = math.Min(1, math.Max(0, blended))
	}

	return model.ScoreRecord{
		StudentAnswer: student,
		TeacherAnswer: teacher,
		Score:         blended,
		Semantic:      semantic,
		Keyword:       kw,
		Mark:          round2(blended * g.config.MaxMarks),
		Feedback:      feedbackFor(blended),
	}, nil
}

func feedbackFor(s float64) string {
	switch {
	case s >= 0.85:
		return FeedbackExcellent
	case s >= 0.70:
		return FeedbackNearly
	case s >= 0.50:
		return FeedbackPartial
	default:
		return FeedbackWeak
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
