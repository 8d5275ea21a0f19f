package grade

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/textproc"
)

// ErrNoDocumentText is returned when a document's extracted text is absent.
// Grading an empty document would silently produce a meaningless report.
var ErrNoDocumentText = errors.New("document has no extracted text")

// ErrEmptyQuestionSet is returned when the teacher answer map contains no
// questions, since a percentage cannot be computed over zero questions.
var ErrEmptyQuestionSet = errors.New("teacher answer map has no questions")

// GradeAll grades every question the teacher map defines. Questions only the
// student answered are ignored; a teacher question with no student answer is
// graded against the empty string and earns only whatever the semantic signal
// gives an empty text. Questions are processed in sorted key order so reports
// are deterministic.
func GradeAll(ctx context.Context, g *Grader, studentMap, teacherMap model.AnswerMap) (*model.GradeReport, error) {
	if len(teacherMap) == 0 {
		return nil, ErrEmptyQuestionSet
	}

	keys := make([]string, 0, len(teacherMap))
	for k := range teacherMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := &model.GradeReport{
		Records:       make(map[string]model.ScoreRecord, len(keys)),
		QuestionCount: len(keys),
		MaxMarks:      g.config.MaxMarks,
	}
	for _, key := range keys {
		rec, err := g.Grade(ctx, studentMap[key], teacherMap[key])
		if err != nil {
			return nil, fmt.Errorf("grade %s: %w", key, err)
		}
		report.Records[key] = rec
		report.TotalMarks += rec.Mark
	}

	report.Percent = round2(report.TotalMarks / (float64(report.QuestionCount) * g.config.MaxMarks) * 100)
	return report, nil
}

// GradeTexts runs the full pipeline on two raw document texts: segment each
// into an answer map, then grade the student sheet against the teacher key.
// Both answer maps are returned alongside the report so callers can persist
// or display them.
func GradeTexts(ctx context.Context, g *Grader, studentRaw, teacherRaw string) (*model.GradeReport, model.AnswerMap, model.AnswerMap, error) {
	if studentRaw == "" {
		return nil, nil, nil, fmt.Errorf("student document: %w", ErrNoDocumentText)
	}
	if teacherRaw == "" {
		return nil, nil, nil, fmt.Errorf("teacher document: %w", ErrNoDocumentText)
	}

	studentMap := textproc.Segment(studentRaw)
	teacherMap := textproc.Segment(teacherRaw)

	report, err := GradeAll(ctx, g, studentMap, teacherMap)
	if err != nil {
		return nil, nil, nil, err
	}
	return report, studentMap, teacherMap, nil
}
