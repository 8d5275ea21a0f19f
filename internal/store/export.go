package store

import (
	"sort"
	"time"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
)

// ExportAllSessions builds the full export structure for every stored
// grading session, questions in sorted key order.
func (s *Store) ExportAllSessions() ([]model.SessionExport, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return nil, err
	}

	exports := make([]model.SessionExport, 0, len(sessions))
	for _, sess := range sessions {
		studentDoc, err := s.GetDocument(sess.StudentDocID)
		if err != nil {
			return nil, err
		}
		teacherDoc, err := s.GetDocument(sess.TeacherDocID)
		if err != nil {
			return nil, err
		}
		report, err := s.GetReport(sess.ID)
		if err != nil {
			return nil, err
		}

		keys := make([]string, 0, len(report.Records))
		for k := range report.Records {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		questions := make([]model.QuestionExport, 0, len(keys))
		for _, k := range keys {
			rec := report.Records[k]
			questions = append(questions, model.QuestionExport{
				Key:           k,
				StudentAnswer: rec.StudentAnswer,
				TeacherAnswer: rec.TeacherAnswer,
				Score:         rec.Score,
				Semantic:      rec.Semantic,
				Keyword:       rec.Keyword,
				Mark:          rec.Mark,
				Feedback:      rec.Feedback,
			})
		}

		exports = append(exports, model.SessionExport{
			SessionID:      sess.ID,
			CreatedAt:      sess.CreatedAt,
			StudentSource:  studentDoc.SourcePath,
			TeacherSource:  teacherDoc.SourcePath,
			SemanticWeight: sess.SemanticWeight,
			KeywordWeight:  sess.KeywordWeight,
			MaxMarks:       sess.MaxMarks,
			Percent:        sess.Percent,
			Questions:      questions,
		})
	}
	return exports, nil
}

// NewExport wraps session exports with generation metadata.
func NewExport(embedModel string, sessions []model.SessionExport) model.ReportExport {
	return model.ReportExport{
		GeneratedAt: time.Now().UTC(),
		EmbedModel:  embedModel,
		Sessions:    sessions,
	}
}
