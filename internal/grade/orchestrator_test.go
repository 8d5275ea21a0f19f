package grade

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
)

func TestGradeAllPerfectSheet(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())
	teacher := model.AnswerMap{"Q1": "the cat sat"}
	student := model.AnswerMap{"Q1": "the cat sat"}

	report, err := GradeAll(context.Background(), g, student, teacher)
	if err != nil {
		t.Fatalf("GradeAll: %v", err)
	}
	if report.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d, want 1", report.QuestionCount)
	}
	rec, ok := report.Records["Q1"]
	if !ok {
		t.Fatal("missing record for Q1")
	}
	if rec.Keyword != 1.0 {
		t.Errorf("Keyword = %v, want 1.0", rec.Keyword)
	}
	if rec.Mark != 10.0 {
		t.Errorf("Mark = %v, want 10.0", rec.Mark)
	}
	if rec.Feedback != FeedbackExcellent {
		t.Errorf("Feedback = %q, want %q", rec.Feedback, FeedbackExcellent)
	}
	if report.Percent != 100.0 {
		t.Errorf("Percent = %v, want 100.0", report.Percent)
	}
}

func TestGradeAllMissingStudentAnswer(t *testing.T) {
	g := New(&stubEmbedder{semantic: 0.1}, DefaultBatchConfig())
	teacher := model.AnswerMap{"Q1": "the cat sat"}
	student := model.AnswerMap{"Q2": "off-key answer"}

	report, err := GradeAll(context.Background(), g, student, teacher)
	if err != nil {
		t.Fatalf("GradeAll: %v", err)
	}
	rec := report.Records["Q1"]
	if rec.StudentAnswer != "" {
		t.Errorf("StudentAnswer = %q, want empty", rec.StudentAnswer)
	}
	if rec.Keyword != 0.0 {
		t.Errorf("Keyword = %v, want 0", rec.Keyword)
	}
	// The mark reflects only the semantic signal of empty-vs-teacher text.
	want := round2(0.65 * 0.1 * 10)
	if math.Abs(rec.Mark-want) > 0.01 {
		t.Errorf("Mark = %v, want about %v", rec.Mark, want)
	}
}

func TestGradeAllIgnoresExtraStudentQuestions(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())
	teacher := model.AnswerMap{"Q1": "alpha"}
	student := model.AnswerMap{"Q1": "alpha", "Q9": "never graded"}

	report, err := GradeAll(context.Background(), g, student, teacher)
	if err != nil {
		t.Fatalf("GradeAll: %v", err)
	}
	if _, ok := report.Records["Q9"]; ok {
		t.Error("Q9 should not be graded: teacher defines the question set")
	}
	if report.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d, want 1", report.QuestionCount)
	}
}

func TestGradeAllEmptyTeacherMap(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())
	_, err := GradeAll(context.Background(), g, model.AnswerMap{"Q1": "a"}, model.AnswerMap{})
	if !errors.Is(err, ErrEmptyQuestionSet) {
		t.Errorf("err = %v, want ErrEmptyQuestionSet", err)
	}
}

func TestGradeAllAveragesAcrossQuestions(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())
	teacher := model.AnswerMap{"Q1": "alpha", "Q2": "beta"}
	student := model.AnswerMap{"Q1": "alpha"} // Q2 unanswered

	report, err := GradeAll(context.Background(), g, student, teacher)
	if err != nil {
		t.Fatalf("GradeAll: %v", err)
	}
	// Q1 is perfect (10), Q2 gets only the semantic share (0.65 * 10 = 6.5).
	if report.Records["Q1"].Mark != 10.0 {
		t.Errorf("Q1 mark = %v, want 10.0", report.Records["Q1"].Mark)
	}
	if math.Abs(report.Records["Q2"].Mark-6.5) > 0.01 {
		t.Errorf("Q2 mark = %v, want 6.5", report.Records["Q2"].Mark)
	}
	if math.Abs(report.Percent-82.5) > 0.1 {
		t.Errorf("Percent = %v, want about 82.5", report.Percent)
	}
}

func TestGradeTexts(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())

	report, studentMap, teacherMap, err := GradeTexts(context.Background(), g,
		"Q1) apple banana Q2) cherry",
		"Q1) apple banana Q2) cherry",
	)
	if err != nil {
		t.Fatalf("GradeTexts: %v", err)
	}
	if len(studentMap) != 2 || len(teacherMap) != 2 {
		t.Fatalf("maps = %v / %v, want 2 entries each", studentMap, teacherMap)
	}
	if report.QuestionCount != 2 {
		t.Errorf("QuestionCount = %d, want 2", report.QuestionCount)
	}
	if report.Percent != 100.0 {
		t.Errorf("Percent = %v, want 100.0", report.Percent)
	}
}

func TestGradeTextsRejectsEmptyDocuments(t *testing.T) {
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())

	if _, _, _, err := GradeTexts(context.Background(), g, "", "Q1) key"); !errors.Is(err, ErrNoDocumentText) {
		t.Errorf("empty student text: err = %v, want ErrNoDocumentText", err)
	}
	if _, _, _, err := GradeTexts(context.Background(), g, "Q1) answer", ""); !errors.Is(err, ErrNoDocumentText) {
		t.Errorf("empty teacher text: err = %v, want ErrNoDocumentText", err)
	}
}

func TestGradeTextsEmptyTeacherSpans(t *testing.T) {
	// A teacher document whose only delimiter has no answer text segments to
	// an empty map and cannot be graded.
	g := New(&stubEmbedder{semantic: 1.0}, DefaultBatchConfig())
	_, _, _, err := GradeTexts(context.Background(), g, "Q1) answer", "Q1)")
	if !errors.Is(err, ErrEmptyQuestionSet) {
		t.Errorf("err = %v, want ErrEmptyQuestionSet", err)
	}
}
