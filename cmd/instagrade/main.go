package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/extract"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/grade"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/handler"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/score"
	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "instagrade",
		Short: "Grade student answer sheets against a teacher's answer key",
	}

	gradeSheet := gradeCmd()
	root.AddCommand(gradeSheet, serveCmd(), exportCmd())

	// Make "grade" the default when no subcommand is given.
	root.RunE = gradeSheet.RunE

	// Register grade flags on root so bare `instagrade --student ...` still works.
	root.Flags().AddFlagSet(gradeSheet.Flags())

	return root
}

// addGradingFlags registers the knobs shared by the grade and serve commands.
// The 0.65/0.35 pair is the batch-grading default; the standalone grader's
// own default pair (0.7/0.3) is documented in the grade package.
func addGradingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("semantic-weight", 0.65, "Weight of the semantic similarity signal")
	f.Float64("keyword-weight", 0.35, "Weight of the keyword overlap signal")
	f.Float64("max-marks", 10, "Marks per question for a perfect score")
	f.Bool("clamp", false, "Clamp the blended score to [0,1] before marking")
	f.String("embed-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("embed-key", "ollama", "API key for the embedding service")
	f.String("embed-model", "nomic-embed-text", "Embedding model name")
	f.Duration("embed-timeout", 30*time.Second, "Timeout for a single embedding call")
	f.String("db", "instagrade.db", "SQLite database path")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func gradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade one student answer sheet against a teacher answer key",
		RunE:  runGrade,
	}
	addGradingFlags(cmd)
	f := cmd.Flags()
	f.StringP("student", "s", "", "Student answer sheet (PDF or text file)")
	f.StringP("teacher", "t", "", "Teacher answer key (PDF or text file)")
	f.Bool("json", false, "Print the report as JSON instead of plain text")
	f.Bool("no-save", false, "Skip persisting the session to the database")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP grading server",
		RunE:  runServe,
	}
	addGradingFlags(cmd)
	cmd.Flags().StringP("addr", "a", ":8080", "HTTP listen address")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored grading sessions as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "instagrade.db", "SQLite database path")
	f.String("embed-model", "", "Embedding model name included in export metadata")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INSTAGRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("instagrade")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/instagrade")
	v.AddConfigPath("/etc/instagrade")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func gradingConfig(v *viper.Viper) model.GradingConfig {
	return model.GradingConfig{
		SemanticWeight: v.GetFloat64("semantic-weight"),
		KeywordWeight:  v.GetFloat64("keyword-weight"),
		MaxMarks:       v.GetFloat64("max-marks"),
		Clamp:          v.GetBool("clamp"),
	}
}

func newEmbedder(v *viper.Viper) (*score.OpenAIEmbedder, error) {
	e := score.NewOpenAIEmbedder(
		v.GetString("embed-url"),
		v.GetString("embed-key"),
		v.GetString("embed-model"),
		v.GetDuration("embed-timeout"),
	)
	if err := e.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("embedding service health check: %w", err)
	}
	slog.Info("embedding endpoint OK", "url", v.GetString("embed-url"), "model", v.GetString("embed-model"))
	return e, nil
}

func runGrade(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	studentPath := v.GetString("student")
	teacherPath := v.GetString("teacher")
	if studentPath == "" || teacherPath == "" {
		return fmt.Errorf("both --student and --teacher are required")
	}

	studentText, err := extract.File(studentPath)
	if err != nil {
		return fmt.Errorf("extract student document: %w", err)
	}
	teacherText, err := extract.File(teacherPath)
	if err != nil {
		return fmt.Errorf("extract teacher document: %w", err)
	}

	embedder, err := newEmbedder(v)
	if err != nil {
		return err
	}

	cfg := gradingConfig(v)
	grader := grade.New(embedder, cfg)

	report, studentMap, teacherMap, err := grade.GradeTexts(context.Background(), grader, studentText, teacherText)
	if err != nil {
		return fmt.Errorf("grade: %w", err)
	}

	if !v.GetBool("no-save") {
		if err := persistSession(v.GetString("db"), studentPath, teacherPath,
			studentText, teacherText, studentMap, teacherMap, cfg, report); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}

	if v.GetBool("json") {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report *model.GradeReport) {
	keys := make([]string, 0, len(report.Records))
	for k := range report.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rec := report.Records[k]
		fmt.Fprintf(w, "%s: %.2f/%.0f | Similarity: %.2f\n", k, rec.Mark, report.MaxMarks, rec.Score)
		fmt.Fprintf(w, "  Feedback: %s\n", rec.Feedback)
	}
	fmt.Fprintf(w, "\nTotal Score: %.2f /100\n", report.Percent)
}

func persistSession(dbPath, studentPath, teacherPath, studentText, teacherText string,
	studentMap, teacherMap model.AnswerMap, cfg model.GradingConfig, report *model.GradeReport) error {

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	studentDocID, err := db.InsertDocument(model.Document{
		Role: model.RoleStudent, SourcePath: studentPath, Text: studentText,
	})
	if err != nil {
		return err
	}
	teacherDocID, err := db.InsertDocument(model.Document{
		Role: model.RoleTeacher, SourcePath: teacherPath, Text: teacherText,
	})
	if err != nil {
		return err
	}
	if err := db.SaveAnswers(studentDocID, studentMap); err != nil {
		return err
	}
	if err := db.SaveAnswers(teacherDocID, teacherMap); err != nil {
		return err
	}

	sessionID, err := db.CreateSession(model.GradingSession{
		StudentDocID:   studentDocID,
		TeacherDocID:   teacherDocID,
		SemanticWeight: cfg.SemanticWeight,
		KeywordWeight:  cfg.KeywordWeight,
		MaxMarks:       cfg.MaxMarks,
		Status:         model.StatusGraded,
	})
	if err != nil {
		return err
	}
	if err := db.SaveReport(sessionID, report); err != nil {
		return err
	}
	slog.Info("saved grading session", "session_id", sessionID, "percent", report.Percent)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	embedder, err := newEmbedder(v)
	if err != nil {
		return err
	}

	cfg := gradingConfig(v)
	h := handler.New(db, embedder, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"embed_model", v.GetString("embed-model"),
		"embed_url", v.GetString("embed-url"),
		"semantic_weight", cfg.SemanticWeight,
		"keyword_weight", cfg.KeywordWeight,
		"max_marks", cfg.MaxMarks,
		"clamp", cfg.Clamp,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sessions, err := db.ExportAllSessions()
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	export := store.NewExport(v.GetString("embed-model"), sessions)
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
