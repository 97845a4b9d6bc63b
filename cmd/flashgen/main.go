package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bekhruzmd/flashgen/internal/attemptlog"
	"github.com/bekhruzmd/flashgen/internal/cardgen"
	"github.com/bekhruzmd/flashgen/internal/deck"
	"github.com/bekhruzmd/flashgen/internal/export"
	appI18n "github.com/bekhruzmd/flashgen/internal/i18n"
	"github.com/bekhruzmd/flashgen/internal/llm"
	"github.com/bekhruzmd/flashgen/internal/model"
	"github.com/bekhruzmd/flashgen/internal/quiz"
	"github.com/bekhruzmd/flashgen/internal/reader"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flashgen",
		Short: "AI-powered flashcards: generate decks, quiz yourself, review results",
	}
	root.AddCommand(makeCmd(), quizCmd(), reviewCmd())
	return root
}

// addCommonFlags registers the flags every subcommand shares.
func addCommonFlags(f *pflag.FlagSet) {
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("lang", "en", "UI language (en, ru)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func makeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make <input-file>",
		Short: "Generate flashcards from study materials (.txt/.md/.pdf/.docx)",
		Args:  cobra.ExactArgs(1),
		RunE:  runMake,
	}
	f := cmd.Flags()
	f.StringP("format", "f", "json", "Export format: "+strings.Join(export.Formats(), ", "))
	f.StringP("output-dir", "o", "output_files", "Output directory for generated files")
	addCommonFlags(f)
	return cmd
}

func quizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take an interactive AI-graded quiz with your flashcards",
		RunE:  runQuiz,
	}
	f := cmd.Flags()
	f.StringP("cards-file", "c", "flashcards.json", "JSON file containing flashcards")
	f.IntP("limit", "l", 0, "Number of cards to quiz (0 = all)")
	f.BoolP("explain", "e", true, "Enable AI explanations for wrong answers")
	f.Bool("shuffle", true, "Shuffle cards before the quiz")
	f.String("attempts-dir", "quiz_attempts", "Directory for session attempt logs")
	addCommonFlags(f)
	return cmd
}

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review quiz performance and statistics",
		RunE:  runReview,
	}
	f := cmd.Flags()
	f.StringP("dir", "d", "quiz_attempts", "Directory containing quiz attempt files")
	f.StringP("file", "f", "", "Specific session file to review (default: all sessions)")
	addCommonFlags(f)
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

	v.SetEnvPrefix("FLASHGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("flashgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/flashgen")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	}

	return v
}

func newClient(v *viper.Viper) *llm.Client {
	return llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
}

func runMake(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	format := v.GetString("format")
	if !slices.Contains(export.Formats(), format) {
		return fmt.Errorf("unsupported format %q (available: %s)",
			format, strings.Join(export.Formats(), ", "))
	}

	input := args[0]
	fmt.Println(appI18n.Td("make.loading", map[string]any{"Path": input}))
	text, err := reader.Load(input)
	if err != nil {
		return fmt.Errorf("load study material: %w", err)
	}

	fmt.Println(appI18n.T("make.generating"))
	cards, err := cardgen.New(newClient(v)).Generate(cmd.Context(), text)
	if err != nil {
		return err
	}

	outDir := v.GetString("output-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	outPath := filepath.Join(outDir, stem+"_flashcards."+format)

	fmt.Println(appI18n.Td("make.saving", map[string]any{
		"Count": len(cards),
		"Path":  outPath,
	}))
	if err := export.Export(cards, format, outPath); err != nil {
		return err
	}

	fmt.Println(appI18n.T("make.done"))
	fmt.Println(appI18n.Td("make.hint", map[string]any{"Path": outPath}))
	return nil
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	cards, err := deck.Load(v.GetString("cards-file"))
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	prepared := deck.Prepare(cards, v.GetBool("shuffle"), v.GetInt("limit"), rng)

	client := newClient(v)
	sess := quiz.NewSession(prepared, quiz.NewJudge(client), quiz.NewExplainer(client), quiz.Config{
		Explanations: v.GetBool("explain"),
		Input:        os.Stdin,
		Output:       os.Stdout,
	})
	summary := sess.Run(cmd.Context())

	if len(summary.Attempts) == 0 {
		fmt.Println(appI18n.T("quiz.no_data"))
		return nil
	}

	store := attemptlog.New(v.GetString("attempts-dir"))
	path, err := store.Save(summary.Attempts)
	if err != nil {
		return fmt.Errorf("save attempts: %w", err)
	}

	fmt.Println()
	if summary.Aborted {
		fmt.Println(appI18n.Td("quiz.ended_early", map[string]any{
			"Answered": len(summary.Attempts),
			"Total":    summary.TotalCards,
		}))
	} else {
		fmt.Println(appI18n.T("quiz.complete"))
	}
	fmt.Println(appI18n.Td("quiz.results", map[string]any{
		"Correct":  summary.CorrectCount,
		"Total":    len(summary.Attempts),
		"Accuracy": fmt.Sprintf("%.1f", summary.Accuracy()),
	}))
	fmt.Println(appI18n.Td("quiz.saved", map[string]any{"Path": path}))
	return nil
}

func runReview(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	store := attemptlog.New(v.GetString("dir"))

	var (
		attempts []model.Attempt
		sessions int
		err      error
	)
	if name := v.GetString("file"); name != "" {
		attempts, err = store.LoadOne(name)
		sessions = 1
	} else {
		attempts, sessions, err = store.LoadAll()
	}
	if err != nil {
		return err
	}

	stats, err := attemptlog.Summarize(attempts)
	if errors.Is(err, attemptlog.ErrNoAttempts) {
		fmt.Println(appI18n.T("review.no_attempts"))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(appI18n.Td("review.analyzing", map[string]any{
		"Attempts": stats.Count,
		"Sessions": sessions,
	}))
	fmt.Println()
	fmt.Println(appI18n.T("review.overview"))
	fmt.Println(appI18n.Td("review.total_attempts", map[string]any{"Count": stats.Count}))
	fmt.Println(appI18n.Td("review.average_score", map[string]any{
		"Score": fmt.Sprintf("%.2f", stats.AverageScore),
	}))
	fmt.Println(appI18n.Td("review.success_rate", map[string]any{
		"Correct": stats.CorrectCount,
		"Count":   stats.Count,
		"Rate":    fmt.Sprintf("%.1f", stats.SuccessRate),
	}))

	fmt.Println()
	fmt.Println(appI18n.T("review.recent"))
	recent := attempts
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, a := range recent {
		status := "PASS"
		if !a.Verdict.IsCorrect {
			status = "MISS"
		}
		fmt.Printf("  %s  %.1f/1.0  %s\n", status, a.Verdict.Score, truncateQuestion(a.Question))
	}
	return nil
}

func truncateQuestion(q string) string {
	const limit = 60
	runes := []rune(q)
	if len(runes) <= limit {
		return q
	}
	return string(runes[:limit]) + "..."
}
