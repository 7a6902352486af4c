package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avolkov/testforge/internal/docstore"
	"github.com/avolkov/testforge/internal/handler"
	"github.com/avolkov/testforge/internal/llm"
	"github.com/avolkov/testforge/internal/model"
	"github.com/avolkov/testforge/internal/monitoring"
	"github.com/avolkov/testforge/internal/store"
	"github.com/avolkov/testforge/internal/testgen"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "testforge",
		Short: "Topic-based test generator powered by LLMs",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `testforge --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("tests-db", "tests.db", "SQLite database path for tests and questions")
	f.String("topics-db", "topics.db", "SQLite database path for topics and documents")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty = OpenAI default)")
	f.String("llm-key", "", "API key for LLM (or set TESTFORGE_LLM_KEY)")
	f.String("llm-model", "gpt-4", "LLM model name")
	f.String("storage-endpoint", "", "MinIO/S3 endpoint for document blobs (empty = local directory)")
	f.String("storage-access-key", "", "Object storage access key")
	f.String("storage-secret-key", "", "Object storage secret key")
	f.String("storage-bucket", "testforge-documents", "Object storage bucket")
	f.Bool("storage-ssl", true, "Use TLS for object storage")
	f.String("storage-dir", "documents", "Local directory for blobs when no endpoint is set")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a topic's tests as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("tests-db", "tests.db", "SQLite database path for tests and questions")
	f.String("topic", "", "Topic identifier to export (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("topic")

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

	v.SetEnvPrefix("TESTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("testforge")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/testforge")
	v.AddConfigPath("/etc/testforge")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Two independent databases: tests/questions and topics/documents are
	// never joined.
	tests, err := store.OpenTestStore(v.GetString("tests-db"))
	if err != nil {
		return fmt.Errorf("open test store: %w", err)
	}
	defer tests.Close()

	topics, err := store.OpenTopicStore(v.GetString("topics-db"))
	if err != nil {
		return fmt.Errorf("open topic store: %w", err)
	}
	defer topics.Close()

	llmClient := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	if err := llmClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))

	docs, err := openDocstore(v)
	if err != nil {
		return fmt.Errorf("open document storage: %w", err)
	}

	h := handler.New(topics, tests, testgen.NewService(llmClient), docs)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(monitoring.Middleware)
	h.Routes(r)
	r.Handle("/metrics", monitoring.Handler())

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"tests_db", v.GetString("tests-db"),
		"topics_db", v.GetString("topics-db"),
	)
	return http.ListenAndServe(addr, r)
}

func openDocstore(v *viper.Viper) (docstore.Storage, error) {
	endpoint := v.GetString("storage-endpoint")
	if endpoint == "" {
		return docstore.NewLocal(v.GetString("storage-dir"))
	}
	return docstore.NewMinio(
		endpoint,
		v.GetString("storage-access-key"),
		v.GetString("storage-secret-key"),
		v.GetString("storage-bucket"),
		v.GetBool("storage-ssl"),
	)
}

// topicExport is the JSON shape produced by the export command.
type topicExport struct {
	TopicID model.TopicRef `json:"topicId"`
	Tests   []testExport   `json:"tests"`
}

type testExport struct {
	Test      model.Test       `json:"test"`
	Questions []model.Question `json:"questions"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	tests, err := store.OpenTestStore(v.GetString("tests-db"))
	if err != nil {
		return fmt.Errorf("open test store: %w", err)
	}
	defer tests.Close()

	topicID := model.TopicRef(v.GetString("topic"))
	headers, err := tests.ListTestsByTopic(topicID)
	if err != nil {
		return fmt.Errorf("list tests: %w", err)
	}

	export := topicExport{TopicID: topicID, Tests: []testExport{}}
	for _, header := range headers {
		test, questions, err := tests.GetTest(header.ID)
		if err != nil {
			return fmt.Errorf("read test %d: %w", header.ID, err)
		}
		export.Tests = append(export.Tests, testExport{Test: test, Questions: questions})
	}

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
	_, _ = fmt.Fprintln(w)

	return nil
}
