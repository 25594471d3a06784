// Package main provides the devagent command line interface. It runs one
// autonomous agent session: a single prompt, a sandboxed workspace, and a
// printed final answer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/orchestrator"
	orchadapter "github.com/Cyclone1070/devagent/internal/orchestrator/adapter"
	"github.com/Cyclone1070/devagent/internal/provider/gemini"
	provider "github.com/Cyclone1070/devagent/internal/provider/models"
	"github.com/Cyclone1070/devagent/internal/ratelimit"
	"github.com/Cyclone1070/devagent/internal/session"
	"github.com/Cyclone1070/devagent/internal/tool/directory"
	"github.com/Cyclone1070/devagent/internal/tool/executor"
	"github.com/Cyclone1070/devagent/internal/tool/file"
	"github.com/Cyclone1070/devagent/internal/tool/fsutil"
	"github.com/Cyclone1070/devagent/internal/tool/git"
	"github.com/Cyclone1070/devagent/internal/tool/gitutil"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
	"github.com/Cyclone1070/devagent/internal/tool/search"
	"google.golang.org/genai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	workspace := flag.String("workspace", ".", "workspace root directory all tool operations are confined to")
	summary := flag.Bool("summary", false, "print a session activity summary after the run")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	maxIterations := flag.Int("max-iterations", 0, "override the configured iteration budget")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <prompt>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	prompt := flag.Arg(0)

	logger := newLogger(*logLevel)

	cfg, err := config.NewLoader().Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *maxIterations > 0 {
		cfg.Agent.MaxIterations = *maxIterations
	}

	workspaceRoot, err := pathutil.CanonicaliseRoot(*workspace)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.NewState()
	tools := createTools(cfg, workspaceRoot, sess, logger)

	p, err := createProvider(ctx, cfg)
	if err != nil {
		return err
	}

	apiLimiter := ratelimit.New(
		cfg.Agent.APIRateMaxCalls,
		time.Duration(cfg.Agent.APIRatePeriodSecs*float64(time.Second)),
		logger)
	toolLimiter := ratelimit.New(
		cfg.Agent.ToolRateMaxCalls,
		time.Duration(cfg.Agent.ToolRatePeriodSecs*float64(time.Second)),
		logger)

	orch := orchestrator.New(p, tools, apiLimiter, toolLimiter, cfg, logger)

	result, err := orch.Run(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Println(result.FinalText)

	if *summary {
		fmt.Println()
		fmt.Println(sess.Summary())
		fmt.Printf("Iterations: %d  Tool calls: %d  Tokens: %d  Estimated cost: $%.4f\n",
			result.Iterations, result.ToolCallCount, result.TokensUsed, result.EstimatedCost())
		if len(result.Errors) > 0 {
			fmt.Printf("Errors encountered: %d\n", len(result.Errors))
		}
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func createProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return gemini.New(gemini.NewRealGeminiClient(genaiClient), cfg.Agent.Model), nil
}

func createTools(cfg *config.Config, workspaceRoot string, sess *session.State, logger *slog.Logger) []orchadapter.Tool {
	fs := fsutil.NewOSFileSystem()
	detector := fsutil.NewSystemBinaryDetector(cfg.Tools.BinaryDetectionSampleSize)

	// A missing or unreadable .gitignore degrades search to a full scan.
	var ignore interface {
		ShouldIgnore(relativePath string, isDir bool) bool
	}
	ignore, err := gitutil.NewService(workspaceRoot, fs)
	if err != nil {
		logger.Warn("gitignore unavailable, searching all files", "error", err)
		ignore = &gitutil.NoOpService{}
	}

	gitTool := git.NewTool(executor.NewOSCommandExecutor(), fs, sess, cfg, workspaceRoot)

	return []orchadapter.Tool{
		orchadapter.NewReadFile(file.NewReadFileTool(fs, detector, sess, cfg, workspaceRoot)),
		orchadapter.NewWriteFile(file.NewWriteFileTool(fs, sess, cfg, workspaceRoot)),
		orchadapter.NewListFiles(directory.NewListFilesTool(fs, cfg, workspaceRoot)),
		orchadapter.NewCreateDirectory(directory.NewCreateDirectoryTool(fs, cfg, workspaceRoot)),
		orchadapter.NewSearchFiles(search.NewSearchFilesTool(fs, detector, ignore, sess, cfg, workspaceRoot)),
		orchadapter.NewGitStatus(gitTool),
		orchadapter.NewGitDiff(gitTool),
		orchadapter.NewGitCommit(gitTool),
	}
}
