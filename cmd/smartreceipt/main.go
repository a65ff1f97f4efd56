package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/BajorskiPatrick/SmartReceipt/internal/category"
	"github.com/BajorskiPatrick/SmartReceipt/internal/cleaning"
	"github.com/BajorskiPatrick/SmartReceipt/internal/expense"
	"github.com/BajorskiPatrick/SmartReceipt/internal/extraction"
	"github.com/BajorskiPatrick/SmartReceipt/internal/ocr"
	"github.com/BajorskiPatrick/SmartReceipt/internal/visual"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("smartreceipt")
	var (
		port          = fs.IntLong("port", 8000, "HTTP server port")
		debugDir      = fs.StringLong("debug-dir", "./data/debug", "Directory for uploaded images and debug artifacts")
		journalPath   = fs.StringLong("journal", "smartreceipt.db", "Processing journal database path")
		providerType  = fs.StringLong("provider", "gemini", "Generative model provider: 'gemini' or 'ollama'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set SMARTRECEIPT_GEMINI_KEY)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.0-flash", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llama3.2", "Ollama model name")
		ocrURL        = fs.StringLong("ocr-url", "http://localhost:8868", "OCR engine base URL")
		classifierURL = fs.StringLong("classifier-url", "http://localhost:8869", "Product classifier base URL")
		threshold     = fs.StringLong("classifier-threshold", "0.6", "Minimum classifier confidence")
		maxConcurrent = fs.IntLong("max-concurrent", 1, "Max requests inside the pipeline at once (1 for single-GPU)")
		minNameLen    = fs.IntLong("min-name-len", 3, "Minimum accepted product name length")
		maxUnspaced   = fs.IntLong("max-unspaced-name", 20, "Longest name accepted without an internal space")
		noVisualize   = fs.BoolLong("no-visualize", "Disable debug summary rendering")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username for debug endpoints (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password for debug endpoints (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SMARTRECEIPT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	confidence, err := strconv.ParseFloat(*threshold, 64)
	if err != nil || confidence < 0 || confidence > 1 {
		slog.Error("Invalid classifier threshold", "value", *threshold)
		os.Exit(1)
	}

	rules := cleaning.DefaultRules()
	rules.MinNameLen = *minNameLen
	rules.MaxUnspacedName = *maxUnspaced

	slog.Info("Initializing journal...", "path", *journalPath)
	journal, err := expense.NewBoltJournal(*journalPath)
	if err != nil {
		slog.Error("Failed to initialize journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	slog.Info("Initializing debug storage...", "dir", *debugDir)
	storage, err := expense.NewDebugStorage(*debugDir)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing OCR client...", "url", *ocrURL)
	textSource, err := ocr.NewClient(*ocrURL)
	if err != nil {
		slog.Error("Failed to initialize OCR client", "error", err)
		os.Exit(1)
	}

	var generator extraction.Generator
	switch *providerType {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key or GEMINI_API_KEY")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini provider...", "model", *geminiModel)
		generator, err = extraction.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama provider...", "url", *ollamaURL, "model", *ollamaModel)
		generator, err = extraction.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid provider type", "type", *providerType, "valid", "gemini or ollama")
		os.Exit(1)
	}
	defer generator.Close()

	parser := extraction.NewExtractor(textSource, generator, rules)

	// The classifier is required: constructing the client fails fast when
	// the service is unreachable, and we refuse to start without it.
	slog.Info("Initializing classifier client...", "url", *classifierURL)
	classifier, err := category.NewClient(*classifierURL)
	if err != nil {
		slog.Error("Failed to initialize classifier", "error", err)
		os.Exit(1)
	}
	categorizer := category.NewCategorizer(classifier, confidence)

	var visualizer expense.Visualizer = visual.NewSummaryWriter()
	if *noVisualize {
		visualizer = visual.Noop{}
	}

	service := expense.NewService(parser, categorizer, storage, journal, visualizer, int64(*maxConcurrent))
	defer service.Close()

	basicAuth := expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := expense.NewServer(service, journal, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version, "max_concurrent", *maxConcurrent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
