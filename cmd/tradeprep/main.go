// Package main is the tradeprep CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tradeprep/internal/cli"
	"github.com/hyperjump/tradeprep/internal/config"
	"github.com/hyperjump/tradeprep/internal/declaration"
	"github.com/hyperjump/tradeprep/internal/extract"
	"github.com/hyperjump/tradeprep/internal/pipeline"
	"github.com/hyperjump/tradeprep/internal/server"
	"github.com/hyperjump/tradeprep/internal/watcher"
	"github.com/hyperjump/tradeprep/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tradeprep/config.yaml"

// stdinArg names standard input as the document source.
const stdinArg = "-"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). A missing default config
// is not an error: built-in defaults are used and the returned path is empty.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}
	command := os.Args[1]
	var err error
	switch command {
	case "preprocess":
		err = runPreprocess(os.Args[2:], os.Stdin, os.Stdout)
	case "declaration":
		err = runDeclaration(os.Args[2:], os.Stdin, os.Stdout)
	case "server":
		err = runServer(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:], os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("tradeprep version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

// argsReorder moves any flags (and their values) that appear after the document
// argument to the front so that flag.Parse() sees them. Go's flag package stops
// at the first non-flag argument, so "tradeprep preprocess bl.pdf -output json"
// would otherwise leave -output unparsed. A lone "-" is the stdin marker, not a flag.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 1 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// readDocument returns the text of the document named by arg. "-" reads stdin
// as plain text; files go through the extractor by extension.
func readDocument(arg string, stdin io.Reader) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return extract.NewExtractor().Extract(arg)
}

// newCommandLogger builds the logger for one-shot commands. Logs go to stderr
// and stay quiet unless debug is set, so stdout carries only the output.
func newCommandLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	return utils.MustLogger(true)
}

func runPreprocess(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging on stderr")
	noNoise := fs.Bool("no-noise-removal", false, "skip the noise filter")
	noFields := fs.Bool("no-field-detection", false, "skip field detection")
	noChunking := fs.Bool("no-smart-chunking", false, "skip section chunking")
	maxTokens := fs.Int("max-tokens", 0, "chunking token budget (0 = from config)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tradeprep preprocess [flags] <file|->\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argsReorder(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one document argument")
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	pc := cfg.Preprocess
	if *noNoise {
		pc.EnableNoiseRemoval = config.Bool(false)
	}
	if *noFields {
		pc.EnableFieldDetection = config.Bool(false)
	}
	if *noChunking {
		pc.EnableSmartChunking = config.Bool(false)
	}
	if *maxTokens > 0 {
		pc.MaxLLMTokens = *maxTokens
	}
	logger := newCommandLogger(cfg.Debug || *debug)
	defer logger.Sync()

	p, err := pipeline.New(pc, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	text, err := readDocument(fs.Arg(0), stdin)
	if err != nil {
		return err
	}
	result, err := p.ProcessChecked(text)
	if err != nil {
		return err
	}
	prompt := p.LLMPrompt(result)
	return cli.WritePreprocessResult(stdout, &cli.PreprocessOutput{
		Source:       fs.Arg(0),
		Result:       result,
		LLMPrompt:    prompt,
		TokenSavings: pipeline.TokenSavings(text, prompt),
	}, format)
}

func runDeclaration(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("declaration", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "json", "output format: text or json")
	validate := fs.Bool("validate", true, "check hints against the declaration schema")
	debug := fs.Bool("debug", false, "enable debug logging on stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tradeprep declaration [flags] <file|->\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argsReorder(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one document argument")
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := newCommandLogger(cfg.Debug || *debug)
	defer logger.Sync()

	text, err := readDocument(fs.Arg(0), stdin)
	if err != nil {
		return err
	}
	if err := pipeline.CheckSize(text, cfg.Preprocess.MaxInputBytes); err != nil {
		return err
	}
	hints := declaration.NewPreprocessor(logger).Hints(text)
	if *validate {
		if err := declaration.ValidateHints(hints); err != nil {
			return err
		}
	}
	return cli.WriteDeclaration(stdout, hints, format)
}

// runInit writes the built-in defaults to a config file. An existing file is
// only replaced with -force.
func runInit(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path to write")
	force := fs.Bool("force", false, "overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := *configPath
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config %s already exists (use -force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote default config to %s\n", path)
	return nil
}

// setupService loads config and builds the long-running logger shared by server and watch.
func setupService(name string, args []string) (*config.Config, *zap.Logger, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, resolved, err := loadConfig(*configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolved),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger, nil
}

func runServer(args []string) error {
	cfg, logger, err := setupService("server", args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, err := pipeline.New(cfg.Preprocess, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	srv := server.NewServer(p, &cfg.Server, logger)
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func runWatch(args []string) error {
	cfg, logger, err := setupService("watch", args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.Watch.Directories) == 0 {
		return errors.New("no watch.directories configured")
	}
	for _, ext := range cfg.Watch.Extensions {
		if !extract.Supported(ext) {
			logger.Warn("watched extension has no dedicated extractor, reading as plain text", zap.String("extension", ext))
		}
	}
	p, err := pipeline.New(cfg.Preprocess, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	inbox := watcher.NewInbox(p, cfg.Watch.OutputDir, logger)
	w := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		inbox.HandleReady,
		inbox.HandleRemove,
		watcher.WithLogger(logger),
	)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	logger.Info("watching inbox",
		zap.Strings("directories", w.Directories()),
		zap.String("output_dir", cfg.Watch.OutputDir))
	w.SyncExistingFiles()

	<-ctx.Done()
	logger.Info("Shutting down...")
	w.Stop()
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tradeprep - Trade document preprocessing before LLM extraction

Usage:
  tradeprep preprocess [flags] <file|->   Filter, detect fields and chunk a document
  tradeprep declaration [flags] <file|->  Extract import declaration hints
  tradeprep server [flags]                Start the HTTP server
  tradeprep watch [flags]                 Process documents dropped into inbox directories
  tradeprep init [flags]                  Write a config file with the defaults
  tradeprep version                       Show version
  tradeprep help                          Show this help

Documents are read by extension: .pdf, .docx, .xlsx, and .txt/.ocr/.md as plain text.
Use "-" to read plain text from stdin.

Preprocess Flags:
  --config string        Config file path (default: /usr/local/etc/tradeprep/config.yaml)
  --output string        Output format: text or json (default: text)
  --no-noise-removal     Skip the noise filter
  --no-field-detection   Skip field detection
  --no-smart-chunking    Skip section chunking
  --max-tokens int       Chunking token budget (default from config, 1500)
  --debug                Log pipeline stages to stderr

Declaration Flags:
  --config string        Config file path; max_input_bytes caps the document size
  --output string        Output format: text or json (default: json)
  --validate             Check hints against the declaration schema (default: true)

Init Flags:
  --config string        Config file path to write
  --force                Overwrite an existing config file

Server and Watch Flags:
  --config string        Config file path
  --debug                Enable debug logging

Examples:
  tradeprep preprocess bill_of_lading.pdf
  tradeprep preprocess --output json scan.ocr
  ocr-tool page.png | tradeprep preprocess -
  tradeprep declaration --output text invoice.docx
  tradeprep init --config ./config.yaml
  tradeprep server --config ./config.yaml
  tradeprep watch`)
}
