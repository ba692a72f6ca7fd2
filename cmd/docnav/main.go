package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/docnav/pkg/api"
	"github.com/Sriram-PR/docnav/pkg/catalog"
	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/detect"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/storage"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/viewer"
)

const version = "0.4.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "toc":
		runToc(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "list-docs":
		runListDocs(os.Args[2:])
	case "mcp-server":
		runMcpServer(os.Args[2:])
	case "version":
		fmt.Printf("docnav %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `docnav - Documentation anchor navigation engine

Usage:
  docnav <command> [options]

Commands:
  serve       Index collections and serve the viewer HTTP API
  toc         Print the table of contents of a document
  validate    Validate configuration file
  list-docs   List indexed documents per collection
  mcp-server  Start MCP server for AI tool integration
  version     Show version info

Run 'docnav <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file
func loadConfig(path string) (*config.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config.AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// setupLogger creates a configured logrus.Logger with the given log level.
func setupLogger(logLevelStr string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
	}

	return log
}

// loadAndValidateConfig loads the config file, validates it and every collection, and logs warnings.
func loadAndValidateConfig(configFile string, log *logrus.Logger) (*config.AppConfig, error) {
	log.Infof("Loading configuration from %s", configFile)
	appCfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	appWarnings, _ := appCfg.Validate()
	for _, w := range appWarnings {
		log.Warn(w)
	}

	for _, key := range sortedCollectionKeys(appCfg) {
		colCfg := appCfg.Collections[key]
		colWarnings, err := colCfg.Validate()
		if err != nil {
			return nil, fmt.Errorf("collection '%s': %w", key, err)
		}
		for _, w := range colWarnings {
			log.Warnf("[%s] %s", key, w)
		}
	}
	return appCfg, nil
}

func sortedCollectionKeys(appCfg *config.AppConfig) []string {
	keys := make([]string, 0, len(appCfg.Collections))
	for k := range appCfg.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runServe handles the serve subcommand
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	listen := fs.String("listen", "", "Listen address (overrides server.listen_addr)")
	freshIndex := fs.Bool("fresh-index", false, "Discard the cached document index and re-extract everything")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docnav serve [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(*logLevel, os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()

	if err := executeServe(ctx, *configFile, *listen, !*freshIndex, log); err != nil {
		log.Errorf("Serve failed: %v", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

// executeServe wires store, catalog, sessions and the HTTP API, and blocks until ctx is done.
func executeServe(ctx context.Context, configFile, listenOverride string, reuseIndex bool, log *logrus.Logger) error {
	appCfg, err := loadAndValidateConfig(configFile, log)
	if err != nil {
		return err
	}
	if listenOverride != "" {
		appCfg.Server.ListenAddr = listenOverride
	}

	store, err := storage.NewBadgerStore(appCfg.StateDir, reuseIndex, log.WithField("component", "index_store"))
	if err != nil {
		return err
	}
	defer store.Close()
	go store.RunGC(ctx, 0)

	cat := catalog.New(appCfg, store, log.WithField("component", "catalog"))
	if _, err := cat.Load(ctx); err != nil {
		return err
	}
	go cat.RunRefresh(ctx, appCfg.RefreshInterval)

	sessions := viewer.NewManager(cat, appCfg, nil, log.WithField("component", "sessions"))
	defer sessions.CloseAll()
	go sessions.RunSweeper(ctx, appCfg.Server.SessionSweepInterval)

	srv := api.NewServer(appCfg, cat, sessions, log.WithField("component", "http"))
	return srv.ListenAndServe(ctx)
}

// runToc handles the toc subcommand
func runToc(args []string) {
	fs := flag.NewFlagSet("toc", flag.ExitOnError)
	opts := tocOptions{}
	fs.StringVar(&opts.file, "file", "", "Document file to read (markdown, text or HTML)")
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (with -collection and -slug)")
	fs.StringVar(&opts.collection, "collection", "", "Collection key from config")
	fs.StringVar(&opts.slug, "slug", "", "Document slug within the collection")
	fs.StringVar(&opts.selector, "selector", "", "CSS content selector for HTML files, or 'auto' to detect (default 'body')")
	fs.StringVar(&opts.active, "active", "", "Heading id to mark as active")
	fs.StringVar(&opts.format, "format", "text", "Output format (text, json)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docnav toc [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  docnav toc -file docs/guides/intro.md\n")
		fmt.Fprintf(os.Stderr, "  docnav toc -config config.yaml -collection guides -slug intro -format json\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doToc(opts, os.Stdout, os.Stderr))
}

type tocOptions struct {
	file       string
	configPath string
	collection string
	slug       string
	selector   string
	active     string
	format     string
}

// doToc prints a document's section index. Returns exit code.
func doToc(opts tocOptions, stdout, stderr io.Writer) int {
	if opts.format != "text" && opts.format != "json" {
		fmt.Fprintf(stderr, "Error: unknown format '%s' (supported: text, json)\n", opts.format)
		return 1
	}

	var idx toc.SectionIndex
	switch {
	case opts.file != "":
		var err error
		idx, err = extractFile(opts.file, opts.selector, setupLogger("warn", stderr))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case opts.configPath != "" && opts.collection != "" && opts.slug != "":
		cat, code := loadCatalog(opts.configPath, stderr)
		if cat == nil {
			return code
		}
		var err error
		idx, err = cat.Index(opts.collection, opts.slug)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(stderr, "Error: either -file or all of -config, -collection and -slug are required")
		return 1
	}

	if opts.format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(idx); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	panel := toc.FormatPanel(idx, opts.active)
	fmt.Fprint(stdout, panel)
	if !strings.HasSuffix(panel, "\n") {
		fmt.Fprintln(stdout)
	}
	return 0
}

// extractFile reads one document and extracts its headings by file extension
func extractFile(path, selector string, log *logrus.Logger) (toc.SectionIndex, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	switch models.FormatFromExt(strings.ToLower(filepath.Ext(path))) {
	case models.FormatMarkdown:
		return toc.ExtractMarkdown(content), nil
	case models.FormatHTML:
		detector := detect.NewDetector(log.WithField("component", "detect"))
		return toc.ExtractHTMLFunc(content, detector.SelectorFunc(filepath.Dir(path), selector))
	default:
		return toc.Extract(string(content)), nil
	}
}

// loadCatalog loads config quietly and indexes every collection without a persistent store.
// Returns nil and an exit code on failure.
func loadCatalog(configPath string, stderr io.Writer) (*catalog.Catalog, int) {
	log := setupLogger("warn", stderr)
	appCfg, err := loadAndValidateConfig(configPath, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, 1
	}
	cat := catalog.New(appCfg, nil, log.WithField("component", "catalog"))
	if _, err := cat.Load(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, 1
	}
	return cat, 0
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	collection := fs.String("collection", "", "Collection key to validate (optional, validates all if empty)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docnav validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doValidate(*configFile, *collection, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath, collection string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, _ := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}

	keys := sortedCollectionKeys(appCfg)
	if collection != "" {
		if _, ok := appCfg.Collections[collection]; !ok {
			fmt.Fprintf(stderr, "Error: collection '%s' not found in config\n", collection)
			return 1
		}
		keys = []string{collection}
	}

	hasError := false
	for _, key := range keys {
		colCfg := appCfg.Collections[key]
		colWarnings, err := colCfg.Validate()
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: [%s] %v\n", key, err)
			hasError = true
			continue
		}
		for _, w := range colWarnings {
			fmt.Fprintf(stdout, "WARN: [%s] %s\n", key, w)
		}
		if info, err := os.Stat(colCfg.Dir); err != nil || !info.IsDir() {
			fmt.Fprintf(stdout, "WARN: [%s] dir '%s' is not a readable directory\n", key, colCfg.Dir)
		}
		fmt.Fprintf(stdout, "OK: [%s]\n", key)
	}
	if hasError {
		return 1
	}

	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}

// runListDocs handles the list-docs subcommand
func runListDocs(args []string) {
	fs := flag.NewFlagSet("list-docs", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	collection := fs.String("collection", "", "Limit listing to one collection")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docnav list-docs [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doListDocs(*configFile, *collection, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doListDocs indexes the collections and lists their documents.
// Returns exit code (0 = success, 1 = error).
func doListDocs(configPath, collection string, stdout, stderr io.Writer) int {
	cat, code := loadCatalog(configPath, stderr)
	if cat == nil {
		return code
	}

	refs, err := cat.Documents(collection)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	byCategory := make(map[string][]models.DocumentRef)
	for _, ref := range refs {
		byCategory[ref.Category] = append(byCategory[ref.Category], ref)
	}

	fmt.Fprintf(stdout, "Documents in %s:\n\n", configPath)
	for _, info := range cat.Collections() {
		if collection != "" && info.Key != collection {
			continue
		}
		sync := "off"
		if info.URLSync {
			sync = "?" + info.URLParam + "="
		}
		fmt.Fprintf(stdout, "  %s (%s) - %d documents, url sync %s\n", info.Key, info.Label, info.Documents, sync)
		for _, ref := range byCategory[info.Key] {
			entry, err := cat.Entry(ref.Category, ref.Slug)
			if err != nil {
				continue
			}
			line := fmt.Sprintf("    %-24s %-28s %d headings", ref.Slug, ref.FileName, len(entry.Headings))
			if entry.ErrorType != "" {
				line += " [" + entry.ErrorType + "]"
			}
			fmt.Fprintln(stdout, line)
		}
		fmt.Fprintln(stdout)
	}
	return 0
}
