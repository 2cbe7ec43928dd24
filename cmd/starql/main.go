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
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vegasq/starql/config"
	"github.com/vegasq/starql/internal/history"
	"github.com/vegasq/starql/internal/logutil"
	"github.com/vegasq/starql/internal/watch"
	"github.com/vegasq/starql/output"
	"github.com/vegasq/starql/query"
	"github.com/vegasq/starql/reader"
	"github.com/vegasq/starql/repl"
)

var logger = logutil.GetLogger("starql")

// queryExample appears in the -q usage text
const queryExample = `$users | pluck(field="age") | filter(where=@ > 30)`

// bindFlags collects repeated -bind name=path flags
type bindFlags map[string]string

func (b bindFlags) String() string {
	pairs := make([]string, 0, len(b))
	for name, path := range b {
		pairs = append(pairs, name+"="+path)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (b bindFlags) Set(s string) error {
	name, path, ok := strings.Cut(s, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("expected name=path, got %q", s)
	}
	if _, exists := b[name]; exists {
		return fmt.Errorf("variable %q is bound twice", name)
	}
	b[name] = path
	return nil
}

// options holds the parsed command line
type options struct {
	query     string
	queryFile string
	cfg       *config.Config
	print     bool
	schema    bool
	describe  string
	watch     bool
	repl      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := logutil.SetOutputFile(opts.cfg.LogFile); err != nil {
		fmt.Fprintf(stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer logutil.SetOutput(io.Discard)

	if err := execute(opts, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("starql", flag.ContinueOnError)
	fs.SetOutput(stderr)

	binds := bindFlags{}
	var (
		queryFlag    = fs.String("q", "", "Query text (e.g., '"+queryExample+"')")
		formatFlag   = fs.String("f", "", "Output format: "+strings.Join(output.Formats, ", ")+" (default: table on a terminal, jsonl otherwise)")
		configFlag   = fs.String("config", "", "Config file (default: $STARQL_CONFIG, ./starql.yaml, ~/.config/starql/starql.yaml)")
		batchFlag    = fs.Int("batch", 0, "Rows pulled by operators at a time")
		limitFlag    = fs.Int("limit", 0, "Limit number of result rows (0 = unlimited)")
		printFlag    = fs.Bool("print", false, "Print the canonical form of the query instead of running it")
		schemaFlag   = fs.Bool("schema", false, "Print the type of the result instead of the result")
		describeFlag = fs.String("describe", "", "Show the schema of a parquet file")
		watchFlag    = fs.Bool("watch", false, "Re-run the query file when it or a bound data file changes")
		logFlag      = fs.String("log", "", "Write debug logs to file")
		historyFlag  = fs.String("history", "", "REPL history database")
		replFlag     = fs.Bool("i", false, "Start an interactive prompt")
	)
	fs.Var(binds, "bind", "Bind a data file to a variable, name=path (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: starql [options] [query-file]\n\n")
		fmt.Fprintf(stderr, "Run StarQL queries over parquet and JSON data.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  starql -q '[1, 2, 3] | filter(where=@ > 1)'\n")
		fmt.Fprintf(stderr, "  starql -bind users=users.parquet -q '$users | take(limit=10)'\n")
		fmt.Fprintf(stderr, "  starql -bind events=events.jsonl.gz -f csv report.sq\n")
		fmt.Fprintf(stderr, "  starql -describe users.parquet\n")
		fmt.Fprintf(stderr, "  starql -i -bind users=users.parquet\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configFlag, os.Getenv)
	if err != nil {
		return nil, err
	}

	// Command line flags override config values
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["f"] {
		cfg.Format = *formatFlag
	}
	if set["batch"] {
		cfg.BatchSize = *batchFlag
	}
	if set["limit"] {
		cfg.Limit = *limitFlag
	}
	if set["log"] {
		cfg.LogFile = *logFlag
	}
	if set["history"] {
		cfg.HistoryFile = *historyFlag
	}
	for name, path := range binds {
		cfg.Bindings[name] = path
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	opts := &options{
		query:    *queryFlag,
		cfg:      cfg,
		print:    *printFlag,
		schema:   *schemaFlag,
		describe: *describeFlag,
		watch:    *watchFlag,
		repl:     *replFlag,
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one query file, got %d arguments", fs.NArg())
	}
	if fs.NArg() == 1 {
		opts.queryFile = fs.Arg(0)
	}

	// Validate flag combinations
	if opts.query != "" && opts.queryFile != "" {
		return nil, errors.New("-q and a query file cannot be used together")
	}
	if opts.watch && opts.queryFile == "" {
		return nil, errors.New("-watch requires a query file")
	}
	if opts.print && opts.schema {
		return nil, errors.New("-print and -schema cannot be used together")
	}
	return opts, nil
}

func execute(opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	format := opts.cfg.Format
	if format == "" {
		format = defaultFormat(stdout)
	}
	formatter, err := output.New(format, stdout)
	if err != nil {
		return err
	}

	if opts.describe != "" {
		return describe(opts.describe, formatter)
	}
	if opts.repl {
		return startREPL(opts, formatter, stdout)
	}

	text, err := queryText(opts, stdin)
	if err != nil {
		return err
	}

	if opts.print {
		q, err := query.Parse(text)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, query.Print(q))
		return err
	}

	if err := runQuery(opts, text, formatter, stdout); err != nil {
		return err
	}
	if opts.watch {
		return watchQuery(opts, formatter, stdout, stderr)
	}
	return nil
}

// defaultFormat picks a table for terminals and JSON Lines for pipes
func defaultFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "table"
	}
	return "jsonl"
}

// queryText returns the query from -q, the query file or stdin
func queryText(opts *options, stdin io.Reader) (string, error) {
	if opts.query != "" {
		return opts.query, nil
	}
	if opts.queryFile != "" {
		data, err := os.ReadFile(opts.queryFile)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no query given (use -q, a query file, or stdin)")
	}
	return string(data), nil
}

// newEngine builds an engine with every configured data file bound
func newEngine(cfg *config.Config) (*query.Engine, error) {
	engine := query.NewEngine(query.WithBatchSize(cfg.BatchSize))

	names := make([]string, 0, len(cfg.Bindings))
	for name := range cfg.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := cfg.Bindings[name]
		v, err := reader.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file '%s' not found", path)
			}
			return nil, fmt.Errorf("binding $%s: %w", name, err)
		}
		if err := engine.Bind(name, v); err != nil {
			return nil, err
		}
		logger.Info("bound variable",
			zap.String("name", "$"+name),
			zap.String("path", path),
			zap.Stringer("type", query.TypeOf(v)))
	}
	return engine, nil
}

func runQuery(opts *options, text string, formatter output.Formatter, stdout io.Writer) error {
	engine, err := newEngine(opts.cfg)
	if err != nil {
		return err
	}

	v, err := engine.Run(text)
	if err != nil {
		return err
	}

	if opts.schema {
		_, err := fmt.Fprintln(stdout, query.TypeOf(v))
		return err
	}

	v, err = applyLimit(v, opts.cfg.Limit)
	if err != nil {
		return err
	}
	if err := formatter.Format(v); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// applyLimit truncates a list result to at most limit elements
func applyLimit(v query.Value, limit int) (query.Value, error) {
	l, ok := v.(*query.List)
	if !ok || limit <= 0 || l.Len() <= limit {
		return v, nil
	}
	return query.NewTypedList(l.ElemType(), l.Items()[:limit])
}

// describe prints the schema of a parquet file. For glob patterns the
// first match is described.
func describe(pattern string, formatter output.Formatter) error {
	filePath := pattern
	if strings.ContainsAny(pattern, "*?[]") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match pattern: %s", pattern)
		}
		filePath = matches[0]
	}

	infos, err := reader.ExtractSchemaInfo(filePath)
	if err != nil {
		return err
	}
	rows, err := reader.SchemaRecords(infos)
	if err != nil {
		return err
	}
	return formatter.Format(rows)
}

func startREPL(opts *options, formatter output.Formatter, stdout io.Writer) error {
	session, err := repl.NewSession(stdout, formatter, func() (*query.Engine, error) {
		return newEngine(opts.cfg)
	})
	if err != nil {
		return err
	}

	historyPath := opts.cfg.HistoryFile
	if historyPath == "" {
		historyPath = defaultHistoryPath()
	}
	if historyPath != "" {
		store, err := history.Open(historyPath)
		if err != nil {
			// History is a convenience; the prompt works without it
			logger.Warn("failed to open history", zap.String("path", historyPath), zap.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			session.SetHistory(store)
		}
	}

	return repl.Start(session, stdout)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starql_history.db")
}

// watchQuery re-runs the query file whenever it or a bound data file
// changes, until interrupted
func watchQuery(opts *options, formatter output.Formatter, stdout, stderr io.Writer) error {
	paths := []string{opts.queryFile}
	for _, p := range opts.cfg.Bindings {
		if !strings.ContainsAny(p, "*?[]") {
			paths = append(paths, p)
		}
	}

	w, err := watch.New(paths...)
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = w.Run(ctx, func(path string) {
		fmt.Fprintf(stderr, "# %s changed, re-running\n", path)
		text, err := queryText(opts, nil)
		if err == nil {
			err = runQuery(opts, text, formatter, stdout)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
