package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/starql/internal/history"
	"github.com/vegasq/starql/output"
	"github.com/vegasq/starql/query"
)

const defaultHistoryShown = 20

// Session evaluates REPL input against one engine, so statements entered
// earlier stay bound for later input.
type Session struct {
	engine    *query.Engine
	newEngine func() (*query.Engine, error)
	formatter output.Formatter
	out       io.Writer
	history   *history.Store
}

// NewSession creates a session. newEngine builds the engine, including any
// data bindings; it is called again by :reset.
func NewSession(out io.Writer, formatter output.Formatter, newEngine func() (*query.Engine, error)) (*Session, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	return &Session{
		engine:    engine,
		newEngine: newEngine,
		formatter: formatter,
		out:       out,
	}, nil
}

// SetHistory records every evaluated input in h
func (s *Session) SetHistory(h *history.Store) {
	s.history = h
}

// Engine returns the engine input is evaluated with
func (s *Session) Engine() *query.Engine {
	return s.engine
}

// Handle evaluates one complete input, a query or a ':' command, and
// writes the result or error. It returns true when the session should end.
func (s *Session) Handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	if s.history != nil {
		if _, err := s.history.Add(input); err != nil {
			logger.Warn("failed to save history", zap.Error(err))
		}
	}

	v, err := s.engine.Run(input)
	if err != nil {
		printError(s.out, err)
		return false
	}
	if err := s.formatter.Format(v); err != nil {
		fmt.Fprintf(s.out, "output error: %v\n", err)
	}
	return false
}

func (s *Session) command(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		printHelp(s.out)

	case ":quit", ":q", ":exit":
		return true

	case ":vars":
		s.printVars()

	case ":ops":
		for _, sig := range s.engine.Registry().Signatures() {
			fmt.Fprintf(s.out, "  %s\n", sig)
			if sig.Doc != "" {
				fmt.Fprintf(s.out, "      %s\n", sig.Doc)
			}
		}

	case ":print":
		if arg == "" {
			fmt.Fprintln(s.out, "usage: :print <query>")
			break
		}
		q, err := query.Parse(arg)
		if err != nil {
			printError(s.out, err)
			break
		}
		fmt.Fprintln(s.out, query.Print(q))

	case ":type":
		if arg == "" {
			fmt.Fprintln(s.out, "usage: :type <query>")
			break
		}
		v, err := s.engine.Run(arg)
		if err != nil {
			printError(s.out, err)
			break
		}
		fmt.Fprintln(s.out, query.TypeOf(v))

	case ":reset":
		engine, err := s.newEngine()
		if err != nil {
			printError(s.out, err)
			break
		}
		s.engine = engine
		fmt.Fprintln(s.out, "Environment reset")

	case ":history":
		s.printHistory(arg)

	case ":rerun":
		if e, ok := s.historyEntry(arg, ":rerun"); ok {
			fmt.Fprintln(s.out, e.Text)
			return s.Handle(e.Text)
		}

	case ":forget":
		if e, ok := s.historyEntry(arg, ":forget"); ok {
			if err := s.history.Delete(e.Seq); err != nil {
				fmt.Fprintf(s.out, "history error: %v\n", err)
				break
			}
			fmt.Fprintf(s.out, "Forgot entry %d\n", e.Seq)
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
	return false
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "REPL Commands:")
	fmt.Fprintln(out, "  :help, :h, :?     Show this help")
	fmt.Fprintln(out, "  :vars             Show variables and their types")
	fmt.Fprintln(out, "  :ops              Show available operators")
	fmt.Fprintln(out, "  :print <query>    Show the canonical form of a query")
	fmt.Fprintln(out, "  :type <query>     Show the type of a query result")
	fmt.Fprintln(out, "  :reset            Discard variables defined in this session")
	fmt.Fprintln(out, "  :history [n]      Show the last n inputs (default 20)")
	fmt.Fprintln(out, "  :history a b      Show inputs a through b")
	fmt.Fprintln(out, "  :rerun <n>        Evaluate history entry n again")
	fmt.Fprintln(out, "  :forget <n>       Delete history entry n")
	fmt.Fprintln(out, "  :quit, :q         Exit the REPL")
}

// printVars displays all variables of the root environment
func (s *Session) printVars() {
	env := s.engine.Environment()
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(no variables)")
		return
	}
	sort.Strings(names)

	for _, name := range names {
		v, err := env.Get(name)
		if err != nil {
			continue
		}
		value := v.String()
		// Truncate long values
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(s.out, "  $%s: %s = %s\n", name, query.TypeOf(v), value)
	}
}

// printHistory shows the last 20 entries, the last n, or the entries
// numbered from through upto
func (s *Session) printHistory(arg string) {
	if s.history == nil {
		fmt.Fprintln(s.out, "(history disabled)")
		return
	}

	var entries []history.Entry
	var err error
	fields := strings.Fields(arg)
	switch len(fields) {
	case 0:
		entries, err = s.history.Last(defaultHistoryShown)
	case 1:
		n, convErr := strconv.Atoi(fields[0])
		if convErr != nil || n < 1 {
			fmt.Fprintln(s.out, "usage: :history [n] | :history <from> <to>")
			return
		}
		entries, err = s.history.Last(n)
	case 2:
		from, fromErr := strconv.Atoi(fields[0])
		upto, uptoErr := strconv.Atoi(fields[1])
		if fromErr != nil || uptoErr != nil || from < 1 || upto < from {
			fmt.Fprintln(s.out, "usage: :history [n] | :history <from> <to>")
			return
		}
		entries, err = s.history.Range(from, upto+1)
	default:
		fmt.Fprintln(s.out, "usage: :history [n] | :history <from> <to>")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "history error: %v\n", err)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "%5d  %s\n", e.Seq, e.Text)
	}
}

// historyEntry looks up the entry numbered by arg, reporting problems to
// the user
func (s *Session) historyEntry(arg, cmd string) (history.Entry, bool) {
	if s.history == nil {
		fmt.Fprintln(s.out, "(history disabled)")
		return history.Entry{}, false
	}
	seq, err := strconv.Atoi(arg)
	if err != nil || seq < 1 {
		fmt.Fprintf(s.out, "usage: %s <n>\n", cmd)
		return history.Entry{}, false
	}
	e, err := s.history.Get(seq)
	if errors.Is(err, history.ErrNoMatchingCmd) {
		fmt.Fprintf(s.out, "no history entry %d\n", seq)
		return history.Entry{}, false
	}
	if err != nil {
		fmt.Fprintf(s.out, "history error: %v\n", err)
		return history.Entry{}, false
	}
	return e, true
}

func printError(out io.Writer, err error) {
	fmt.Fprintln(out, err)
}
