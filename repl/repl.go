// Package repl implements the interactive StarQL prompt.
//
// Input is read with line editing and tab completion. A query spanning
// several lines is collected until its brackets balance. Each complete
// input is evaluated in one Session, so variables bound by earlier input
// stay visible; an input that fails leaves earlier bindings in place.
package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/vegasq/starql/internal/logutil"
)

var logger = logutil.GetLogger("repl")

const (
	prompt             = "starql> "
	continuationPrompt = "   ...> "

	// historyLoad is the number of stored entries loaded into line editing
	historyLoad = 1000
)

var commands = []string{":help", ":vars", ":ops", ":print ", ":type ", ":reset", ":history", ":rerun ", ":forget ", ":quit"}

// Start runs the prompt until the user quits or input ends
func Start(s *Session, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		return s.complete(input)
	})

	if s.history != nil {
		entries, err := s.history.Last(historyLoad)
		if err != nil {
			logger.Warn("failed to load history", zap.Error(err))
		}
		for _, e := range entries {
			line.AppendHistory(e.Text)
		}
	}

	fmt.Fprintln(out, "StarQL. Type :help for commands, Ctrl+D to quit.")

	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				// Ctrl+C clears any buffered input
				buf.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(input)

		full := buf.String()
		if needsMoreInput(full) {
			continue
		}
		buf.Reset()

		if strings.TrimSpace(full) != "" {
			line.AppendHistory(full)
		}
		if s.Handle(full) {
			return nil
		}
	}
}

// complete suggests commands, operator names and variable names for the
// word being typed
func (s *Session) complete(input string) []string {
	if input == "" || strings.HasSuffix(input, " ") {
		return nil
	}

	if strings.HasPrefix(input, ":") && !strings.Contains(input, " ") {
		var matches []string
		for _, c := range commands {
			if strings.HasPrefix(c, input) {
				matches = append(matches, c)
			}
		}
		return matches
	}

	start := strings.LastIndexAny(input, " \t|([{,=") + 1
	head, word := input[:start], input[start:]

	var candidates []string
	if strings.HasPrefix(word, "$") {
		for _, name := range s.engine.Environment().Names() {
			candidates = append(candidates, "$"+name)
		}
	} else {
		for _, sig := range s.engine.Registry().Signatures() {
			candidates = append(candidates, sig.Name+"(", sig.QualifiedName()+"(")
		}
	}

	var matches []string
	for _, c := range candidates {
		if word != "" && strings.HasPrefix(c, word) {
			matches = append(matches, head+c)
		}
	}
	sort.Strings(matches)
	return matches
}

// needsMoreInput reports whether input has unclosed brackets, braces,
// parentheses or strings
func needsMoreInput(input string) bool {
	depth := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inString {
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '/':
			// Line comment: skip to end of line
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}

	return inString || depth > 0
}
