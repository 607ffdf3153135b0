package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/minnow/internal/input"
	"github.com/dekarrin/minnow/internal/lang/checker"
	"github.com/dekarrin/minnow/internal/lang/emit"
	"github.com/dekarrin/minnow/internal/lang/grammar"
)

// replSession accumulates everything typed so far: top-level class/function
// declarations, and the statements typed outside of one, which are replayed
// inside a synthetic main() on every line. There is no incremental checker
// state to persist across lines (internal/lang/checker.Checker has no
// partial-program API) -- "persistent global scope" is approximated instead
// by re-parsing and re-checking the full accumulated program on every line,
// which has the same observable effect for a REPL of this size.
type replSession struct {
	topDecls  []string
	mainStmts []string
}

func (s *replSession) source() string {
	var b strings.Builder
	for _, d := range s.topDecls {
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString("fun main() {\n")
	for _, stmt := range s.mainStmts {
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// isTopLevel reports whether chunk begins a class or function declaration,
// as opposed to an ordinary statement that belongs inside main().
func isTopLevel(chunk string) bool {
	trimmed := strings.TrimSpace(chunk)
	return strings.HasPrefix(trimmed, "class ") || strings.HasPrefix(trimmed, "class(") ||
		strings.HasPrefix(trimmed, "fun ") || strings.HasPrefix(trimmed, "fun(")
}

// runRepl starts the interactive session (§5's "additive, not a replacement
// for the batch mode §6.1 requires"): each accumulated chunk of input is
// re-compiled and re-typechecked against the whole session so far, and on
// success its emitted Python text is echoed back.
func runRepl(fe *grammar.Frontend) {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start interactive session: %s\n", err.Error())
		returnCode = ExitDiagnostic
		return
	}
	defer reader.Close()
	reader.AllowBlank(false)

	session := &replSession{}

	for {
		chunk, err := readBalancedChunk(reader)
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		if isTopLevel(chunk) {
			session.topDecls = append(session.topDecls, chunk)
		} else {
			session.mainStmts = append(session.mainStmts, chunk)
		}

		prog, err := fe.Parse(session.source())
		if err != nil {
			reportDiagnostic(err)
			rollback(session, chunk)
			continue
		}

		if err := checker.New().Check(prog); err != nil {
			reportDiagnostic(err)
			rollback(session, chunk)
			continue
		}

		fmt.Println(emit.Program(prog))
	}
}

// rollback drops the most recently accumulated chunk after a failed
// parse/check, so one bad line doesn't permanently poison the session.
func rollback(s *replSession, chunk string) {
	if isTopLevel(chunk) {
		s.topDecls = s.topDecls[:len(s.topDecls)-1]
	} else {
		s.mainStmts = s.mainStmts[:len(s.mainStmts)-1]
	}
}

// readBalancedChunk reads lines until braces/parens/brackets balance back
// to zero, so a multi-line class, function, or control-flow statement can
// be typed across several ReadCommand calls before it is compiled.
func readBalancedChunk(reader *input.InteractiveCommandReader) (string, error) {
	var b strings.Builder
	depth := 0
	reader.SetPrompt("> ")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") + strings.Count(line, "(") + strings.Count(line, "[")
		depth -= strings.Count(line, "}") + strings.Count(line, ")") + strings.Count(line, "]")
		if depth <= 0 {
			return b.String(), nil
		}
		reader.SetPrompt(". ")
	}
}
