package shell

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Tokenize splits an input line into a lower-cased command name and its
// arguments, which keep their original case.
//
// A line that parses as one plain simple command has its words unquoted the
// way a shell would ("cat 'my file'" has one argument). Anything else, such
// as pipes, redirections, substitutions or parse errors, is split on
// whitespace and taken literally: nothing is ever expanded or executed.
func Tokenize(line string) (name string, args []string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	words, ok := parseWords(line)
	if !ok || len(words) == 0 {
		words = strings.Fields(line)
	}
	return strings.ToLower(words[0]), words[1:]
}

func parseWords(line string) ([]string, bool) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(line), "")
	if err != nil || len(prog.Stmts) != 1 {
		return nil, false
	}
	stmt := prog.Stmts[0]
	if stmt.Negated || stmt.Background || stmt.Coprocess || len(stmt.Redirs) > 0 {
		return nil, false
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 || len(call.Args) == 0 {
		return nil, false
	}
	// A trailing comment ("cd #drafts") is dropped by the parser; the
	// words must cover the whole line.
	if last := call.Args[len(call.Args)-1]; int(last.End().Offset()) != len(line) {
		return nil, false
	}

	words := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		s, ok := literalWord(w)
		if !ok {
			return nil, false
		}
		words = append(words, s)
	}
	return words, true
}

// literalWord flattens a word made only of literals and quotes.
func literalWord(w *syntax.Word) (string, bool) {
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(unescape(p.Value, ""))
		case *syntax.SglQuoted:
			if p.Dollar {
				return "", false
			}
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", false
				}
				sb.WriteString(unescape(lit.Value, "\"\\$`"))
			}
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// unescape drops backslashes. With an empty set every escaped byte is kept
// literally; otherwise only bytes in set are unescaped.
func unescape(s, set string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (set == "" || strings.IndexByte(set, s[i+1]) >= 0) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
