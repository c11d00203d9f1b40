package rdf

import (
	"fmt"
	"strings"
)

// ParseTurtleSubset parses a deliberately small, unprefixed-collections
// subset of Turtle: `@prefix` directives, full `<uri>` terms, `prefix:local`
// terms, double-quoted string literals, and `;`/`,` predicate-object and
// object lists terminated by `.`. Blank nodes and RDF collections are not
// supported. This exists to exercise the topology extractor against
// fixtures; a production deployment swaps in a real triple store.
func ParseTurtleSubset(text string) (*MemStore, error) {
	store := NewMemStore()
	prefixes := map[string]string{}

	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok == "@prefix" {
			if i+3 >= len(toks) {
				return nil, fmt.Errorf("rdf: truncated @prefix directive")
			}
			name := strings.TrimSuffix(toks[i+1], ":")
			uri, err := resolveTerm(toks[i+2], prefixes)
			if err != nil {
				return nil, err
			}
			prefixes[name] = uri
			// expect trailing '.'
			i += 4
			continue
		}

		// statement: subject predicate object (; predicate object)* (, object)* .
		if i >= len(toks) {
			break
		}
		subject, err := resolveTerm(toks[i], prefixes)
		if err != nil {
			return nil, err
		}
		i++

		for {
			if i >= len(toks) {
				return nil, fmt.Errorf("rdf: statement for %q missing predicate", subject)
			}
			predTok := toks[i]
			if predTok == "a" {
				predTok = "rdf:type"
			}
			pred, err := resolveTerm(predTok, prefixes)
			if err != nil {
				return nil, err
			}
			i++

			for {
				if i >= len(toks) {
					return nil, fmt.Errorf("rdf: statement for %q %q missing object", subject, pred)
				}
				objTok := toks[i]
				i++
				obj, isLit, err := resolveObject(objTok, prefixes)
				if err != nil {
					return nil, err
				}
				store.Add(Triple{Subject: subject, Predicate: pred, Object: obj, IsLiteral: isLit})

				if i < len(toks) && toks[i] == "," {
					i++
					continue
				}
				break
			}

			if i < len(toks) && toks[i] == ";" {
				i++
				continue
			}
			break
		}

		if i < len(toks) && toks[i] == "." {
			i++
		}
	}

	return store, nil
}

// tokenize splits Turtle text into terms and punctuation, respecting quoted
// string literals and stripping '#' line comments outside of quotes.
func tokenize(text string) ([]string, error) {
	var toks []string
	var buf strings.Builder
	inQuote := false
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, buf.String())
			buf.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuote {
			buf.WriteRune(c)
			if c == '"' {
				inQuote = false
				flush()
			}
			continue
		}
		switch {
		case c == '"':
			flush()
			inQuote = true
			buf.WriteRune(c)
		case c == '#':
			flush()
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case c == '<':
			flush()
			buf.WriteRune(c)
			for i++; i < len(runes) && runes[i] != '>'; i++ {
				buf.WriteRune(runes[i])
			}
			buf.WriteRune('>')
			flush()
		case c == ';' || c == ',' || c == '.':
			flush()
			toks = append(toks, string(c))
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			buf.WriteRune(c)
		}
	}
	flush()
	if inQuote {
		return nil, fmt.Errorf("rdf: unterminated string literal")
	}
	return toks, nil
}

// resolveTerm resolves a URI-shaped token (<...> or prefix:local).
func resolveTerm(tok string, prefixes map[string]string) (string, error) {
	if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") {
		return tok[1 : len(tok)-1], nil
	}
	if idx := strings.Index(tok, ":"); idx >= 0 {
		prefix, local := tok[:idx], tok[idx+1:]
		base, ok := prefixes[prefix]
		if !ok {
			return "", fmt.Errorf("rdf: unknown prefix %q", prefix)
		}
		return base + local, nil
	}
	return "", fmt.Errorf("rdf: unresolvable term %q", tok)
}

// resolveObject resolves a term that may also be a quoted literal.
func resolveObject(tok string, prefixes map[string]string) (value string, isLiteral bool, err error) {
	if strings.HasPrefix(tok, `"`) {
		unquoted := strings.Trim(tok, `"`)
		// The quoted body is the literal value. A trailing ^^datatype or
		// @lang marker is not supported: tokenize leaves it as a separate
		// token, which then fails to resolve as a term.
		return unquoted, true, nil
	}
	v, err := resolveTerm(tok, prefixes)
	return v, false, err
}
