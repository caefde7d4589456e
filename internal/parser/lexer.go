package parser

import "strings"

// Token kinds. Punctuation tokens use the character itself as the kind so
// scan code can compare against "{" or "(" directly.
const (
	tokIdent   = "IDENT"
	tokKeyword = "KEYWORD"
	tokString  = "STRING"
	tokNumber  = "NUMBER"
	tokOp      = "OP"
)

type token struct {
	Kind string
	Text string
	Line int
	Col  int
}

// tokenize splits JavaScript/TypeScript source into a flat token stream in
// a single pass. It never fails: malformed constructs are absorbed (an
// unterminated string or template runs to end of input, unknown characters
// are skipped). String-kind tokens cover quoted strings, regex literals and
// backtick templates, each as one token with quotes/delimiters included.
func tokenize(src string) []token {
	var toks []token
	n := len(src)
	i := 0
	line, col := 1, 1
	prevKind := ""

	emit := func(kind, text string, l, c int) {
		toks = append(toks, token{Kind: kind, Text: text, Line: l, Col: c})
		prevKind = kind
	}

	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
			col++

		case c == '\n':
			i++
			line++
			col = 1

		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
				col++
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			col += 2
			for i < n {
				if src[i] == '*' && i+1 < n && src[i+1] == '/' {
					i += 2
					col += 2
					break
				}
				if src[i] == '\n' {
					line++
					col = 1
				} else {
					col++
				}
				i++
			}

		case c == '/':
			// Regex literal unless the previous token can end an expression
			// (identifier, number, closing paren/bracket) or the next
			// character rules it out. A regex scan interrupted by a newline
			// backtracks and the slash becomes a division operator.
			end, isRegex := 0, false
			if canPrecedeRegex(prevKind) && i+1 < n && !blocksRegex(src[i+1]) {
				end, isRegex = scanRegex(src, i)
			}
			if isRegex {
				text := src[i:end]
				emit(tokString, text, line, col)
				line, col = advancePos(text, line, col)
				i = end
			} else {
				text := "/"
				if i+1 < n && src[i+1] == '=' {
					text = "/="
				}
				emit(tokOp, text, line, col)
				i += len(text)
				col += len(text)
			}

		case c == '"' || c == '\'':
			end := scanQuoted(src, i)
			text := src[i:end]
			emit(tokString, text, line, col)
			line, col = advancePos(text, line, col)
			i = end

		case c == '`':
			end := scanTemplate(src, i)
			text := src[i:end]
			emit(tokString, text, line, col)
			line, col = advancePos(text, line, col)
			i = end

		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentPart(src[j]) {
				j++
			}
			text := src[i:j]
			kind := tokIdent
			if isReserved(text) {
				kind = tokKeyword
			}
			emit(kind, text, line, col)
			col += j - i
			i = j

		case isDigit(c):
			j := i + 1
			for j < n && isNumberPart(src[j]) {
				j++
			}
			emit(tokNumber, src[i:j], line, col)
			col += j - i
			i = j

		case strings.IndexByte("{}[](),;:.", c) >= 0:
			emit(string(c), string(c), line, col)
			i++
			col++

		case strings.IndexByte("+-*%=!<>&|^~", c) >= 0:
			text := src[i : i+1]
			if i+1 < n && (src[i+1] == '=' || src[i+1] == '+' || src[i+1] == '-') {
				text = src[i : i+2]
			}
			emit(tokOp, text, line, col)
			i += len(text)
			col += len(text)

		default:
			i++
			col++
		}
	}
	return toks
}

// canPrecedeRegex reports whether a slash after the given token kind can
// open a regex literal. After an expression-ending token it is division.
func canPrecedeRegex(prevKind string) bool {
	switch prevKind {
	case tokIdent, tokNumber, ")", "]":
		return false
	}
	return true
}

func blocksRegex(c byte) bool {
	return c == '=' || c == ' ' || c == '\t' || c == '\n'
}

// scanRegex scans a regex literal from the opening slash, consuming trailing
// alphabetic flags. It reports false when a newline appears before the
// closing slash; end of input absorbs the rest as the literal.
func scanRegex(src string, start int) (int, bool) {
	n := len(src)
	j := start + 1
	for j < n {
		switch src[j] {
		case '\\':
			j += 2
		case '\n':
			return 0, false
		case '/':
			j++
			for j < n && isAlpha(src[j]) {
				j++
			}
			return j, true
		default:
			j++
		}
	}
	return n, true
}

// scanQuoted scans a single- or double-quoted string from the opening quote.
// Escapes stay as two-character sequences and the literal runs through
// newlines until the matching quote or end of input.
func scanQuoted(src string, start int) int {
	quote := src[start]
	n := len(src)
	j := start + 1
	for j < n {
		c := src[j]
		if c == '\\' {
			j += 2
			continue
		}
		if c == quote {
			return j + 1
		}
		j++
	}
	return n
}

// scanTemplate scans a backtick template from the opening backtick, tracking
// ${} interpolation depth so braces inside interpolations do not end the
// template. The closing backtick only counts at depth zero.
func scanTemplate(src string, start int) int {
	n := len(src)
	j := start + 1
	depth := 0
	for j < n {
		c := src[j]
		switch {
		case c == '\\':
			j += 2
		case c == '$' && j+1 < n && src[j+1] == '{':
			depth++
			j += 2
		case c == '{' && depth > 0:
			depth++
			j++
		case c == '}' && depth > 0:
			depth--
			j++
		case c == '`' && depth == 0:
			return j + 1
		default:
			j++
		}
	}
	return n
}

func advancePos(text string, line, col int) (int, int) {
	for k := 0; k < len(text); k++ {
		if text[k] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNumberPart(c byte) bool {
	return isDigit(c) || isAlpha(c) || c == '.'
}
