package score

// Lexer splits score text into words and block punctuation. Words are
// maximal runs of non-space, non-delimiter characters: names, numbers,
// fractions like "4/4", grid tokens like "s?60", and chord text like
// "[3]Am7/E" all arrive as single words for the parser to interpret.
type Lexer struct {
	input []byte
	pos   int
	line  int
}

// NewLexer creates a lexer over the score text.
func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// NextToken returns the next token in the stream.
func (l *Lexer) NextToken() Token {
	l.skipSpaceAndComments()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Line: l.line}
	}

	switch ch := l.input[l.pos]; ch {
	case '{':
		l.pos++
		return Token{Type: TokenLBrace, Text: "{", Line: l.line}
	case '}':
		l.pos++
		return Token{Type: TokenRBrace, Text: "}", Line: l.line}
	case '=':
		l.pos++
		return Token{Type: TokenEqual, Text: "=", Line: l.line}
	case ',':
		l.pos++
		return Token{Type: TokenComma, Text: ",", Line: l.line}
	}

	return l.readWord()
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == '\n':
			l.line++
			l.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '{', '}', '=', ',', '#':
		return true
	}
	return false
}

func (l *Lexer) readWord() Token {
	start := l.pos
	for l.pos < len(l.input) && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenWord, Text: string(l.input[start:l.pos]), Line: l.line}
}
