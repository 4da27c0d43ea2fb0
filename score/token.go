package score

import "fmt"

// TokenType identifies lexical token categories.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenLBrace
	TokenRBrace
	TokenEqual
	TokenComma
)

// Token is a lexical token with its source line for error reporting.
type Token struct {
	Type TokenType
	Text string
	Line int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of score"
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}
