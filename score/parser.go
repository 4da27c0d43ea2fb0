// Package score parses the textual score language into the generic
// syntax tree consumed by the pipeline.
//
// A score is a sequence of statements:
//
//	tempo 120 4/4
//	grid beat { k _ s?60 - }
//	map beat { k = kick, s = snare, c = [3]Am7/E }
//	speed beat 1/16
//	mix beat 0.8
//	set beat lp_cutoff 2800
//	# comments run to end of line
//
// Map values that start with '[' or a capital A-G are parsed as chords
// or notes; everything else names a sample.
package score

import (
	"fmt"
	"strings"

	"github.com/mielpeeters/breaker/syntax"
)

// Parser parses score tokens into a syntax tree.
type Parser struct {
	lexer    *Lexer
	curToken Token
}

// NewParser creates a parser over the score text.
func NewParser(input []byte) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	return p
}

// Parse parses an entire score. The root node has kind "source" with
// every statement under the repeated "statements" field.
func Parse(source string) (syntax.Node, error) {
	return NewParser([]byte(source)).Parse(source)
}

func (p *Parser) nextToken() {
	p.curToken = p.lexer.NextToken()
}

// Parse consumes the token stream until EOF.
func (p *Parser) Parse(source string) (syntax.Node, error) {
	root := syntax.NewNode("source", source)

	for p.curToken.Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		root.Append("statements", stmt)
	}

	return root, nil
}

func (p *Parser) parseStatement() (syntax.Node, error) {
	if p.curToken.Type != TokenWord {
		return nil, p.errorf("expected a statement, got %s", p.curToken)
	}

	keyword := p.curToken
	p.nextToken()

	switch keyword.Text {
	case "grid":
		return p.parseGrid()
	case "map":
		return p.parseMap()
	case "tempo":
		return p.parseTempo()
	case "speed":
		return p.parseSpeed()
	case "mix":
		return p.parseMix()
	case "set":
		return p.parseSetter()
	default:
		return nil, fmt.Errorf("line %d: unknown statement %q", keyword.Line, keyword.Text)
	}
}

// parseGrid parses: grid <name> { token... }
func (p *Parser) parseGrid() (syntax.Node, error) {
	name, err := p.expectWord("grid name")
	if err != nil {
		return nil, err
	}

	node := syntax.NewNode("grid", name)
	node.Append("name", syntax.NewNode("name", name))

	if err := p.expect(TokenLBrace, "{"); err != nil {
		return nil, err
	}
	for p.curToken.Type == TokenWord {
		node.Append("tokens", syntax.NewNode("token", p.curToken.Text))
		p.nextToken()
	}
	if err := p.expect(TokenRBrace, "}"); err != nil {
		return nil, err
	}

	return node, nil
}

// parseMap parses: map <name> { key = value, ... }
func (p *Parser) parseMap() (syntax.Node, error) {
	name, err := p.expectWord("map target name")
	if err != nil {
		return nil, err
	}

	node := syntax.NewNode("map", name)
	node.Append("name", syntax.NewNode("name", name))

	if err := p.expect(TokenLBrace, "{"); err != nil {
		return nil, err
	}
	for p.curToken.Type == TokenWord {
		key := p.curToken.Text
		p.nextToken()
		if err := p.expect(TokenEqual, "="); err != nil {
			return nil, err
		}
		value, err := p.expectWord("mapping value")
		if err != nil {
			return nil, err
		}

		pair := syntax.NewNode("pair", key+"="+value)
		pair.Append("key", syntax.NewNode("name", key))
		pair.Append("value", classifyValue(value))
		node.Append("pairs", pair)

		if p.curToken.Type == TokenComma {
			p.nextToken()
		}
	}
	if err := p.expect(TokenRBrace, "}"); err != nil {
		return nil, err
	}

	return node, nil
}

// parseTempo parses: tempo <bpm> <count>/<note>
func (p *Parser) parseTempo() (syntax.Node, error) {
	bpm, err := p.expectWord("tempo bpm")
	if err != nil {
		return nil, err
	}
	sig, err := p.expectWord("time signature")
	if err != nil {
		return nil, err
	}
	count, unit, ok := strings.Cut(sig, "/")
	if !ok {
		return nil, fmt.Errorf("line %d: time signature must be count/note, got %q", p.curToken.Line, sig)
	}

	node := syntax.NewNode("tempo", bpm+" "+sig)
	node.Append("bpm", syntax.NewNode("number", bpm))
	node.Append("count", syntax.NewNode("number", count))
	node.Append("note", syntax.NewNode("number", unit))
	return node, nil
}

// parseSpeed parses: speed <name> <numer>/<denom>
func (p *Parser) parseSpeed() (syntax.Node, error) {
	name, err := p.expectWord("speed target name")
	if err != nil {
		return nil, err
	}
	frac, err := p.expectWord("note length fraction")
	if err != nil {
		return nil, err
	}
	numer, denom, ok := strings.Cut(frac, "/")
	if !ok {
		return nil, fmt.Errorf("line %d: note length must be numer/denom, got %q", p.curToken.Line, frac)
	}

	node := syntax.NewNode("speed", name+" "+frac)
	node.Append("name", syntax.NewNode("name", name))
	node.Append("numer", syntax.NewNode("number", numer))
	node.Append("denom", syntax.NewNode("number", denom))
	return node, nil
}

// parseMix parses: mix <name> <weight>
func (p *Parser) parseMix() (syntax.Node, error) {
	name, err := p.expectWord("mix target name")
	if err != nil {
		return nil, err
	}
	value, err := p.expectWord("mix weight")
	if err != nil {
		return nil, err
	}

	node := syntax.NewNode("mix", name+" "+value)
	node.Append("name", syntax.NewNode("name", name))
	node.Append("value", syntax.NewNode("number", value))
	return node, nil
}

// parseSetter parses: set <name> <prop> <value>
func (p *Parser) parseSetter() (syntax.Node, error) {
	name, err := p.expectWord("setter target name")
	if err != nil {
		return nil, err
	}
	prop, err := p.expectWord("property name")
	if err != nil {
		return nil, err
	}
	value, err := p.expectWord("property value")
	if err != nil {
		return nil, err
	}

	node := syntax.NewNode("setter", name+" "+prop+" "+value)
	node.Append("name", syntax.NewNode("name", name))
	node.Append("prop", syntax.NewNode("name", prop))
	node.Append("value", syntax.NewNode("number", value))
	return node, nil
}

func (p *Parser) expect(tt TokenType, what string) error {
	if p.curToken.Type != tt {
		return p.errorf("expected %q, got %s", what, p.curToken)
	}
	p.nextToken()
	return nil
}

func (p *Parser) expectWord(what string) (string, error) {
	if p.curToken.Type != TokenWord {
		return "", p.errorf("expected %s, got %s", what, p.curToken)
	}
	text := p.curToken.Text
	p.nextToken()
	return text, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.curToken.Line, fmt.Sprintf(format, args...))
}
