package dub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Node is a command argument.
type Node interface {
	// Value returns the argument as an int, float64 or string.
	Value() interface{}
}

func (n Identifier) Value() interface{} { return string(n) }
func (n Int) Value() interface{}        { return int(n) }
func (n Float) Value() interface{}      { return float64(n) }
func (n String) Value() interface{}     { return string(n) }

type Command struct {
	Name Identifier
	Args []Node
}

func (c Command) String() string {
	parts := []string{string(c.Name)}
	for _, arg := range c.Args {
		switch a := arg.(type) {
		case String:
			parts = append(parts, strconv.Quote(string(a)))
		default:
			parts = append(parts, fmt.Sprint(a.Value()))
		}
	}
	return strings.Join(parts, " ")
}

type Identifier string
type Int int
type Float float64
type String string

// Parse parses a single command.
func Parse(input string) (Command, error) {
	cmds, err := ParseLine(input)
	if err != nil {
		return Command{}, err
	}
	switch len(cmds) {
	case 0:
		return Command{}, errors.New("empty command")
	case 1:
		return cmds[0], nil
	default:
		return Command{}, errors.Errorf("expected one command, got %d", len(cmds))
	}
}

// ParseLine parses a line of commands separated by ';'. Blank lines and
// comments yield no commands.
func ParseLine(input string) ([]Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) peek() token {
	t := p.next()
	p.pos--
	return t
}

func (p *parser) parse() ([]Command, error) {
	var cmds []Command
	for {
		switch p.peek().typ {
		case typeEOF:
			return cmds, nil
		case typeSemicolon:
			p.next()
			continue
		}
		cmd, err := p.command()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
}

func (p *parser) command() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.peek(); token.typ != typeEOF && token.typ != typeSemicolon; token = p.peek() {
		p.next()
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			arg = String(token.text[1 : len(token.text)-1])
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, errors.Wrapf(err, "position %d", token.pos)
			}
			arg = Float(f)
		case typeInt:
			n, err := strconv.Atoi(token.text)
			if err != nil {
				return cmd, errors.Wrapf(err, "position %d", token.pos)
			}
			arg = Int(n)
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func unexpected(t token) error {
	return errors.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
