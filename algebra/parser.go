package algebra

import (
	"fmt"
	"strings"
)

// ============================================================================
// PARSER — recursive descent with precedence climbing
// ============================================================================
// Grammar, loosest to tightest:
//
//	or      :=  and  { "|" and }
//	and     :=  cmp  { "&" cmp }
//	cmp     :=  add  { ("=="|"!="|"<"|"<="|">"|">=") add }
//	add     :=  mul  { ("+"|"-") mul }
//	mul     :=  unary { ("*"|"/") unary }
//	unary   :=  ("~"|"-") unary | postfix
//	postfix :=  primary { "." ident [ "(" args ")" ] | "[" or "]" }
//	primary :=  ident | number | string | true | false | null
//	         |  "(" or ")" | "[" or { "," or } "]"
//	args    :=  [ arg { "," arg } ] ; arg := [ ident "=" ] or
//
// One expression, nothing else: Parse fails on leftovers, so statement
// sequences and prose never reach evaluation.
// ============================================================================

const (
	precOr = iota + 1
	precAnd
	precCompare
	precAdd
	precMul
	precUnary
)

// Parse parses exactly one algebra expression.
func Parse(input string) (Expr, error) {
	p := &parser{lex: NewLexer(input)}
	p.next()
	p.next()

	if p.cur.Type == EOF {
		return nil, fmt.Errorf("parse: empty expression")
	}
	e, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != EOF {
		return nil, fmt.Errorf("parse: unexpected %s after expression", p.found())
	}
	return e, nil
}

type parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

func (p *parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

// found describes the current token for error messages.
func (p *parser) found() string {
	switch p.cur.Type {
	case EOF:
		return p.cur.Type.String()
	case Ident, Number, String:
		return fmt.Sprintf("%s %q", p.cur.Type, p.cur.Literal)
	default:
		return fmt.Sprintf("%q", p.cur.Literal)
	}
}

func (p *parser) parseExpression(min int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := infixPrecedence(p.cur.Type)
		if prec == 0 || prec <= min {
			return left, nil
		}
		op := p.cur
		p.next()
		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = combine(op.Type, left, right)
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.cur.Type {
	case Tilde:
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnaryNot, Expr: inner}, nil
	case Minus:
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnaryNeg, Expr: inner}, nil
	default:
		prim, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(prim)
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.cur.Type {
	case Ident:
		lit := p.cur.Literal
		p.next()
		switch strings.ToLower(lit) {
		case "true":
			return &BoolLit{Value: true}, nil
		case "false":
			return &BoolLit{Value: false}, nil
		case "null", "none":
			return &NullLit{}, nil
		}
		return &IdentExpr{Name: lit}, nil
	case Number:
		lit := p.cur.Literal
		p.next()
		return &NumberLit{Literal: lit}, nil
	case String:
		lit := p.cur.Literal
		p.next()
		return &StringLit{Value: lit}, nil
	case LParen:
		p.next()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != RParen {
			return nil, fmt.Errorf("parse: expected ) to close expression, found %s", p.found())
		}
		p.next()
		return inner, nil
	case LBracket:
		return p.parseList()
	case Illegal:
		return nil, fmt.Errorf("parse: illegal token %q", p.cur.Literal)
	case EOF:
		return nil, fmt.Errorf("parse: unexpected end of expression")
	default:
		return nil, fmt.Errorf("parse: unexpected %s", p.found())
	}
}

func (p *parser) parseList() (Expr, error) {
	p.next() // consume [
	list := &ListLit{}
	if p.cur.Type == RBracket {
		p.next()
		return list, nil
	}
	for {
		elem, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)
		switch p.cur.Type {
		case Comma:
			p.next()
		case RBracket:
			p.next()
			return list, nil
		default:
			return nil, fmt.Errorf("parse: expected , or ] in list, found %s", p.found())
		}
	}
}

func (p *parser) parsePostfix(left Expr) (Expr, error) {
	for {
		switch p.cur.Type {
		case Dot:
			p.next()
			if p.cur.Type != Ident {
				return nil, fmt.Errorf("parse: expected name after '.', found %s", p.found())
			}
			name := p.cur.Literal
			p.next()
			if p.cur.Type != LParen {
				left = &AttrExpr{Recv: left, Name: name}
				continue
			}
			args, kwargs, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			left = &CallExpr{Recv: left, Name: name, Args: args, Kwargs: kwargs}
		case LBracket:
			p.next()
			idx, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if p.cur.Type != RBracket {
				return nil, fmt.Errorf("parse: expected ] to close index, found %s", p.found())
			}
			p.next()
			left = &IndexExpr{Recv: left, Index: idx}
		case LParen:
			// bare constructor call: col('price'), lit(5)
			ident, ok := left.(*IdentExpr)
			if !ok {
				return nil, fmt.Errorf("parse: expression is not callable")
			}
			args, kwargs, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			left = &CallExpr{Name: ident.Name, Args: args, Kwargs: kwargs}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseArgs() ([]Expr, []Kwarg, error) {
	p.next() // consume (
	var args []Expr
	var kwargs []Kwarg
	if p.cur.Type == RParen {
		p.next()
		return args, kwargs, nil
	}
	for {
		if p.cur.Type == Ident && p.peek.Type == Assign {
			name := p.cur.Literal
			p.next()
			p.next()
			val, err := p.parseExpression(0)
			if err != nil {
				return nil, nil, err
			}
			kwargs = append(kwargs, Kwarg{Name: name, Value: val})
		} else {
			if len(kwargs) > 0 {
				return nil, nil, fmt.Errorf("parse: positional argument after keyword argument")
			}
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, nil, err
			}
			args = append(args, arg)
		}
		switch p.cur.Type {
		case Comma:
			p.next()
		case RParen:
			p.next()
			return args, kwargs, nil
		default:
			return nil, nil, fmt.Errorf("parse: expected , or ) in arguments, found %s", p.found())
		}
	}
}

func infixPrecedence(t TokenType) int {
	switch t {
	case Pipe:
		return precOr
	case Amp:
		return precAnd
	case Eq, NotEq, Less, LessEq, Greater, GreaterEq:
		return precCompare
	case Plus, Minus:
		return precAdd
	case Star, Slash:
		return precMul
	default:
		return 0
	}
}

func combine(t TokenType, left, right Expr) Expr {
	switch t {
	case Pipe:
		return &LogicExpr{Op: LogicOr, Left: left, Right: right}
	case Amp:
		return &LogicExpr{Op: LogicAnd, Left: left, Right: right}
	case Eq:
		return &CompareExpr{Op: CompareEq, Left: left, Right: right}
	case NotEq:
		return &CompareExpr{Op: CompareNotEq, Left: left, Right: right}
	case Less:
		return &CompareExpr{Op: CompareLess, Left: left, Right: right}
	case LessEq:
		return &CompareExpr{Op: CompareLessEq, Left: left, Right: right}
	case Greater:
		return &CompareExpr{Op: CompareGreater, Left: left, Right: right}
	case GreaterEq:
		return &CompareExpr{Op: CompareGreaterEq, Left: left, Right: right}
	case Plus:
		return &ArithExpr{Op: ArithAdd, Left: left, Right: right}
	case Minus:
		return &ArithExpr{Op: ArithSub, Left: left, Right: right}
	case Star:
		return &ArithExpr{Op: ArithMul, Left: left, Right: right}
	default:
		return &ArithExpr{Op: ArithDiv, Left: left, Right: right}
	}
}
