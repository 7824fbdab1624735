package algebra

// TokenType identifies lexical tokens of the query algebra.
type TokenType int

const (
	EOF TokenType = iota
	Illegal
	Ident
	Number
	String
	Comma
	Dot
	LParen
	RParen
	LBracket
	RBracket
	Assign // single = , only legal in keyword arguments
	Eq
	NotEq
	Less
	LessEq
	Greater
	GreaterEq
	Plus
	Minus
	Star
	Slash
	Amp
	Pipe
	Tilde
)

// Token is one lexical item.
type Token struct {
	Type    TokenType
	Literal string
}

var tokenNames = map[TokenType]string{
	EOF:       "end of expression",
	Illegal:   "illegal token",
	Ident:     "identifier",
	Number:    "number",
	String:    "string",
	Comma:     ",",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	Assign:    "=",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Amp:       "&",
	Pipe:      "|",
	Tilde:     "~",
}

func (t TokenType) String() string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return "unknown token"
}
