package algebra

// Expr is one node of a parsed algebra expression.
type Expr interface {
	expr()
}

// IdentExpr names a binding — the table, the namespace, or a bare
// constructor. Resolution happens at evaluation, not parse.
type IdentExpr struct {
	Name string
}

func (*IdentExpr) expr() {}

// NumberLit keeps the literal text so evaluation can build an exact
// decimal from it.
type NumberLit struct {
	Literal string
}

func (*NumberLit) expr() {}

// StringLit is a quoted literal, escapes already processed.
type StringLit struct {
	Value string
}

func (*StringLit) expr() {}

// BoolLit is true/false in any casing.
type BoolLit struct {
	Value bool
}

func (*BoolLit) expr() {}

// NullLit is null/none in any casing.
type NullLit struct{}

func (*NullLit) expr() {}

// ListLit is a bracketed element list, as in select(['name', 'price']).
type ListLit struct {
	Elems []Expr
}

func (*ListLit) expr() {}

// UnaryOp enumerates prefix operators.
type UnaryOp string

const (
	UnaryNot UnaryOp = "~"
	UnaryNeg UnaryOp = "-"
)

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func (*UnaryExpr) expr() {}

// CompareOp enumerates comparison operators.
type CompareOp string

const (
	CompareEq        CompareOp = "=="
	CompareNotEq     CompareOp = "!="
	CompareLess      CompareOp = "<"
	CompareLessEq    CompareOp = "<="
	CompareGreater   CompareOp = ">"
	CompareGreaterEq CompareOp = ">="
)

// CompareExpr compares two operands.
type CompareExpr struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (*CompareExpr) expr() {}

// LogicOp enumerates the predicate combinators.
type LogicOp string

const (
	LogicAnd LogicOp = "&"
	LogicOr  LogicOp = "|"
)

// LogicExpr combines two predicates.
type LogicExpr struct {
	Op    LogicOp
	Left  Expr
	Right Expr
}

func (*LogicExpr) expr() {}

// ArithOp enumerates arithmetic operators.
type ArithOp string

const (
	ArithAdd ArithOp = "+"
	ArithSub ArithOp = "-"
	ArithMul ArithOp = "*"
	ArithDiv ArithOp = "/"
)

// ArithExpr applies arithmetic to two operands.
type ArithExpr struct {
	Op    ArithOp
	Left  Expr
	Right Expr
}

func (*ArithExpr) expr() {}

// AttrExpr is dotted access without a call, like the .str namespace hop.
type AttrExpr struct {
	Recv Expr
	Name string
}

func (*AttrExpr) expr() {}

// Kwarg is one name=value argument.
type Kwarg struct {
	Name  string
	Value Expr
}

// CallExpr is a method call (Recv set) or a bare constructor call
// (Recv nil, as in col('price')).
type CallExpr struct {
	Recv   Expr
	Name   string
	Args   []Expr
	Kwargs []Kwarg
}

func (*CallExpr) expr() {}

// IndexExpr is bracket access: a column by name, a column list, or a
// boolean mask.
type IndexExpr struct {
	Recv  Expr
	Index Expr
}

func (*IndexExpr) expr() {}
