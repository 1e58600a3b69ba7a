package interp

import (
	"math"
	"strings"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

func (it *Interpreter) evalBinary(n *ast.Binary, fr *frame) any {
	switch n.Operator {
	case token.INSTANCEOF:
		left := it.evalExpr(n.Left, fr)
		right := it.evalExpr(n.Right, fr)
		return instanceOf(left, right)
	case token.IN:
		left := it.evalExpr(n.Left, fr)
		right := it.evalExpr(n.Right, fr)
		return hasProperty(right, Inspect(left))
	}
	left := it.evalExpr(n.Left, fr)
	right := it.evalExpr(n.Right, fr)
	return applyBinaryOp(n.Operator, left, right)
}

func (it *Interpreter) evalUnary(n *ast.Unary, fr *frame) any {
	if n.Operator == token.TYPEOF {
		if id, ok := n.Operand.(*ast.Ident); ok {
			if _, found := fr.env.Get(id.Name); !found {
				return "undefined"
			}
		}
		return typeOf(it.evalExpr(n.Operand, fr))
	}
	v := it.evalExpr(n.Operand, fr)
	switch n.Operator {
	case token.MINUS:
		return -toNumber(v)
	case token.PLUS:
		return toNumber(v)
	case token.LOGICAL_NOT:
		return !Truthy(v)
	case token.TILDE:
		return float64(^toInt32(v))
	default:
		return UndefinedValue
	}
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "object"
	case Undefined:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Function, *NativeFunction:
		return "function"
	default:
		return "object"
	}
}

func instanceOf(left, right any) bool {
	inst, ok := left.(*Instance)
	if !ok {
		return false
	}
	cls, ok := right.(*Class)
	if !ok {
		return false
	}
	for c := inst.Class; c != nil; c = c.Super {
		if c == cls {
			return true
		}
	}
	return false
}

func hasProperty(obj any, key string) bool {
	switch x := obj.(type) {
	case *Object:
		_, ok := x.Get(key)
		return ok
	case *Instance:
		if _, ok := x.Get(key); ok {
			return true
		}
		_, owner := x.Class.findMethod(key)
		return owner != nil
	case *Array:
		if key == "length" {
			return true
		}
	}
	return false
}

func toInt32(v any) int32 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func applyBinaryOp(op token.Kind, left, right any) any {
	switch op {
	case token.PLUS, token.PLUS_ASSIGN:
		ls, lIsStr := left.(string)
		rs, rIsStr := right.(string)
		if lIsStr || rIsStr {
			if !lIsStr {
				ls = Inspect(left)
			}
			if !rIsStr {
				rs = Inspect(right)
			}
			return ls + rs
		}
		return toNumber(left) + toNumber(right)
	case token.MINUS, token.MINUS_ASSIGN:
		return toNumber(left) - toNumber(right)
	case token.STAR, token.STAR_ASSIGN:
		return toNumber(left) * toNumber(right)
	case token.STARSTAR, token.STARSTAR_ASSIGN:
		return math.Pow(toNumber(left), toNumber(right))
	case token.SLASH, token.SLASH_ASSIGN:
		return toNumber(left) / toNumber(right)
	case token.PERCENT, token.PERCENT_ASSIGN:
		return math.Mod(toNumber(left), toNumber(right))
	case token.AMP, token.AND_ASSIGN:
		return float64(toInt32(left) & toInt32(right))
	case token.PIPE, token.OR_ASSIGN:
		return float64(toInt32(left) | toInt32(right))
	case token.CARET, token.XOR_ASSIGN:
		return float64(toInt32(left) ^ toInt32(right))
	case token.SHL, token.SHL_ASSIGN:
		return float64(toInt32(left) << (uint32(toInt32(right)) & 31))
	case token.SHR, token.SHR_ASSIGN:
		return float64(toInt32(left) >> (uint32(toInt32(right)) & 31))
	case token.USHR, token.USHR_ASSIGN:
		return float64(uint32(toInt32(left)) >> (uint32(toInt32(right)) & 31))
	case token.EQ:
		return looseEquals(left, right)
	case token.NEQ:
		return !looseEquals(left, right)
	case token.EQ_STRICT:
		return strictEquals(left, right)
	case token.NEQ_STRICT:
		return !strictEquals(left, right)
	case token.LT:
		return compare(left, right) < 0
	case token.GT:
		return compare(left, right) > 0
	case token.LE:
		return compare(left, right) <= 0
	case token.GE:
		return compare(left, right) >= 0
	default:
		return UndefinedValue
	}
}

func compare(left, right any) int {
	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.Compare(ls, rs)
	}
	a, b := toNumber(left), toNumber(right)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func strictEquals(left, right any) bool {
	if isNullish(left) && isNullish(right) {
		return sameNullish(left, right)
	}
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	default:
		return left == right
	}
}

func sameNullish(left, right any) bool {
	_, lu := left.(Undefined)
	_, ru := right.(Undefined)
	if lu || ru {
		return lu == ru
	}
	return left == nil && right == nil
}

// looseEquals implements JavaScript's `==` for the coercions this
// interpreter's value set can actually produce: null/undefined are mutually
// loosely equal to each other and nothing else, and a string/number pair
// coerces the string to a number before comparing.
func looseEquals(left, right any) bool {
	if isNullish(left) || isNullish(right) {
		return isNullish(left) && isNullish(right)
	}
	if strictEquals(left, right) {
		return true
	}
	_, lNum := left.(float64)
	_, rNum := right.(float64)
	_, lStr := left.(string)
	_, rStr := right.(string)
	if (lNum && rStr) || (lStr && rNum) {
		return toNumber(left) == toNumber(right)
	}
	return false
}
