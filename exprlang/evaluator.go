package exprlang

import (
	"fmt"
)

// Env resolves free identifiers against whatever scope produced the
// compiled parameter list (spec §4.3): bound `$values`, handle aliases
// (as Getter/Setter-capable values, see below), and imports.
type Env interface {
	Resolve(name string) (any, bool)
}

// Func is the shape a resolved import must have to be callable.
type Func func(args ...any) (any, error)

// Getter is implemented by handle-backed values (handle.View) to route
// member access through the reactive store instead of a plain map. The
// evaluator never imports package handle directly — this keeps the
// expression engine reusable against any host object model.
type Getter interface{ Get(name string) any }

// Indexer is Getter's counterpart for `target[key]`.
type Indexer interface{ Index(key any) any }

// Setter is implemented by mutable targets of `target.name = value`.
type Setter interface {
	Set(name string, value any) error
}

// IndexSetter is Setter's counterpart for `target[key] = value`.
type IndexSetter interface {
	SetIndex(key any, value any) error
}

// SelfWriter handles a bare `alias = value` assignment, where alias
// itself (not one of its members) is the target.
type SelfWriter interface {
	WriteSelf(value any) error
}

// Evaluator walks a parsed Node tree against an Env.
type Evaluator struct {
	env Env
}

// New builds an Evaluator bound to env.
func New(env Env) *Evaluator {
	return &Evaluator{env: env}
}

// Eval computes the value of n.
func (e *Evaluator) Eval(n Node) (any, error) {
	switch t := n.(type) {
	case LiteralNode:
		return t.Value, nil
	case IdentifierNode:
		return e.evalIdentifier(t)
	case MemberNode:
		return e.evalMember(t)
	case IndexNode:
		return e.evalIndex(t)
	case UnaryNode:
		return e.evalUnary(t)
	case BinaryNode:
		return e.evalBinary(t)
	case TernaryNode:
		return e.evalTernary(t)
	case CallNode:
		return e.evalCall(t)
	case ObjectNode:
		return e.evalObject(t)
	case ArrayNode:
		return e.evalArray(t)
	case AssignNode:
		return e.evalAssign(t)
	default:
		return nil, fmt.Errorf("exprlang: unhandled node type %T", n)
	}
}

// EvalBool computes n's truthiness (spec §4.5's condition evaluation).
func (e *Evaluator) EvalBool(n Node) (bool, error) {
	v, err := e.Eval(n)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// Truthy is the language's truthiness rule: nil/false/""/0 are falsy,
// everything else — including empty slices and maps — is truthy, matching
// how host handles surface "present but empty" state (spec §4.5's `each`
// over an empty collection still renders zero rows, it does not treat the
// collection itself as falsy for a sibling `test`).
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

func (e *Evaluator) evalIdentifier(n IdentifierNode) (any, error) {
	v, ok := e.env.Resolve(n.Name)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (e *Evaluator) evalMember(n MemberNode) (any, error) {
	target, err := e.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	return memberOf(target, n.Name), nil
}

func memberOf(target any, name string) any {
	switch t := target.(type) {
	case nil:
		return nil
	case Getter:
		return t.Get(name)
	case map[string]any:
		return t[name]
	default:
		return nil
	}
}

func (e *Evaluator) evalIndex(n IndexNode) (any, error) {
	target, err := e.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	key, err := e.Eval(n.Key)
	if err != nil {
		return nil, err
	}
	return indexOf(target, key), nil
}

func indexOf(target any, key any) any {
	switch t := target.(type) {
	case nil:
		return nil
	case Indexer:
		return t.Index(key)
	case []any:
		i, ok := asInt(key)
		if !ok || i < 0 || i >= len(t) {
			return nil
		}
		return t[i]
	case map[string]any:
		return t[fmt.Sprint(key)]
	default:
		return nil
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalUnary(n UnaryNode) (any, error) {
	v, err := e.Eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case TokNot:
		return !Truthy(v), nil
	case TokMinus:
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("exprlang: unary '-' on non-numeric value %v", v)
		}
		return -f, nil
	default:
		return nil, fmt.Errorf("exprlang: unsupported unary operator %s", n.Op)
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalBinary(n BinaryNode) (any, error) {
	if n.Op == TokAnd {
		l, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if !Truthy(l) {
			return false, nil
		}
		r, err := e.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return Truthy(r), nil
	}
	if n.Op == TokOr {
		l, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if Truthy(l) {
			return true, nil
		}
		r, err := e.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return Truthy(r), nil
	}

	l, err := e.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.Eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case TokEq:
		return equalValues(l, r), nil
	case TokNeq:
		return !equalValues(l, r), nil
	case TokPlus:
		if ls, ok := l.(string); ok {
			return ls + toDisplayString(r), nil
		}
		if rs, ok := r.(string); ok {
			return toDisplayString(l) + rs, nil
		}
		lf, lok := asFloat(l)
		rf, rok := asFloat(r)
		if !lok || !rok {
			return nil, fmt.Errorf("exprlang: '+' requires numbers or a string operand")
		}
		return lf + rf, nil
	case TokMinus, TokStar, TokSlash, TokPct:
		lf, lok := asFloat(l)
		rf, rok := asFloat(r)
		if !lok || !rok {
			return nil, fmt.Errorf("exprlang: arithmetic operator %s requires numeric operands", n.Op)
		}
		switch n.Op {
		case TokMinus:
			return lf - rf, nil
		case TokStar:
			return lf * rf, nil
		case TokSlash:
			if rf == 0 {
				return nil, fmt.Errorf("exprlang: division by zero")
			}
			return lf / rf, nil
		case TokPct:
			if rf == 0 {
				return nil, fmt.Errorf("exprlang: modulo by zero")
			}
			return float64(int64(lf) % int64(rf)), nil
		}
	case TokLt, TokGt, TokLte, TokGte:
		return compareOrdered(n.Op, l, r)
	}
	return nil, fmt.Errorf("exprlang: unsupported binary operator %s", n.Op)
}

func compareOrdered(op TokenType, l, r any) (any, error) {
	if lf, lok := asFloat(l); lok {
		if rf, rok := asFloat(r); rok {
			switch op {
			case TokLt:
				return lf < rf, nil
			case TokGt:
				return lf > rf, nil
			case TokLte:
				return lf <= rf, nil
			case TokGte:
				return lf >= rf, nil
			}
		}
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			switch op {
			case TokLt:
				return ls < rs, nil
			case TokGt:
				return ls > rs, nil
			case TokLte:
				return ls <= rs, nil
			case TokGte:
				return ls >= rs, nil
			}
		}
	}
	return nil, fmt.Errorf("exprlang: comparison operator %s requires two numbers or two strings", op)
}

func equalValues(l, r any) bool {
	if lf, lok := asFloat(l); lok {
		if rf, rok := asFloat(r); rok {
			return lf == rf
		}
	}
	return fmt.Sprint(l) == fmt.Sprint(r) && sameKind(l, r)
}

func sameKind(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	return fmt.Sprintf("%T", l) == fmt.Sprintf("%T", r)
}

func toDisplayString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (e *Evaluator) evalTernary(n TernaryNode) (any, error) {
	c, err := e.Eval(n.Cond)
	if err != nil {
		return nil, err
	}
	if Truthy(c) {
		return e.Eval(n.Then)
	}
	return e.Eval(n.Else)
}

func (e *Evaluator) evalCall(n CallNode) (any, error) {
	callee, err := e.Eval(n.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Func)
	if !ok {
		return nil, fmt.Errorf("exprlang: value is not callable")
	}
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args...)
}

func (e *Evaluator) evalObject(n ObjectNode) (any, error) {
	out := make(map[string]any, len(n.Keys))
	for i, k := range n.Keys {
		v, err := e.Eval(n.Values[i])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (e *Evaluator) evalArray(n ArrayNode) (any, error) {
	out := make([]any, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.Eval(el)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalAssign(n AssignNode) (any, error) {
	value, err := e.Eval(n.Value)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case IdentifierNode:
		v, ok := e.env.Resolve(target.Name)
		if !ok {
			return nil, fmt.Errorf("exprlang: cannot assign to undeclared identifier %q", target.Name)
		}
		sw, ok := v.(SelfWriter)
		if !ok {
			return nil, fmt.Errorf("exprlang: %q is not assignable", target.Name)
		}
		if err := sw.WriteSelf(value); err != nil {
			return nil, err
		}
		return value, nil
	case MemberNode:
		obj, err := e.Eval(target.Target)
		if err != nil {
			return nil, err
		}
		if s, ok := obj.(Setter); ok {
			if err := s.Set(target.Name, value); err != nil {
				return nil, err
			}
			return value, nil
		}
		if m, ok := obj.(map[string]any); ok {
			m[target.Name] = value
			return value, nil
		}
		return nil, fmt.Errorf("exprlang: cannot assign member %q on non-assignable value", target.Name)
	case IndexNode:
		obj, err := e.Eval(target.Target)
		if err != nil {
			return nil, err
		}
		key, err := e.Eval(target.Key)
		if err != nil {
			return nil, err
		}
		if s, ok := obj.(IndexSetter); ok {
			if err := s.SetIndex(key, value); err != nil {
				return nil, err
			}
			return value, nil
		}
		if m, ok := obj.(map[string]any); ok {
			m[fmt.Sprint(key)] = value
			return value, nil
		}
		if sl, ok := obj.([]any); ok {
			if i, ok := asInt(key); ok && i >= 0 && i < len(sl) {
				sl[i] = value
				return value, nil
			}
		}
		return nil, fmt.Errorf("exprlang: cannot assign indexed value on non-assignable target")
	default:
		return nil, fmt.Errorf("exprlang: invalid assignment target %T", n.Target)
	}
}
