// Package filterexpr binds CEL-style filter and order_by expressions onto
// query parameter structs. Filters are restricted to AND-joined atomic
// predicates over whitelisted fields; anything else is rejected at parse
// time, so expressions never reach the database unchecked.
package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindTimestamp ValueKind = "timestamp"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// SetterFunc allows custom assignment of literal values to struct fields.
type SetterFunc func(field reflect.Value, value any) error

// FilterField describes how a filter field maps to a params struct field
// and which operations are allowed. Ops maps each allowed operator to the
// destination field name.
type FilterField struct {
	Kind   ValueKind
	Ops    map[Op]string
	Setter SetterFunc
}

// OrderSchema describes ordering defaults and whitelisted keys.
type OrderSchema struct {
	DefaultKey  string
	DefaultDesc bool
	Keys        []string
}

// Schema aggregates filtering and ordering rules for a resource.
type Schema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

// Bind parses filter and orderBy and populates the params struct. The
// struct must carry PrimaryKey/PrimaryDesc/SecondaryKey/SecondaryDesc
// fields for ordering plus whatever destinations the filter schema names.
func Bind(filter, orderBy string, binding any, schema Schema) error {
	dest, err := structValue(binding)
	if err != nil {
		return err
	}
	if err := bindFilter(dest, filter, schema.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := bindOrder(dest, orderBy, schema.Order); err != nil {
		return fmt.Errorf("order_by: %w", err)
	}
	return nil
}

func structValue(binding any) (reflect.Value, error) {
	rv := reflect.ValueOf(binding)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, errors.New("binding must be a non-nil pointer")
	}
	dest := rv.Elem()
	if dest.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("binding must point to a struct")
	}
	return dest, nil
}

func bindFilter(dest reflect.Value, filter string, fields map[string]FilterField) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}
	if len(fields) == 0 {
		return errors.New("no filterable fields defined")
	}

	env, err := buildEnv(fields)
	if err != nil {
		return err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("invalid expression: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return err
	}
	conjuncts, err := extractConjuncts(parsed.GetExpr())
	if err != nil {
		return err
	}

	for _, expr := range conjuncts {
		pred, err := parsePredicate(expr)
		if err != nil {
			return err
		}
		rule, ok := fields[pred.Field]
		if !ok {
			return fmt.Errorf("field %q is not allowed", pred.Field)
		}
		targetName, ok := rule.Ops[pred.Op]
		if !ok {
			return fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
		}
		if err := checkLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", pred.Field, err)
		}
		field := dest.FieldByName(targetName)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("params struct %s has no settable field %q", dest.Type(), targetName)
		}
		if rule.Setter != nil {
			if err := rule.Setter(field, pred.Value); err != nil {
				return fmt.Errorf("field %q: %w", pred.Field, err)
			}
			continue
		}
		if err := assign(field, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", pred.Field, err)
		}
	}
	return nil
}

func buildEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields))
	for name, rule := range fields {
		switch rule.Kind {
		case KindString:
			opts = append(opts, cel.Variable(name, cel.StringType))
		case KindTimestamp:
			opts = append(opts, cel.Variable(name, cel.TimestampType))
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %s", name, rule.Kind)
		}
	}
	return cel.NewEnv(opts...)
}

type predicate struct {
	Field string
	Op    Op
	Value any
}

// extractConjuncts flattens nested AND chains into a flat predicate list.
// cel-go parses "a && b && c" as nested binary calls.
func extractConjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}
	switch call.Function {
	case "_&&_":
		var out []*exprpb.Expr
		for _, arg := range call.Args {
			sub, err := extractConjuncts(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parsePredicate(expr *exprpb.Expr) (predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return predicate{}, errors.New("expected a comparison")
	}
	switch call.Function {
	case "_==_":
		return parseBinary(call, OpEQ)
	case "_>_":
		return parseBinary(call, OpGT)
	case "_>=_":
		return parseBinary(call, OpGTE)
	case "_in_", "@in":
		return parseIn(call)
	case "startsWith":
		return parseStartsWith(call)
	default:
		return predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func parseBinary(call *exprpb.Expr_Call, op Op) (predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
	}
	field, err := identName(call.Args[0])
	if err != nil {
		return predicate{}, err
	}
	value, err := literal(call.Args[1])
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: field, Op: op, Value: value}, nil
}

func parseIn(call *exprpb.Expr_Call) (predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return predicate{}, errors.New("in expects two operands")
	}
	field, err := identName(call.Args[0])
	if err != nil {
		return predicate{}, err
	}
	value, err := literal(call.Args[1])
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: field, Op: OpIN, Value: value}, nil
}

func parseStartsWith(call *exprpb.Expr_Call) (predicate, error) {
	if call.Target == nil || len(call.Args) != 1 {
		return predicate{}, errors.New("startsWith must be called as field.startsWith(value)")
	}
	field, err := identName(call.Target)
	if err != nil {
		return predicate{}, err
	}
	value, err := literal(call.Args[0])
	if err != nil {
		return predicate{}, err
	}
	if _, ok := value.(string); !ok {
		return predicate{}, errors.New("startsWith requires a string literal")
	}
	return predicate{Field: field, Op: OpSW, Value: value}, nil
}

func identName(expr *exprpb.Expr) (string, error) {
	ident := expr.GetIdentExpr()
	if ident == nil {
		return "", errors.New("left-hand side must be a field name")
	}
	return ident.GetName(), nil
}

func literal(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		if _, ok := constant.ConstantKind.(*exprpb.Constant_StringValue); ok {
			return constant.GetStringValue(), nil
		}
		return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			val, err := literal(elem)
			if err != nil {
				return nil, err
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list elements must be string literals")
			}
			values[i] = str
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 {
			return nil, errors.New("timestamp() expects a single string argument")
		}
		arg := call.Args[0].GetConstExpr()
		if arg == nil || arg.GetStringValue() == "" {
			return nil, errors.New("timestamp() argument must be a string literal")
		}
		str := arg.GetStringValue()
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return nil, fmt.Errorf("timestamp literal %q is not RFC3339", str)
		}
		return timestampLiteral(str), nil
	}

	return nil, errors.New("right-hand side must be a literal, list, or timestamp() call")
}

// timestampLiteral keeps the original RFC3339 text so destinations can
// decide their own representation.
type timestampLiteral string

func checkLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpIN {
			list, ok := value.([]string)
			if !ok || len(list) == 0 {
				return errors.New("expected a non-empty list of string literals")
			}
			return nil
		}
		if _, ok := value.(string); !ok {
			return errors.New("expected a string literal")
		}
	case KindTimestamp:
		if _, ok := value.(timestampLiteral); !ok {
			return errors.New("expected a timestamp() literal")
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}

func assign(field reflect.Value, value any) error {
	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string destination, got %s", field.Kind())
		}
		field.SetString(v)
	case timestampLiteral:
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string destination, got %s", field.Kind())
		}
		field.SetString(string(v))
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected []string destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}
