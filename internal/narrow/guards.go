package narrow

import "github.com/sharpts/sharpts/internal/types"

// TypeofNarrow implements `typeof x === "..."` (spec.md §4.2). declared is
// the type x would have absent any narrowing (the Lookup fallback type);
// operand is "string"|"number"|"boolean"|"object"|"function"|"undefined"|
// "symbol"|"bigint". Positive narrows to the matching subset of declared;
// negative removes that subset.
func TypeofNarrow(base Context, p Path, declared types.TypeInfo, operand string) Result {
	matches := func(t types.TypeInfo) bool {
		switch operand {
		case "string":
			return t.Kind() == types.KindString || t.Kind() == types.KindStringLiteral
		case "number":
			return t.Kind() == types.KindNumber || t.Kind() == types.KindNumberLiteral
		case "boolean":
			return t.Kind() == types.KindBoolean || t.Kind() == types.KindBooleanLiteral
		case "undefined":
			return t.Kind() == types.KindUndefined
		case "symbol":
			return t.Kind() == types.KindSymbol
		case "bigint":
			return t.Kind() == types.KindBigInt
		case "function":
			return t.Kind() == types.KindFunction
		case "object":
			// Historical anomaly (spec.md §4.2): excludes undefined, retains null.
			switch t.Kind() {
			case types.KindUndefined, types.KindFunction, types.KindNumber, types.KindNumberLiteral,
				types.KindString, types.KindStringLiteral, types.KindBoolean, types.KindBooleanLiteral,
				types.KindSymbol, types.KindBigInt:
				return false
			default:
				return true
			}
		}
		return false
	}

	var pos, neg []types.TypeInfo
	for _, m := range unionMembersOf(declared) {
		if matches(m) {
			pos = append(pos, m)
		} else {
			neg = append(neg, m)
		}
	}
	return Result{
		Positive: base.With(p, types.NewUnion(pos...)),
		Negative: base.With(p, types.NewUnion(neg...)),
	}
}

// NullCheckNarrow implements `x === null` / `x === undefined`. looseNull
// selects `x == null` semantics (matches both null and undefined).
func NullCheckNarrow(base Context, p Path, declared types.TypeInfo, looseNull bool) Result {
	if looseNull {
		return Result{
			Positive: base.With(p, types.NewUnion(types.Null, types.Undefined)),
			Negative: base.With(p, excludeFromUnion(declared, types.Null, types.Undefined)),
		}
	}
	return Result{
		Positive: base.With(p, types.Null),
		Negative: base.With(p, excludeFromUnion(declared, types.Null)),
	}
}

// UndefinedCheckNarrow implements `x === undefined` specifically (as
// distinct from the combined `== null` form above).
func UndefinedCheckNarrow(base Context, p Path, declared types.TypeInfo) Result {
	return Result{
		Positive: base.With(p, types.Undefined),
		Negative: base.With(p, excludeFromUnion(declared, types.Undefined)),
	}
}

// LiteralEqualityNarrow implements `x === <literal>`: positive narrows to
// the literal type; negative removes that literal from declared's union.
func LiteralEqualityNarrow(base Context, p Path, declared, literal types.TypeInfo) Result {
	return Result{
		Positive: base.With(p, literal),
		Negative: base.With(p, excludeFromUnion(declared, literal)),
	}
}

// DiscriminantNarrow implements `obj.tag === "Foo"` for a discriminated
// union: declared is obj's declared union type, discriminant is the
// common property name ("tag"), and value is the literal being compared.
// Positive narrows obj to the union member(s) whose discriminant member
// type includes value; negative keeps the rest.
func DiscriminantNarrow(base Context, p Path, declared types.TypeInfo, discriminant string, value types.TypeInfo) Result {
	var pos, neg []types.TypeInfo
	for _, m := range unionMembersOf(declared) {
		tagType, ok := memberPropertyType(m, discriminant)
		if ok && types.TypesEqual(tagType, value) {
			pos = append(pos, m)
		} else {
			neg = append(neg, m)
		}
	}
	return Result{
		Positive: base.With(p, types.NewUnion(pos...)),
		Negative: base.With(p, types.NewUnion(neg...)),
	}
}

func memberPropertyType(t types.TypeInfo, name string) (types.TypeInfo, bool) {
	switch v := t.(type) {
	case types.RecordType:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
	case types.InterfaceType:
		for _, f := range v.AllMembers() {
			if f.Name == name {
				return f.Type, true
			}
		}
	}
	return nil, false
}

// InstanceofNarrow implements `x instanceof C`: positive narrows to
// Instance(C); negative keeps declared as-is (instanceof gives no useful
// exclusion information against an open-ended class hierarchy).
func InstanceofNarrow(base Context, p Path, declared types.TypeInfo, classID types.ID) Result {
	return Result{
		Positive: base.With(p, types.InstanceType{Class: classID}),
		Negative: base,
	}
}

// InNarrow implements `"key" in obj`: positive narrows obj to its
// union members that declare that key; negative keeps the rest.
func InNarrow(base Context, p Path, declared types.TypeInfo, key string) Result {
	var pos, neg []types.TypeInfo
	for _, m := range unionMembersOf(declared) {
		if _, ok := memberPropertyType(m, key); ok {
			pos = append(pos, m)
		} else {
			neg = append(neg, m)
		}
	}
	return Result{
		Positive: base.With(p, types.NewUnion(pos...)),
		Negative: base.With(p, types.NewUnion(neg...)),
	}
}

// TruthinessNarrow implements `if (x)`: the positive branch loses
// null/undefined/false/the 0 literal/the "" literal; the negative branch
// keeps the types whose every value is falsy (null, undefined, void, false,
// 0, "") plus boolean, number and string, which also have falsy values.
func TruthinessNarrow(base Context, p Path, declared types.TypeInfo) Result {
	isAlwaysFalsy := func(t types.TypeInfo) bool {
		switch v := t.(type) {
		case types.NumberLiteralType:
			return v.Value == 0
		case types.StringLiteralType:
			return v.Value == ""
		case types.BooleanLiteralType:
			return !v.Value
		}
		switch t.Kind() {
		case types.KindNull, types.KindUndefined, types.KindVoid:
			return true
		}
		return false
	}
	var pos, neg []types.TypeInfo
	for _, m := range unionMembersOf(declared) {
		if !isAlwaysFalsy(m) {
			pos = append(pos, m)
		}
		if isAlwaysFalsy(m) || m.Kind() == types.KindBoolean || m.Kind() == types.KindNumber || m.Kind() == types.KindString {
			neg = append(neg, m)
		}
	}
	return Result{
		Positive: base.With(p, types.NewUnion(pos...)),
		Negative: base.With(p, types.NewUnion(neg...)),
	}
}
