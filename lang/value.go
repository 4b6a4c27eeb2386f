package lang

import (
	"strconv"

	"github.com/ardnew/lsexpr/lang/token"
)

// Type indicates the kind of a [Value].
type Type int

const (
	// TypeNumber is decimal text, interpreted as integer or float on use.
	TypeNumber Type = iota
	// TypeBoolean is true or false.
	TypeBoolean
	// TypeNull is the null value.
	TypeNull
	// TypeString is quoted text.
	TypeString
	// TypeArray is an ordered sequence of values.
	TypeArray
	// TypeObject is an insertion-ordered mapping from scalar keys to values.
	TypeObject
	// TypeFunction is a parameter list and an unevaluated body.
	TypeFunction
	// TypePointer names a binding resolved through the scope at read time.
	// It only appears as an array element.
	TypePointer
)

var typeName = [...]string{
	TypeNumber:   "number",
	TypeBoolean:  "boolean",
	TypeNull:     "null",
	TypeString:   "string",
	TypeArray:    "array",
	TypeObject:   "object",
	TypeFunction: "function",
	TypePointer:  "pointer",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeName) {
		return typeName[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// IsScalar reports whether values of type t can appear in a scalar
// expression.
func (t Type) IsScalar() bool { return t <= TypeString }

// Value represents any value produced by evaluation or stored in scope.
type Value struct {
	Type Type
	// Text holds the number text, string content, boolean or null spelling,
	// or the referenced name of a pointer.
	Text    string
	Elems   []*Value      // TypeArray
	Entries []*Entry      // TypeObject
	Params  []string      // TypeFunction
	Body    []token.Token // TypeFunction
}

// Entry is one key/value pair of an object.
type Entry struct {
	Key   *Value
	Value *Value
}

// Literal spellings of the non-numeric scalars.
const (
	textTrue  = "true"
	textFalse = "false"
	textNull  = "null"
)

// NewNumber creates a number value from decimal text.
func NewNumber(text string) *Value { return &Value{Type: TypeNumber, Text: text} }

// NewBoolean creates a boolean value.
func NewBoolean(b bool) *Value {
	return &Value{Type: TypeBoolean, Text: strconv.FormatBool(b)}
}

// NewNull creates the null value.
func NewNull() *Value { return &Value{Type: TypeNull, Text: textNull} }

// NewString creates a string value.
func NewString(s string) *Value { return &Value{Type: TypeString, Text: s} }

// NewArray creates an array value from the given elements.
func NewArray(elems ...*Value) *Value {
	if elems == nil {
		elems = []*Value{}
	}

	return &Value{Type: TypeArray, Elems: elems}
}

// NewObject creates an object value from the given entries.
func NewObject(entries ...*Entry) *Value {
	if entries == nil {
		entries = []*Entry{}
	}

	return &Value{Type: TypeObject, Entries: entries}
}

// NewFunction creates a function value.
func NewFunction(params []string, body []token.Token) *Value {
	return &Value{Type: TypeFunction, Params: params, Body: body}
}

// NewPointer creates a reference to the binding called name.
func NewPointer(name string) *Value { return &Value{Type: TypePointer, Text: name} }

// FromToken converts a scalar literal token into a value. Quoted literals
// become strings; true, false and null become their own types; any other
// text is kept as a number whose interpretation is deferred.
func FromToken(tok token.Token) *Value {
	if tok.Quoted {
		return NewString(tok.Text)
	}

	switch tok.Text {
	case textTrue:
		return NewBoolean(true)
	case textFalse:
		return NewBoolean(false)
	case textNull:
		return NewNull()
	}

	return NewNumber(tok.Text)
}

// Token returns the scalar literal token for v. It reports false for
// non-scalar values.
func (v *Value) Token() (token.Token, bool) {
	switch v.Type {
	case TypeString:
		return token.Str(v.Text), true
	case TypeNumber, TypeBoolean, TypeNull:
		return token.Lit(v.Text), true
	default:
		return token.Token{}, false
	}
}

// Lookup returns the value stored under key in an object.
func (v *Value) Lookup(key *Value) (*Value, bool) {
	for _, e := range v.Entries {
		if e.Key.Type == key.Type && e.Key.Text == key.Text {
			return e.Value, true
		}
	}

	return nil, false
}
