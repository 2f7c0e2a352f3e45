package value

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// ErrOpaqueValue is returned when a stream or function reference reaches a
// marshaling boundary. These markers are engine-internal and must never be
// silently coerced into a host representation.
var ErrOpaqueValue = errors.New("value: opaque reference cannot cross a marshaling boundary")

// StreamRef marks a value as a handle to an engine-internal stream.
type StreamRef struct {
	ID string
}

// FunctionRef marks a value as a handle to a callable exposed by a node.
type FunctionRef struct {
	NodeName     string
	FunctionName string
}

// StreamRefType and FunctionRefType are the capsule types carrying the two
// opaque marker kinds through the cty value model.
var (
	StreamRefType   = cty.Capsule("stream_ref", reflect.TypeOf(StreamRef{}))
	FunctionRefType = cty.Capsule("function_ref", reflect.TypeOf(FunctionRef{}))
)

// NewStreamRef wraps a stream handle into a cty value.
func NewStreamRef(id string) cty.Value {
	return cty.CapsuleVal(StreamRefType, &StreamRef{ID: id})
}

// NewFunctionRef wraps a function handle into a cty value.
func NewFunctionRef(nodeName, functionName string) cty.Value {
	return cty.CapsuleVal(FunctionRefType, &FunctionRef{NodeName: nodeName, FunctionName: functionName})
}

// Null is the canonical null value of the model.
func Null() cty.Value {
	return cty.NullVal(cty.DynamicPseudoType)
}

// IsOpaque reports whether v is one of the engine-internal marker kinds.
func IsOpaque(v cty.Value) bool {
	ty := v.Type()
	return ty.Equals(StreamRefType) || ty.Equals(FunctionRefType)
}

// ToNative converts a cty value into the equivalent native Go representation
// (nil, bool, float64/int64, string, []any, map[string]any). Opaque markers
// fail with ErrOpaqueValue, anywhere in the structure.
func ToNative(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if IsOpaque(v) {
		return nil, fmt.Errorf("%w: %s", ErrOpaqueValue, v.Type().FriendlyName())
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := ToNative(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = nv
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("value: unsupported type %s", ty.FriendlyName())
}

// FromNative converts a native Go value (as produced by encoding/json or a
// runtime backend) into the cty value model.
func FromNative(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return cty.BoolVal(tv), nil
	case string:
		return cty.StringVal(tv), nil
	case int:
		return cty.NumberIntVal(int64(tv)), nil
	case int64:
		return cty.NumberIntVal(tv), nil
	case float64:
		return cty.NumberFloatVal(tv), nil
	case []any:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(tv))
		for _, e := range tv {
			ev, err := FromNative(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(tv))
		for k, e := range tv {
			ev, err := FromNative(e)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	case cty.Value:
		return tv, nil
	}
	return cty.NilVal, fmt.Errorf("value: cannot represent Go value of type %T", v)
}
