package value

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// MarshalJSON encodes a cty value as JSON for transport to a runtime backend
// or an embedding host. Opaque markers fail with ErrOpaqueValue.
func MarshalJSON(v cty.Value) ([]byte, error) {
	native, err := ToNative(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(native)
}

// UnmarshalJSON decodes JSON produced by a backend into the value model.
func UnmarshalJSON(data []byte) (cty.Value, error) {
	var native any
	if err := json.Unmarshal(data, &native); err != nil {
		return cty.NilVal, fmt.Errorf("value: invalid JSON from backend: %w", err)
	}
	return FromNative(native)
}
