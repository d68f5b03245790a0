package interpreter

import "time"

// DefaultNatives returns the built-in functions defined in every new
// interpreter's globals.
func DefaultNatives() []*Native {
	return []*Native{
		NewNative("clock", 0, func([]Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		}),
	}
}
