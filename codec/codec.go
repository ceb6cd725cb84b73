// Package codec selects the JSON implementation used for input records,
// shard records and the run manifest.
//
// The codec name is recorded in the manifest so readers can tell how a run
// was written; both built-in codecs produce standard JSON and can read each
// other's output.
package codec

import "fmt"

// Codec encodes and decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Appender is implemented by codecs that can encode into an existing buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Parse is ByName with an error for unknown names. The empty name selects
// Default.
func Parse(name string) (Codec, error) {
	if name == "" {
		return Default, nil
	}
	c, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
	return c, nil
}

// AppendLine encodes v as one NDJSON line onto dst.
func AppendLine(c Codec, dst []byte, v any) ([]byte, error) {
	if a, ok := c.(Appender); ok {
		out, err := a.Append(dst, v)
		if err != nil {
			return dst, err
		}
		return append(out, '\n'), nil
	}
	b, err := c.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(append(dst, b...), '\n'), nil
}
