package codec

import (
	"bytes"
	"encoding/json"
)

// JSON uses encoding/json. It is the portable fallback and the reference
// GoJSON is tested against.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Append matches GoJSON.Append byte for byte.
func (JSON) Append(dst []byte, v any) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return dst, err
	}
	// Encode terminates the value with a newline.
	return buf.Bytes()[:buf.Len()-1], nil
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
