package humanfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/naoina/toml"
)

// tomlSettings keeps TOML keys identical to the Go struct field names,
// the same normalization kryptco-kr's dependency pack configures
// elsewhere in the corpus for naoina/toml consumers.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
}

// MarshalTOML renders v (a HumanScript or any tagged struct) as TOML.
func MarshalTOML(v interface{}) ([]byte, error) {
	return tomlSettings.Marshal(v)
}

// UnmarshalTOML parses TOML into v, reporting the source document's
// line number on malformed input.
func UnmarshalTOML(data []byte, v interface{}) error {
	if err := tomlSettings.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		if _, ok := err.(*toml.LineError); ok {
			return fmt.Errorf("humanfmt: %w", err)
		}
		return err
	}
	return nil
}

// MarshalJSON renders v as indented JSON.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// UnmarshalJSON parses JSON into v.
func UnmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
