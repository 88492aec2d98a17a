package dictionary

import _ "embed"

//go:embed builtin.toml
var builtinTOML []byte

// BuiltinSource returns the raw starter dictionary.
func BuiltinSource() []byte {
	return builtinTOML
}

// Builtin decodes the starter dictionary.
func Builtin() (*Dictionary, error) {
	return Decode(builtinTOML, FormatTOML)
}
