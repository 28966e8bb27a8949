// Package numbering generates per-organization proposal codes from a
// configurable token list backed by a monotonic internal sequence.
package numbering

// Parameter identifies the dynamic part of a format token. The string
// values are the legacy configuration vocabulary and are stored as-is in
// the settings JSON, so they must never change.
type Parameter string

const (
	ParamNone   Parameter = ""
	ParamDay    Parameter = "dia"
	ParamMonth  Parameter = "mes"
	ParamYear   Parameter = "ano"
	ParamTime   Parameter = "horario"
	ParamNumber Parameter = "numero"
)

// ParseParameter maps a raw configuration value onto the closed parameter
// set. Unrecognized values resolve to ParamNone rather than failing, so a
// stale or hand-edited configuration still produces a code.
func ParseParameter(raw string) Parameter {
	switch Parameter(raw) {
	case ParamDay, ParamMonth, ParamYear, ParamTime, ParamNumber:
		return Parameter(raw)
	default:
		return ParamNone
	}
}

// Token is one segment of a code format: static prefix, optional dynamic
// parameter, static suffix. A token with ParamNone is plain static text.
type Token struct {
	Prefix    string    `json:"prefixo"`
	Parameter Parameter `json:"param"`
	Suffix    string    `json:"sufixo"`
}

// Config is the per-organization numbering configuration. A nil Config
// means the organization never configured numbering and codes fall back
// to the bare sequence.
type Config struct {
	StartingValue int64
	Tokens        []Token
}
