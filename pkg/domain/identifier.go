package domain

// Identifier is an addressable input supplied by the Registry.
// Names are treated as unique for resolution purposes: the first
// case-insensitive exact match wins.
type Identifier struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
}

// Default identifier kinds.
const (
	KindInput   = "input"
	KindOutcome = "outcome"
)
