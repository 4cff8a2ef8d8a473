package schema

// Base is a base schema for structured content types to embed
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}
