package systemprompt

// ContextProvider supplies a titled block of dynamic context for a generated prompt
type ContextProvider interface {
	Title() string
	Info() string
}
