package scope

// RuntimeMode selects how generated code obtains the suspend/resume
// runtime support object.
type RuntimeMode string

const (
	// RuntimeInline synthesizes the runtime class into the output.
	RuntimeInline RuntimeMode = "inline"
	// RuntimeNode emits a require() of the published runtime.
	RuntimeNode RuntimeMode = "node"
	// RuntimeNone assumes the runtime is provided ambiently.
	RuntimeNone RuntimeMode = "none"
)

// Valid reports whether m is a recognized runtime mode.
func (m RuntimeMode) Valid() bool {
	switch m {
	case RuntimeInline, RuntimeNode, RuntimeNone:
		return true
	}
	return false
}

// Session holds compilation-session state: the root scope, the options
// snapshot, and the registry of synthesized runtime helpers referenced
// by generated code. It is threaded explicitly through the compilation
// context, never stored globally, so independent compilations cannot
// observe each other.
type Session struct {
	Root    *Scope
	helpers map[string]string
	Tab     string
	Runtime RuntimeMode
	Bare    bool
}

// NewSession creates session state around a fresh root scope.
func NewSession(tab string, bare bool, runtime RuntimeMode) *Session {
	if tab == "" {
		tab = "  "
	}
	return &Session{
		Root:    New(),
		Tab:     tab,
		Bare:    bare,
		Runtime: runtime,
		helpers: make(map[string]string),
	}
}

// Utility registers a runtime helper under its mangled name the first
// time it is requested and returns that name. The helper's source is
// assigned in the root scope so it is declared once per compilation.
func (s *Session) Utility(name, source string) string {
	mangled := "__" + name
	if _, ok := s.helpers[name]; !ok {
		s.helpers[name] = mangled
		s.Root.Assign(mangled, source)
	}
	return mangled
}

// HelperRegistered reports whether the named helper is in use.
func (s *Session) HelperRegistered(name string) bool {
	_, ok := s.helpers[name]
	return ok
}
