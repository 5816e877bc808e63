// Package scan tracks string and template literal context while walking
// source text one character at a time. It is the shared foundation for
// every structural check: brackets, braces and tags only count when they
// appear outside quoted text.
package scan

// Mode identifies the literal context the scanner is currently inside.
type Mode int

const (
	// ModeNone means the scanner is in plain code text.
	ModeNone Mode = iota
	// ModeSingle means inside a single-quoted string.
	ModeSingle
	// ModeDouble means inside a double-quoted string.
	ModeDouble
	// ModeTemplate means inside a backtick template literal.
	ModeTemplate
)

// String returns a short human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeDouble:
		return "double"
	case ModeTemplate:
		return "template"
	default:
		return "none"
	}
}

// State is a character-level literal tracker. The zero value is ready to
// use and starts in plain code text. State is call-scoped: each scan of a
// snippet allocates its own and never shares it across goroutines.
type State struct {
	mode    Mode
	escaped bool
}

// Consume feeds one character through the tracker and reports whether
// that character is structural code text, meaning it sits outside every
// string and template literal and is not consumed by an escape.
//
// Rules apply in priority order: a pending escape swallows the character
// verbatim; a backslash inside a literal arms the escape for the next
// character; an unescaped quote matching the open literal closes it,
// while a quote in plain text opens one; a backtick opens and closes
// template literals the same way. No other character has meaning here.
func (s *State) Consume(ch rune) bool {
	if s.escaped {
		s.escaped = false

		return false
	}

	switch ch {
	case '\\':
		if s.mode != ModeNone {
			s.escaped = true

			return false
		}

		return true
	case '\'':
		return s.toggle(ModeSingle)
	case '"':
		return s.toggle(ModeDouble)
	case '`':
		return s.toggle(ModeTemplate)
	default:
		return s.mode == ModeNone
	}
}

// toggle opens target when in plain text, closes it when it is the open
// literal, and otherwise leaves the character as opaque literal content.
// Delimiters and content alike are not structural.
func (s *State) toggle(target Mode) bool {
	switch s.mode {
	case ModeNone:
		s.mode = target
	case target:
		s.mode = ModeNone
	}

	return false
}

// Mode returns the current literal context.
func (s *State) Mode() Mode {
	return s.mode
}

// InLiteral reports whether the scanner is inside any string or template.
func (s *State) InLiteral() bool {
	return s.mode != ModeNone
}

// Escaped reports whether the next character will be consumed by a
// pending escape.
func (s *State) Escaped() bool {
	return s.escaped
}

// Reset returns the tracker to plain code text with no pending escape.
func (s *State) Reset() {
	s.mode = ModeNone
	s.escaped = false
}
