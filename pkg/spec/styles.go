package spec

// TextStyle is the fixed typography applied to a text element type.
type TextStyle struct {
	FontSize   float64
	LineHeight float64
	Bold       bool
}

// Styles is the single source of truth for per-type typography. Both the
// editor defaults and the compositor's typography override consult this
// table so the two cannot drift.
var Styles = map[Type]TextStyle{
	TypeHeader:   {FontSize: 24, LineHeight: 1.2, Bold: true},
	TypeTitle:    {FontSize: 18, LineHeight: 1.25},
	TypeBodyText: {FontSize: 12, LineHeight: 1.35},
}

// StyleFor returns the typography for a text type, falling back to the
// body style for anything unlisted.
func StyleFor(t Type) TextStyle {
	if s, ok := Styles[t]; ok {
		return s
	}
	return Styles[TypeBodyText]
}
