package trace

import "strings"

// Text is an ordered fragment buffer. A fragment is either a literal
// string or a reference to a child Text that may keep growing after the
// reference is appended. Flattening resolves children recursively, so
// the output reads in append order no matter when the children filled
// in.
type Text struct {
	frags  []fragment
	sealed bool
}

type fragment struct {
	str   string
	child *Text
}

// Add appends a literal fragment. The buffer must not be sealed.
func (t *Text) Add(s string) {
	if t.sealed {
		violate("append", "fragment buffer is sealed")
	}
	t.frags = append(t.frags, fragment{str: s})
}

// AddChild appends a reference to child at the current position. The
// child's content is resolved at flatten time, not now.
func (t *Text) AddChild(child *Text) {
	if t.sealed {
		violate("append", "fragment buffer is sealed")
	}
	t.frags = append(t.frags, fragment{child: child})
}

func (t *Text) seal() { t.sealed = true }

func (t *Text) flatten(sb *strings.Builder) {
	for _, f := range t.frags {
		if f.child != nil {
			f.child.flatten(sb)
		} else {
			sb.WriteString(f.str)
		}
	}
}

// String flattens the buffer and its children.
func (t *Text) String() string {
	var sb strings.Builder
	t.flatten(&sb)
	return sb.String()
}
