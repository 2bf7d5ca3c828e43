package grid

// Key is a navigation-relevant input key.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// ParseKey maps a key name ("enter", "up", "ArrowDown", ...) to a Key.
// Anything unrecognised is KeyOther.
func ParseKey(name string) Key {
	switch name {
	case "enter", "Enter":
		return KeyEnter
	case "up", "ArrowUp":
		return KeyUp
	case "down", "ArrowDown":
		return KeyDown
	case "left", "ArrowLeft":
		return KeyLeft
	case "right", "ArrowRight":
		return KeyRight
	}
	return KeyOther
}

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}
	return "other"
}

// Focus points at a cell.
type Focus struct {
	Row int
	Col int
}

// Shape is the size of a grid.
type Shape struct {
	Rows int
	Cols int
}

// Caret describes the text-selection state of the focused cell.
// Pos is the selection start in runes, Length the rune length of the
// cell's text.
type Caret struct {
	Pos       int
	Length    int
	Composing bool
}

// AtStart reports whether the caret sits before the first character.
func (c Caret) AtStart() bool { return c.Pos == 0 }

// AtEnd reports whether the caret sits after the last character.
func (c Caret) AtEnd() bool { return c.Pos == c.Length }

// Outcome is the result of resolving a key against the grid.
type Outcome struct {
	// Next is the focus after the key. Equal to the input focus unless Moved.
	Next Focus

	// Moved is set when focus changed. The caller should focus Next and
	// select its full text so the next keystroke replaces it.
	Moved bool

	// Consume is set when the caller must suppress the key's default
	// in-cell behaviour.
	Consume bool
}

// Resolve maps key at focus to the next focus.
//
// Enter and Down move one row down, Up one row up. Right fires only with the
// caret at the end of the text and Left only at the start; otherwise the key
// is left to the cell. Column overflow wraps to the adjacent row. A move that
// would leave the row range is dropped but the key is still consumed. While
// an input method is composing nothing fires.
func Resolve(key Key, focus Focus, shape Shape, caret Caret) Outcome {
	stay := Outcome{Next: focus}
	if caret.Composing {
		return stay
	}

	row, col := focus.Row, focus.Col
	switch key {
	case KeyEnter, KeyDown:
		row++
	case KeyUp:
		row--
	case KeyRight:
		if !caret.AtEnd() {
			return stay
		}
		col++
	case KeyLeft:
		if !caret.AtStart() {
			return stay
		}
		col--
	default:
		return stay
	}

	stay.Consume = true
	if shape.Cols <= 0 {
		return stay
	}
	if col >= shape.Cols {
		col = 0
		row++
	}
	if col < 0 {
		col = shape.Cols - 1
		row--
	}
	if row < 0 || row >= shape.Rows {
		return stay
	}
	return Outcome{Next: Focus{Row: row, Col: col}, Moved: true, Consume: true}
}

// Navigator owns the focus position and composition flag for one grid.
type Navigator struct {
	shape     Shape
	focus     Focus
	composing bool
}

// NewNavigator returns a Navigator focused on the first cell.
func NewNavigator(shape Shape) *Navigator {
	return &Navigator{shape: shape}
}

// Focus returns the current focus.
func (n *Navigator) Focus() Focus { return n.focus }

// Shape returns the grid shape the navigator moves within.
func (n *Navigator) Shape() Shape { return n.shape }

// SetComposing marks an input-method composition as in progress or done.
func (n *Navigator) SetComposing(v bool) { n.composing = v }

// Composing reports whether composition is in progress.
func (n *Navigator) Composing() bool { return n.composing }

// FocusCell moves focus directly, e.g. after a pointer click. Out-of-range
// targets are ignored and false is returned.
func (n *Navigator) FocusCell(f Focus) bool {
	if f.Row < 0 || f.Row >= n.shape.Rows || f.Col < 0 || f.Col >= n.shape.Cols {
		return false
	}
	n.focus = f
	n.composing = false
	return true
}

// Handle resolves key with the focused cell's caret state and applies the
// resulting move.
func (n *Navigator) Handle(key Key, pos, length int) Outcome {
	out := Resolve(key, n.focus, n.shape, Caret{Pos: pos, Length: length, Composing: n.composing})
	if out.Moved {
		n.focus = out.Next
	}
	return out
}
