package machine

import "fmt"

// Kind identifies the value category held by a tile or the hands.
type Kind int

const (
	KindNumber Kind = iota
	KindLetter
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindLetter:
		return "letter"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the tagged union moved between the inbox, hands, floor and outbox.
// The zero Value is Number(0).
type Value struct {
	kind   Kind
	number int
	letter rune
}

// Num constructs a numeric value. Range enforcement happens at the
// operation sites, where the configured bound is known.
func Num(n int) Value {
	return Value{kind: KindNumber, number: n}
}

// Char constructs a letter value.
func Char(r rune) Value {
	return Value{kind: KindLetter, letter: r}
}

// Kind reports the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric payload; meaningful only for KindNumber.
func (v Value) Number() int { return v.number }

// Letter returns the letter payload; meaningful only for KindLetter.
func (v Value) Letter() rune { return v.letter }

// Equal is tag-and-value equality. Comparing across tags is simply false
// here; the machine raises TypeMismatch at the operation sites where
// cross-tag comparison is illegal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.number == other.number
	default:
		return v.letter == other.letter
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%d", v.number)
	default:
		return string(v.letter)
	}
}
