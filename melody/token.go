package melody

import (
	"fmt"
	"strconv"
)

// Kind tags what a token carries
type Kind uint8

const (
	KindPitch Kind = iota
	KindRest
	KindSustain
)

func (k Kind) String() string {
	switch k {
	case KindPitch:
		return "pitch"
	case KindRest:
		return "rest"
	case KindSustain:
		return "sustain"
	default:
		return "unknown"
	}
}

// Token is one base time unit of a melody: a pitch, a rest, or a sustain of the previous event.
// The underlying integer is a dense encoding kept for bulk arithmetic inside this module
// (pitch >= 0, Rest = -1, Sustain = -2); callers should go through Kind and Pitch.
type Token int32

const (
	Rest    Token = -1
	Sustain Token = -2
)

// Note builds a pitch token, p must be >= 0
func Note(p int) Token {
	return Token(p)
}

// Decode converts a raw encoded value into a token
func Decode(v int) (Token, error) {
	if v < int(Sustain) {
		return 0, fmt.Errorf("%w: encoded value %d", ErrInvalidToken, v)
	}
	return Token(v), nil
}

// Kind reports which variant the token holds
func (t Token) Kind() Kind {
	switch {
	case t >= 0:
		return KindPitch
	case t == Rest:
		return KindRest
	default:
		return KindSustain
	}
}

// Pitch returns the pitch and true for pitch tokens
func (t Token) Pitch() (int, bool) {
	if t < 0 {
		return 0, false
	}
	return int(t), true
}

func (t Token) IsPitch() bool { return t >= 0 }
func (t Token) IsRest() bool { return t == Rest }
func (t Token) IsSustain() bool { return t == Sustain }

// Encode returns the dense integer form
func (t Token) Encode() int { return int(t) }

func (t Token) String() string {
	switch t.Kind() {
	case KindRest:
		return "."
	case KindSustain:
		return "-"
	default:
		return strconv.Itoa(int(t))
	}
}
