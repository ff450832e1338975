package domain

import "fmt"

type SelectorKind uint8

const (
	SelectUser SelectorKind = iota + 1
	SelectCaretakers
	SelectAll
)

func (k SelectorKind) String() string {
	switch k {
	case SelectUser:
		return "user"
	case SelectCaretakers:
		return "caretakers"
	case SelectAll:
		return "all"
	}
	return fmt.Sprintf("selector(%d)", uint8(k))
}

// Selector describes who should receive a notification.
// UserId is the recipient for SelectUser and the patient for SelectCaretakers.
type Selector struct {
	Kind          SelectorKind `json:"kind"`
	UserId        string       `json:"userId,omitempty"`
	RequesterId   string       `json:"requesterId,omitempty"`
	ExcludeUserId string       `json:"excludeUserId,omitempty"`
}

// Resolution is the token set produced for a selector.
type Resolution struct {
	Tokens  []string
	Skipped int
	// NoToken is set when a single recipient has no registered token.
	NoToken bool
}
