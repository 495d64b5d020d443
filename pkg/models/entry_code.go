package models

import (
	"fmt"
	"strings"
	"time"
)

// EntryCode selects the Form 8949 box (and TXF reference number) a
// transaction is reported under.
type EntryCode int

const (
	ShortTermCovered     EntryCode = 321 // box A
	ShortTermNoncovered  EntryCode = 711 // box B
	ShortTermNotReported EntryCode = 712 // box C
	LongTermCovered      EntryCode = 323 // box D
	LongTermNoncovered   EntryCode = 713 // box E
	LongTermNotReported  EntryCode = 714 // box F
)

var boxCodes = map[byte]EntryCode{
	'A': ShortTermCovered,
	'B': ShortTermNoncovered,
	'C': ShortTermNotReported,
	'D': LongTermCovered,
	'E': LongTermNoncovered,
	'F': LongTermNotReported,
}

// EntryCodeForBox maps the first letter of a Form 8949 box column, case
// insensitive, to its entry code.
func EntryCodeForBox(box string) (EntryCode, bool) {
	if box == "" {
		return 0, false
	}
	c, ok := boxCodes[strings.ToUpper(box[:1])[0]]
	return c, ok
}

func (c EntryCode) Valid() bool {
	return c.Box() != ""
}

// Box returns the Form 8949 checkbox letter, or "" for an unknown code.
func (c EntryCode) Box() string {
	for box, code := range boxCodes {
		if code == c {
			return string(box)
		}
	}
	return ""
}

// IsShortTerm reports whether the code belongs to Part I of Form 8949.
func (c EntryCode) IsShortTerm() bool {
	switch c {
	case ShortTermCovered, ShortTermNoncovered, ShortTermNotReported:
		return true
	}
	return false
}

func (c EntryCode) String() string {
	return fmt.Sprintf("%d (box %s)", int(c), c.Box())
}

// HeldShortTerm reports whether a lot bought at buy and sold at sell was held
// one calendar year or less.
func HeldShortTerm(buy, sell time.Time) bool {
	return !sell.After(buy.AddDate(1, 0, 0))
}

// TxfDate formats a date the way tax-form writers expect it.
func TxfDate(t time.Time) string {
	return t.Format("01/02/2006")
}
