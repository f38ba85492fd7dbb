package domain

import "fmt"

// Stay is the half-open interval [From, To) of whole days a room is held.
// A stay with From == To holds the single day From.
type Stay struct {
	From Date `json:"from" yaml:"from"`
	To   Date `json:"to" yaml:"to"`
}

func NewStay(from, to Date) Stay {
	return Stay{From: from, To: to}
}

// IsValid reports whether the stay does not start after it ends.
func (s Stay) IsValid() bool {
	return !s.From.After(s.To)
}

// End is the first day after the stay.
func (s Stay) End() Date {
	if s.From.Equal(s.To) {
		return s.To.AddDays(1)
	}
	return s.To
}

// Overlaps reports whether both stays hold at least one common day.
func (s Stay) Overlaps(other Stay) bool {
	return s.From.Before(other.End()) && other.From.Before(s.End())
}

func (s Stay) String() string {
	return fmt.Sprintf("[%s, %s)", s.From, s.To)
}
