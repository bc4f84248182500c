package capture

import (
	"fmt"
	"strings"
)

// Status is the target's status condition. The zero value is StatusNone.
// Declaration order is display order only.
type Status int

const (
	StatusNone Status = iota
	StatusBurn
	StatusFreeze
	StatusParalysis
	StatusPoison
	StatusSleep
)

var statusNames = [...]string{
	StatusNone:      "NONE",
	StatusBurn:      "BURN",
	StatusFreeze:    "FREEZE",
	StatusParalysis: "PARALYSIS",
	StatusPoison:    "POISON",
	StatusSleep:     "SLEEP",
}

// sleep/freeze 2x, the rest of the majors 1.5x
var statusMultipliers = [...]float64{
	StatusNone:      1,
	StatusBurn:      1.5,
	StatusFreeze:    2,
	StatusParalysis: 1.5,
	StatusPoison:    1.5,
	StatusSleep:     2,
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusNone, StatusBurn, StatusFreeze, StatusParalysis, StatusPoison, StatusSleep}
}

func (s Status) valid() bool { return s >= StatusNone && s <= StatusSleep }

// Multiplier is the capture bonus applied once per attempt.
func (s Status) Multiplier() float64 {
	if !s.valid() {
		return 1
	}
	return statusMultipliers[s]
}

func (s Status) String() string {
	if !s.valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus accepts a status name in any case ("sleep", "SLEEP", "Sleep").
func ParseStatus(name string) (Status, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for i, s := range statusNames {
		if s == n {
			return Status(i), nil
		}
	}
	return StatusNone, fmt.Errorf("status %q: %w", name, ErrNotFound)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("status %d: %w", int(s), ErrInvalidArgument)
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
