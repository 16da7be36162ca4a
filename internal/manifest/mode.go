package manifest

import (
	"errors"
	"fmt"
)

// Mode selects which directories and files a build leaves out.
type Mode string

const (
	Development Mode = "development"
	Test        Mode = "test"
	Production  Mode = "production"
)

// ErrUnknownMode is returned by ParseMode for anything but the three modes.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode accepts "development", "test" or "production". The empty
// string means Development.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return Development, nil
	case Development, Test, Production:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w %q (want development, test or production)", ErrUnknownMode, s)
}
