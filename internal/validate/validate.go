package validate

import (
	"regexp"
	"strconv"
	"strings"

	"barstore/internal/domain"
)

var (
	reBarID  = regexp.MustCompile(`^[1-9][0-9]{0,8}$`)
	reAction = regexp.MustCompile(`^(INCREMENT|DECREMENT|DELETE)$`)
)

// BarID parses a positive bar identifier.
func BarID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !reBarID.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Action normalizes a cart action; case is ignored.
func Action(s string) (domain.CartAction, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !reAction.MatchString(s) {
		return "", false
	}
	return domain.CartAction(s), true
}

// ReturnPath only lets form posts bounce back to one of our own pages.
func ReturnPath(s string) string {
	switch strings.TrimSpace(s) {
	case "/cart":
		return "/cart"
	default:
		return "/"
	}
}
