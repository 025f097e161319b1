package gridengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// clockSteps are the unit boundaries walking a clock string from the
// least-significant field leftward: seconds→minutes, minutes→hours,
// hours→days. Fields beyond days keep compounding in 24x steps.
var clockSteps = []int64{60, 60, 24}

// ParseClock converts a scheduler elapsed-time token into a duration.
//
// The token is colon-delimited with the least-significant unit last,
// e.g. "01:02:03" (1h 2m 3s) or "1:00:00:00" (1 day). There is no upper
// bound on the number of fields.
//
// A non-numeric or negative field is an error: it means the scheduler's
// output format itself is no longer what we expect, so callers should
// treat it as fatal rather than guess.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse clock: empty value")
	}

	fields := strings.Split(s, ":")
	var total int64
	mult := int64(1)
	for i := len(fields) - 1; i >= 0; i-- {
		field := strings.TrimSpace(fields[i])
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("parse clock %q: field %q is not a non-negative integer", s, field)
		}
		total += v * mult

		step := int64(24)
		if pos := len(fields) - 1 - i; pos < len(clockSteps) {
			step = clockSteps[pos]
		}
		mult *= step
	}

	return time.Duration(total) * time.Second, nil
}
