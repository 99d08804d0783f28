package proc

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/egyptiansgermany/bawab/sys"
)

// ErrRuleNotFixed is returned for a schedule expression that does not pin
// exactly one minute, hour and weekday.
var ErrRuleNotFixed = errors.New("schedule must name one fixed weekday, hour and minute")

// cron sets this bit on fields written as "*" or "?".
const cronStarBit = 1 << 63

var weeklyParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseWhen reads a five-field cron expression such as "0 13 * * MON" and
// returns its weekday (0 = Monday), hour and minute.
func ParseWhen(expr string) (weekday, hour, minute int, err error) {
	sched, err := weeklyParser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse %q: %w", expr, err)
	}
	fixed, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrRuleNotFixed, expr)
	}
	if fixed.Dom&cronStarBit == 0 || fixed.Month&cronStarBit == 0 {
		return 0, 0, 0, fmt.Errorf("%w: %q restricts day of month or month", ErrRuleNotFixed, expr)
	}

	minute, okM := singleBit(fixed.Minute)
	hour, okH := singleBit(fixed.Hour)
	dow, okD := singleBit(fixed.Dow)
	if !okM || !okH || !okD {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrRuleNotFixed, expr)
	}

	// cron counts Sunday as 0.
	return (dow + 6) % 7, hour, minute, nil
}

func singleBit(field uint64) (int, bool) {
	if field&cronStarBit != 0 || bits.OnesCount64(field) != 1 {
		return 0, false
	}
	return bits.TrailingZeros64(field), true
}

// BuildRules turns schedule entries into rules, binding each to a named
// action. Unknown actions and loose expressions are errors.
func BuildRules(entries []sys.ScheduleEntry, actions map[string]Action) ([]ScheduleRule, error) {
	rules := make([]ScheduleRule, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", e.Action, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("schedule[%d]: duplicate rule name %q", i, name)
		}
		seen[name] = true

		action, ok := actions[e.Action]
		if !ok {
			return nil, fmt.Errorf("schedule[%d]: unknown action %q", i, e.Action)
		}
		wd, h, m, err := ParseWhen(e.When)
		if err != nil {
			return nil, fmt.Errorf("schedule[%d]: %w", i, err)
		}
		rules = append(rules, ScheduleRule{Name: name, Weekday: wd, Hour: h, Minute: m, Action: action})
	}
	return rules, nil
}
