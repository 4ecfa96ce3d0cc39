package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is the symbolic key of a day in a WeeklySchedule.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays is the fixed encoding order.
var Weekdays = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayAbbr = [...]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// ErrInvalidHours is returned by DecodeHours for strings it cannot parse.
var ErrInvalidHours = errors.New("invalid opening hours")

// TimeSlot is a single opening window in local "HH:MM" 24h time.
// Open < Close is not enforced.
type TimeSlot struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// DaySchedule holds one day of a weekly schedule.
// Slots are ignored when IsOpen is false.
type DaySchedule struct {
	IsOpen bool       `json:"isOpen" yaml:"open"`
	Slots  []TimeSlot `json:"slots,omitempty" yaml:"slots"`
}

// WeeklySchedule maps each weekday to its schedule. Missing days are closed.
type WeeklySchedule map[Weekday]DaySchedule

// HoursEncoder compacts a WeeklySchedule into a string such as
// "Mo-Fr 08:00-22:00; Sa 10:00-20:00; Su off".
type HoursEncoder struct {
	// MergeClosed folds consecutive closed days into one range ("Sa-Su off").
	// When false every closed day gets its own "off" segment.
	MergeClosed bool
}

// NewHoursEncoder creates a new encoder
func NewHoursEncoder(mergeClosed bool) *HoursEncoder {
	return &HoursEncoder{MergeClosed: mergeClosed}
}

var defaultEncoder = HoursEncoder{MergeClosed: true}

// EncodeHours encodes s with closed-day merging enabled.
func EncodeHours(s WeeklySchedule) string {
	return defaultEncoder.Encode(s)
}

// Encode groups consecutive days (Monday to Sunday) sharing the same status
// and, when open, the same slot list. Time strings are not interpreted.
func (e HoursEncoder) Encode(s WeeklySchedule) string {
	segments := make([]string, 0, len(Weekdays))

	for i := 0; i < len(Weekdays); {
		day := s[Weekdays[i]]
		j := i + 1

		if !day.IsOpen {
			if e.MergeClosed {
				for j < len(Weekdays) && !s[Weekdays[j]].IsOpen {
					j++
				}
			}
			segments = append(segments, dayRange(i, j)+" off")
			i = j
			continue
		}

		for j < len(Weekdays) {
			next := s[Weekdays[j]]
			if !next.IsOpen || !sameSlots(day.Slots, next.Slots) {
				break
			}
			j++
		}
		segments = append(segments, dayRange(i, j)+" "+formatSlots(day.Slots))
		i = j
	}

	return strings.Join(segments, "; ")
}

// dayRange renders the half-open index run [i, j).
func dayRange(i, j int) string {
	if j-i == 1 {
		return weekdayAbbr[i]
	}
	return weekdayAbbr[i] + "-" + weekdayAbbr[j-1]
}

func sameSlots(a, b []TimeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k].Open != b[k].Open || a[k].Close != b[k].Close {
			return false
		}
	}
	return true
}

func formatSlots(slots []TimeSlot) string {
	parts := make([]string, len(slots))
	for k, slot := range slots {
		parts[k] = slot.Open + "-" + slot.Close
	}
	return strings.Join(parts, ",")
}

// DecodeHours parses the format produced by Encode back into a schedule.
// Days that do not appear in the string are closed.
func DecodeHours(encoded string) (WeeklySchedule, error) {
	schedule := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		schedule[day] = DaySchedule{}
	}

	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return schedule, nil
	}

	seen := make(map[Weekday]bool, len(Weekdays))
	for _, segment := range strings.Split(encoded, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		daySpec, hours, _ := strings.Cut(segment, " ")
		from, to, err := parseDaySpec(daySpec)
		if err != nil {
			return nil, err
		}

		day, err := parseDayHours(strings.TrimSpace(hours))
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q: %v", ErrInvalidHours, segment, err)
		}

		for k := from; k <= to; k++ {
			if seen[Weekdays[k]] {
				return nil, fmt.Errorf("%w: day %s listed twice", ErrInvalidHours, weekdayAbbr[k])
			}
			seen[Weekdays[k]] = true
			schedule[Weekdays[k]] = day
		}
	}

	return schedule, nil
}

func parseDaySpec(spec string) (int, int, error) {
	first, last, isRange := strings.Cut(spec, "-")
	from := abbrIndex(first)
	if from < 0 {
		return 0, 0, fmt.Errorf("%w: unknown day %q", ErrInvalidHours, first)
	}
	if !isRange {
		return from, from, nil
	}
	to := abbrIndex(last)
	if to < 0 {
		return 0, 0, fmt.Errorf("%w: unknown day %q", ErrInvalidHours, last)
	}
	if to < from {
		return 0, 0, fmt.Errorf("%w: day range %q runs backwards", ErrInvalidHours, spec)
	}
	return from, to, nil
}

func abbrIndex(abbr string) int {
	for k, a := range weekdayAbbr {
		if a == abbr {
			return k
		}
	}
	return -1
}

func parseDayHours(hours string) (DaySchedule, error) {
	if hours == "off" {
		return DaySchedule{}, nil
	}
	// "Mo " is what Encode emits for an open day without slots.
	if hours == "" {
		return DaySchedule{IsOpen: true}, nil
	}

	var slots []TimeSlot
	for _, raw := range strings.Split(hours, ",") {
		open, closing, ok := strings.Cut(strings.TrimSpace(raw), "-")
		if !ok {
			return DaySchedule{}, fmt.Errorf("slot %q has no range", raw)
		}
		if _, err := parseClock(open); err != nil {
			return DaySchedule{}, err
		}
		if _, err := parseClock(closing); err != nil {
			return DaySchedule{}, err
		}
		slots = append(slots, TimeSlot{Open: open, Close: closing})
	}

	return DaySchedule{IsOpen: true, Slots: slots}, nil
}

// parseClock converts "HH:MM" to minutes after midnight. "24:00" is allowed.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// WeekdayOf maps a time.Weekday to the schedule key.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[(int(d)+6)%7]
}

// OpenAt reports whether the schedule is open at t (using t's own location).
// A slot whose close is not after its open runs past midnight and is
// matched on its own day only.
func OpenAt(s WeeklySchedule, t time.Time) bool {
	day, ok := s[WeekdayOf(t.Weekday())]
	if !ok || !day.IsOpen {
		return false
	}

	clock := t.Format("15:04")
	for _, slot := range day.Slots {
		if slot.Close > slot.Open {
			if clock >= slot.Open && clock < slot.Close {
				return true
			}
			continue
		}
		if clock >= slot.Open || clock < slot.Close {
			return true
		}
	}
	return false
}
