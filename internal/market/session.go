package market

import "time"

// IDX trading sessions, minutes from midnight Jakarta time. Session 1
// and 2 are split by the lunch break; Friday trims for prayers.
type session struct {
	open  int
	close int
}

var (
	weekdaySessions = []session{
		{open: 9 * 60, close: 12 * 60},     // 09:00-12:00
		{open: 13*60 + 30, close: 16 * 60}, // 13:30-16:00
	}
	fridaySessions = []session{
		{open: 9 * 60, close: 11*60 + 30}, // 09:00-11:30
		{open: 14 * 60, close: 16 * 60},   // 14:00-16:00
	}
)

// JakartaLocation returns the exchange timezone, falling back to a
// fixed WIB offset if the zoneinfo database is unavailable.
func JakartaLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// IsExchangeOpen reports whether IDX is in a trading session at the
// given instant. Pure function of weekday and local time; public
// holidays are not modelled.
func IsExchangeOpen(t time.Time) bool {
	local := t.In(JakartaLocation())

	var sessions []session
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	case time.Friday:
		sessions = fridaySessions
	default:
		sessions = weekdaySessions
	}

	minutes := local.Hour()*60 + local.Minute()
	for _, s := range sessions {
		if minutes >= s.open && minutes < s.close {
			return true
		}
	}
	return false
}
