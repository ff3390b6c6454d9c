package roster

import "time"

// Daypart names a time-of-day demand segment used to scale staffing targets.
type Daypart string

const (
	// DaypartOpening is the opening buffer after the doors open.
	DaypartOpening Daypart = "opening"
	// DaypartLunch is the midday peak window.
	DaypartLunch Daypart = "lunch_peak"
	// DaypartAfternoon is the low-traffic afternoon trough.
	DaypartAfternoon Daypart = "afternoon"
	// DaypartDinner is the evening peak window.
	DaypartDinner Daypart = "dinner_peak"
	// DaypartClosing is the closing buffer before the doors close.
	DaypartClosing Daypart = "closing"
)

// TimeBlock is a concrete hour span within one trading day carrying its
// daypart classification. StartHour is inclusive, EndHour exclusive.
type TimeBlock struct {
	Daypart   Daypart `json:"daypart"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
}

// Blocks derives the ordered daypart blocks for a store's trading day.
// Fixed anchor hours (lunch 11-14, dinner 17-20) are clamped to the store's
// operating window; blocks that collapse to zero width are dropped.
func (s Store) Blocks() []TimeBlock {
	candidates := []TimeBlock{
		{DaypartOpening, s.OpenHour, s.OpenHour + 2},
		{DaypartLunch, 11, 14},
		{DaypartAfternoon, 14, 17},
		{DaypartDinner, 17, 20},
		{DaypartClosing, s.CloseHour - 2, s.CloseHour},
	}
	var blocks []TimeBlock
	for _, b := range candidates {
		if b.StartHour < s.OpenHour {
			b.StartHour = s.OpenHour
		}
		if b.EndHour > s.CloseHour {
			b.EndHour = s.CloseHour
		}
		if b.EndHour > b.StartHour {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// ShiftCode identifies which half of the trading day a shift covers.
type ShiftCode string

const (
	// ShiftOpen is the opening half of the trading day.
	ShiftOpen ShiftCode = "OPEN"
	// ShiftClose is the closing half of the trading day.
	ShiftClose ShiftCode = "CLOSE"
	// ShiftFull spans the whole trading day.
	ShiftFull ShiftCode = "FULL"
)

// Shift is a start/end hour pair within one day. Hours are whole hours on a
// 24h clock; EndHour is exclusive.
type Shift struct {
	Code      ShiftCode `json:"code"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
}

// Duration returns the shift length in hours.
func (s Shift) Duration() float64 { return float64(s.EndHour - s.StartHour) }

// Covers reports whether the shift span overlaps the given block.
func (s Shift) Covers(b TimeBlock) bool {
	return s.StartHour < b.EndHour && b.StartHour < s.EndHour
}

// Overlaps reports whether two shifts on the same day share any hour.
func (s Shift) Overlaps(o Shift) bool {
	return s.StartHour < o.EndHour && o.StartHour < s.EndHour
}

// StartTime anchors the shift's start on a concrete date.
func (s Shift) StartTime(date time.Time) time.Time {
	d := Day(date)
	return d.Add(time.Duration(s.StartHour) * time.Hour)
}

// EndTime anchors the shift's end on a concrete date.
func (s Shift) EndTime(date time.Time) time.Time {
	d := Day(date)
	return d.Add(time.Duration(s.EndHour) * time.Hour)
}

// midHour splits the trading day into opening and closing halves.
func (s Store) midHour() int { return (s.OpenHour + s.CloseHour) / 2 }

// OpeningShift returns the opening-half shift for the store.
func (s Store) OpeningShift() Shift {
	return Shift{Code: ShiftOpen, StartHour: s.OpenHour, EndHour: s.midHour()}
}

// ClosingShift returns the closing-half shift for the store.
func (s Store) ClosingShift() Shift {
	return Shift{Code: ShiftClose, StartHour: s.midHour(), EndHour: s.CloseHour}
}

// FullDayShift returns the full trading-day shift for the store.
func (s Store) FullDayShift() Shift {
	return Shift{Code: ShiftFull, StartHour: s.OpenHour, EndHour: s.CloseHour}
}

// ShiftForBlock maps a demand block onto the store shift that covers it: the
// opening shift for blocks starting before the day's midpoint, the closing
// shift otherwise.
func (s Store) ShiftForBlock(b TimeBlock) Shift {
	if b.StartHour < s.midHour() {
		return s.OpeningShift()
	}
	return s.ClosingShift()
}
