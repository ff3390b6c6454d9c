package roster

import "time"

// StoreType categorizes a store location, which scales forecasted demand.
type StoreType string

const (
	// StoreSuburban is a standard suburban restaurant.
	StoreSuburban StoreType = "suburban"
	// StoreMall is a shopping-centre food court location.
	StoreMall StoreType = "mall"
	// StoreHighway is a 24-hour style highway location with heavy drive-through traffic.
	StoreHighway StoreType = "highway"
)

// Store describes one location to be scheduled. OpenHour/CloseHour are whole
// hours on a 24h clock; overnight trading is out of scope so CloseHour must
// be greater than OpenHour.
type Store struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Type      StoreType `json:"type" yaml:"type"`
	OpenHour  int       `json:"open_hour" yaml:"open_hour"`
	CloseHour int       `json:"close_hour" yaml:"close_hour"`
	Stations  []Station `json:"stations" yaml:"stations"`
	// WeekendUplift is the multiplicative demand modifier applied on
	// Saturday and Sunday. Zero means the default of 1.2.
	WeekendUplift float64 `json:"weekend_uplift" yaml:"weekend_uplift"`
}

// HasStation reports whether the station is active at this store.
func (s Store) HasStation(st Station) bool {
	for _, active := range s.Stations {
		if active == st {
			return true
		}
	}
	return false
}

// DayModifier returns the multiplicative demand modifier for a weekday.
func (s Store) DayModifier(day time.Weekday) float64 {
	if day == time.Saturday || day == time.Sunday {
		if s.WeekendUplift > 0 {
			return s.WeekendUplift
		}
		return 1.2
	}
	return 1.0
}

// TypeModifier returns the multiplicative demand modifier for the store type.
func (s Store) TypeModifier() float64 {
	switch s.Type {
	case StoreMall:
		return 1.3
	case StoreHighway:
		return 1.5
	default:
		return 1.0
	}
}

// Day normalizes t to midnight UTC so dates compare and map cleanly.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date as YYYY-MM-DD for map keys and serialized output.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// DateRange returns every day from start to end inclusive, normalized to
// midnight UTC.
func DateRange(start, end time.Time) []time.Time {
	var days []time.Time
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
