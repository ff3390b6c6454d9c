package agent

import (
	"fmt"
	"time"

	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// monday is a weekday anchor date shared by the agent tests.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func counterStore() roster.Store {
	return roster.Store{
		ID:        "S-01",
		Name:      "Testville",
		Type:      roster.StoreSuburban,
		OpenHour:  9,
		CloseHour: 17,
		Stations:  []roster.Station{roster.StationCounter},
	}
}

func casual(id string, stations ...roster.Station) roster.Employee {
	if len(stations) == 0 {
		stations = []roster.Station{roster.StationCounter}
	}
	return roster.Employee{
		ID:       id,
		Name:     "Casual " + id,
		Type:     roster.Casual,
		Stations: stations,
	}
}

func casuals(n int) []roster.Employee {
	out := make([]roster.Employee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, casual(fmt.Sprintf("E-%02d", i)))
	}
	return out
}

func lunchTarget(date time.Time, required int) roster.DemandTarget {
	return roster.DemandTarget{
		Date:     roster.Day(date),
		Block:    roster.TimeBlock{Daypart: roster.DaypartLunch, StartHour: 11, EndHour: 14},
		Station:  roster.StationCounter,
		Required: required,
	}
}

var testLogger = logging.NoOpLogger{}

func testPolicy() compliance.Policy { return compliance.DefaultPolicy() }
