package roster

import (
	"errors"
	"time"
)

// ErrInfeasibleDemand marks forecasted demand that is structurally unmeetable
// (for example a mandatory station with zero qualified employees). Per policy
// it degrades to a coverage warning rather than failing the run.
var ErrInfeasibleDemand = errors.New("forecasted demand is structurally unmeetable")

// DemandTarget is the required headcount for one (date, block, station) cell
// of the forecast. Targets are computed once per run and never mutated.
type DemandTarget struct {
	Date     time.Time `json:"date"`
	Block    TimeBlock `json:"block"`
	Station  Station   `json:"station"`
	Required int       `json:"required"`
}
