package agent

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/roster"
)

// baseHeadcount is the per-station staffing baseline for each daypart before
// store-type and day-of-week modifiers apply. Peak windows carry double the
// trough staffing.
var baseHeadcount = map[roster.Daypart]float64{
	roster.DaypartOpening:   2,
	roster.DaypartLunch:     3,
	roster.DaypartAfternoon: 1,
	roster.DaypartDinner:    3,
	roster.DaypartClosing:   2,
}

// Forecaster produces the per (date, block, station) demand target set for a
// run. Forecasting is purely arithmetic over the store profile, so identical
// inputs always yield identical targets.
type Forecaster struct {
	BaseAgent
}

// NewForecaster constructs the demand forecasting agent.
func NewForecaster(b *bus.Bus, logger logging.Logger) *Forecaster {
	return &Forecaster{
		BaseAgent: NewBaseAgent("forecaster", "Forecasts per-block staffing demand from the store profile", b, logger),
	}
}

// Execute computes demand targets covering every (date, block, station) cell
// of the range and publishes them for the matcher. The returned slice is in
// canonical order: date ascending, block order, station priority.
func (f *Forecaster) Execute(ctx context.Context, store roster.Store, start, end time.Time) ([]roster.DemandTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if store.CloseHour <= store.OpenHour {
		return nil, fmt.Errorf("store %s has invalid operating hours %d-%d", store.ID, store.OpenHour, store.CloseHour)
	}

	blocks := store.Blocks()
	var targets []roster.DemandTarget
	for _, date := range roster.DateRange(start, end) {
		dayMod := store.DayModifier(date.Weekday())
		for _, block := range blocks {
			for _, station := range roster.StationPriority {
				if !store.HasStation(station) {
					continue
				}
				required := int(math.Round(baseHeadcount[block.Daypart] * store.TypeModifier() * dayMod))
				if required < 1 {
					required = 1
				}
				targets = append(targets, roster.DemandTarget{
					Date:     date,
					Block:    block,
					Station:  station,
					Required: required,
				})
			}
		}
	}

	f.Logger().Info("demand forecast complete", "store", store.ID, "targets", len(targets))
	f.SendData("matcher", TopicDemandTargets, targets)
	return targets, nil
}
