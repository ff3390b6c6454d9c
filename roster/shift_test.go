package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksStandardDay(t *testing.T) {
	store := Store{ID: "S-01", OpenHour: 9, CloseHour: 22}

	blocks := store.Blocks()
	require.Len(t, blocks, 5)

	assert.Equal(t, TimeBlock{DaypartOpening, 9, 11}, blocks[0])
	assert.Equal(t, TimeBlock{DaypartLunch, 11, 14}, blocks[1])
	assert.Equal(t, TimeBlock{DaypartAfternoon, 14, 17}, blocks[2])
	assert.Equal(t, TimeBlock{DaypartDinner, 17, 20}, blocks[3])
	assert.Equal(t, TimeBlock{DaypartClosing, 20, 22}, blocks[4])
}

func TestBlocksClampToTradingWindow(t *testing.T) {
	// A short lunchtime-only window drops every block outside it.
	store := Store{ID: "S-02", OpenHour: 11, CloseHour: 15}

	blocks := store.Blocks()
	for _, b := range blocks {
		assert.GreaterOrEqual(t, b.StartHour, store.OpenHour)
		assert.LessOrEqual(t, b.EndHour, store.CloseHour)
		assert.Greater(t, b.EndHour, b.StartHour)
	}

	for _, b := range blocks {
		assert.NotEqual(t, DaypartDinner, b.Daypart, "dinner lies outside the trading window")
	}
}

func TestShiftCovers(t *testing.T) {
	open := Shift{Code: ShiftOpen, StartHour: 9, EndHour: 15}

	assert.True(t, open.Covers(TimeBlock{DaypartLunch, 11, 14}))
	assert.True(t, open.Covers(TimeBlock{DaypartAfternoon, 14, 17}), "partial overlap counts")
	assert.False(t, open.Covers(TimeBlock{DaypartDinner, 17, 20}))
	assert.False(t, open.Covers(TimeBlock{DaypartClosing, 15, 17}), "end hour is exclusive")
}

func TestShiftOverlaps(t *testing.T) {
	a := Shift{StartHour: 9, EndHour: 15}
	assert.True(t, a.Overlaps(Shift{StartHour: 14, EndHour: 20}))
	assert.False(t, a.Overlaps(Shift{StartHour: 15, EndHour: 22}), "back to back is not an overlap")
}

func TestStoreShifts(t *testing.T) {
	store := Store{ID: "S-01", OpenHour: 8, CloseHour: 22}

	open := store.OpeningShift()
	closing := store.ClosingShift()
	full := store.FullDayShift()

	assert.Equal(t, Shift{ShiftOpen, 8, 15}, open)
	assert.Equal(t, Shift{ShiftClose, 15, 22}, closing)
	assert.Equal(t, Shift{ShiftFull, 8, 22}, full)
	assert.Equal(t, 7.0, open.Duration())
	assert.Equal(t, 14.0, full.Duration())
}

func TestShiftForBlock(t *testing.T) {
	store := Store{ID: "S-01", OpenHour: 9, CloseHour: 21} // midpoint 15

	assert.Equal(t, ShiftOpen, store.ShiftForBlock(TimeBlock{DaypartLunch, 11, 14}).Code)
	assert.Equal(t, ShiftOpen, store.ShiftForBlock(TimeBlock{DaypartAfternoon, 14, 17}).Code)
	assert.Equal(t, ShiftClose, store.ShiftForBlock(TimeBlock{DaypartDinner, 17, 20}).Code)
}

func TestShiftAnchoring(t *testing.T) {
	date := time.Date(2025, 3, 10, 13, 45, 0, 0, time.UTC)
	s := Shift{Code: ShiftOpen, StartHour: 9, EndHour: 15}

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), s.StartTime(date))
	assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), s.EndTime(date))
}

func TestDateRange(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)

	days := DateRange(start, end)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-10", DateKey(days[0]))
	assert.Equal(t, "2025-03-12", DateKey(days[2]))
}

func TestStoreModifiers(t *testing.T) {
	suburban := Store{Type: StoreSuburban}
	mall := Store{Type: StoreMall}
	highway := Store{Type: StoreHighway}

	assert.Equal(t, 1.0, suburban.TypeModifier())
	assert.Equal(t, 1.3, mall.TypeModifier())
	assert.Equal(t, 1.5, highway.TypeModifier())

	assert.Equal(t, 1.0, suburban.DayModifier(time.Wednesday))
	assert.Equal(t, 1.2, suburban.DayModifier(time.Saturday))

	uplifted := Store{Type: StoreSuburban, WeekendUplift: 1.4}
	assert.Equal(t, 1.4, uplifted.DayModifier(time.Sunday))
}
