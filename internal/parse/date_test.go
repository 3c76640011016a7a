package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel-frontdesk-backend/internal/model"
)

func TestDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  model.Day
		expectErr bool
	}{
		{name: "Desk format", raw: "01.05.2024", expected: model.NewDay(2024, time.May, 1)},
		{name: "Single digits", raw: "1.5.2024", expected: model.NewDay(2024, time.May, 1)},
		{name: "Surrounding spaces", raw: "  05.06.2024 ", expected: model.NewDay(2024, time.June, 5)},
		{name: "ISO fallback", raw: "2024-06-04", expected: model.NewDay(2024, time.June, 4)},
		{name: "Leap day", raw: "29.02.2024", expected: model.NewDay(2024, time.February, 29)},
		{name: "Not a leap year", raw: "29.02.2023", expectErr: true},
		{name: "Day out of range", raw: "32.01.2024", expectErr: true},
		{name: "Month out of range", raw: "01.13.2024", expectErr: true},
		{name: "American order", raw: "05/01/2024", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Date(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tc.expected.Equal(d), "got %s", d)
			}
		})
	}
}

func TestUserDate_RejectsISO(t *testing.T) {
	_, err := UserDate("2024-05-01")
	assert.Error(t, err)
}

func TestOptionalDate(t *testing.T) {
	d, err := OptionalDate(" ")
	assert.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestFormatUser(t *testing.T) {
	assert.Equal(t, "04.06.2024", FormatUser(model.NewDay(2024, time.June, 4)))
	assert.Equal(t, "", FormatUser(model.Day{}))
}

func TestRoomStatus(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  model.RoomStatus
		expectErr bool
	}{
		{raw: "Free", expected: model.RoomFree},
		{raw: "needs_cleaning", expected: model.RoomNeedsCleaning},
		{raw: "Needs Repair", expected: model.RoomNeedsRepair},
		{raw: "Требуется клининг", expected: model.RoomNeedsCleaning},
		{raw: "Занят", expected: model.RoomOccupied},
		{raw: "broken", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			s, err := RoomStatus(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestFinanceKind(t *testing.T) {
	k, err := FinanceKind("Расход")
	assert.NoError(t, err)
	assert.Equal(t, model.FinanceExpense, k)

	k, err = FinanceKind("INCOME")
	assert.NoError(t, err)
	assert.Equal(t, model.FinanceIncome, k)

	_, err = FinanceKind("refund")
	assert.Error(t, err)
}
