package parse

import (
	"fmt"
	"strings"

	"hotel-frontdesk-backend/internal/model"
)

// Legacy desk labels are still typed by operators and found in imported data.
var roomStatusLabels = map[string]model.RoomStatus{
	"free":              model.RoomFree,
	"needscleaning":     model.RoomNeedsCleaning,
	"needsrepair":       model.RoomNeedsRepair,
	"occupied":          model.RoomOccupied,
	"свободен":          model.RoomFree,
	"требуется клининг": model.RoomNeedsCleaning,
	"требуется ремонт":  model.RoomNeedsRepair,
	"занят":             model.RoomOccupied,
}

var financeKindLabels = map[string]model.FinanceKind{
	"income":  model.FinanceIncome,
	"expense": model.FinanceExpense,
	"доход":   model.FinanceIncome,
	"расход":  model.FinanceExpense,
}

// RoomStatus maps an operator-entered label to a RoomStatus.
func RoomStatus(raw string) (model.RoomStatus, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", "", "-", "").Replace(key)
	if s, ok := roomStatusLabels[key]; ok {
		return s, nil
	}
	// Labels with spaces ("needs cleaning") collapse to the English key.
	if s, ok := roomStatusLabels[strings.ReplaceAll(key, " ", "")]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown room status %q", raw)
}

// FinanceKind maps an operator-entered label to a FinanceKind.
func FinanceKind(raw string) (model.FinanceKind, error) {
	if k, ok := financeKindLabels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown finance kind %q", raw)
}
