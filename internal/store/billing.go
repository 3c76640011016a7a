package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

func (s *gormStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	return wrap("create payment", s.q(ctx).Create(p).Error)
}

func (s *gormStore) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	if err := s.q(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("get payment", err)
	}
	return &p, nil
}

func (s *gormStore) ListPayments(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	var out []model.Payment
	err := s.q(ctx).Where("reservation_id = ?", reservationID).Order("payment_date").Order("id").Find(&out).Error
	return out, wrap("list payments", err)
}

func (s *gormStore) DeletePayment(ctx context.Context, id int64) error {
	res := s.q(ctx).Delete(&model.Payment{}, id)
	if res.Error != nil {
		return wrap("delete payment", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete payment", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *gormStore) CreateFinance(ctx context.Context, f *model.FinanceRecord) error {
	return wrap("create finance record", s.q(ctx).Create(f).Error)
}

func (s *gormStore) GetFinance(ctx context.Context, id int64) (*model.FinanceRecord, error) {
	var f model.FinanceRecord
	if err := s.q(ctx).First(&f, id).Error; err != nil {
		return nil, wrap("get finance record", err)
	}
	return &f, nil
}

// UpdateFinance rewrites kind, amount, date and description of a record.
func (s *gormStore) UpdateFinance(ctx context.Context, f *model.FinanceRecord) error {
	res := s.q(ctx).Model(&model.FinanceRecord{}).Where("id = ?", f.ID).Updates(map[string]any{
		"type":        f.Kind,
		"amount":      f.Amount,
		"date":        f.Date,
		"description": f.Description,
	})
	if res.Error != nil {
		return wrap("update finance record", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetFinance(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *gormStore) DeleteFinance(ctx context.Context, id int64) error {
	res := s.q(ctx).Delete(&model.FinanceRecord{}, id)
	if res.Error != nil {
		return wrap("delete finance record", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete finance record", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteFinanceForPayment removes the income row linked to p. Rows written
// before the payment_id link existed are matched on their linkage
// description and amount instead; at most one such row is removed.
func (s *gormStore) DeleteFinanceForPayment(ctx context.Context, p model.Payment, legacyDescription string) (int64, error) {
	res := s.q(ctx).Where("payment_id = ?", p.ID).Delete(&model.FinanceRecord{})
	if res.Error != nil {
		return 0, wrap("delete payment finance record", res.Error)
	}
	if res.RowsAffected > 0 || legacyDescription == "" {
		return res.RowsAffected, nil
	}

	var legacy model.FinanceRecord
	err := s.q(ctx).
		Where("payment_id IS NULL AND type = ? AND description = ? AND amount = ?",
			model.FinanceIncome, legacyDescription, p.Amount).
		Order("id").First(&legacy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, wrap("delete payment finance record", err)
	}
	res = s.q(ctx).Delete(&legacy)
	return res.RowsAffected, wrap("delete payment finance record", res.Error)
}

func (s *gormStore) ListFinances(ctx context.Context, f FinanceFilter) ([]model.FinanceRecord, error) {
	q := s.q(ctx)
	if f.Kind != "" {
		q = q.Where("type = ?", f.Kind)
	}
	q = applyRange(q, "date", f.Range)
	if d := strings.TrimSpace(f.Description); d != "" {
		q = q.Where("description LIKE ?", "%"+d+"%")
	}
	if f.Amount != nil {
		q = q.Where("amount = ?", *f.Amount)
	}
	var out []model.FinanceRecord
	err := q.Order("date DESC").Order("id DESC").Find(&out).Error
	return out, wrap("list finance records", err)
}

// SumFinances totals income and expense over r. An empty ledger sums to zero.
func (s *gormStore) SumFinances(ctx context.Context, r DateRange) (FinanceTotals, error) {
	var rows []struct {
		Kind  model.FinanceKind
		Total float64
	}
	q := applyRange(s.q(ctx).Model(&model.FinanceRecord{}), "date", r)
	err := q.Select("type AS kind, COALESCE(SUM(amount), 0) AS total").Group("type").Scan(&rows).Error
	if err != nil {
		return FinanceTotals{}, wrap("sum finances", err)
	}
	var totals FinanceTotals
	for _, row := range rows {
		switch row.Kind {
		case model.FinanceIncome:
			totals.Income = row.Total
		case model.FinanceExpense:
			totals.Expense = row.Total
		}
	}
	return totals, nil
}

// ClearFinances deletes every payment and finance record.
func (s *gormStore) ClearFinances(ctx context.Context) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.FinanceRecord{}).Error; err != nil {
			return wrap("clear finances", err)
		}
		return wrap("clear payments", tx.Where("1 = 1").Delete(&model.Payment{}).Error)
	})
}

// TopClients ranks clients by money received from them: payments on their
// reservations (split evenly between co-occupants) plus manual client spend.
func (s *gormStore) TopClients(ctx context.Context, limit int) ([]ClientSpend, error) {
	type row struct {
		ClientID int64
		Total    float64
	}
	var paid []row
	err := s.q(ctx).Raw(`
SELECT ro.client_id AS client_id, SUM(p.amount / oc.n) AS total
FROM payments p
JOIN reservation_occupants ro ON ro.reservation_id = p.reservation_id
JOIN (SELECT reservation_id, COUNT(*) AS n FROM reservation_occupants GROUP BY reservation_id) oc
  ON oc.reservation_id = p.reservation_id
GROUP BY ro.client_id`).Scan(&paid).Error
	if err != nil {
		return nil, wrap("top clients", err)
	}
	var manual []row
	err = s.q(ctx).Model(&model.FinanceRecord{}).
		Select("client_id, SUM(amount) AS total").
		Where("type = ? AND client_id IS NOT NULL", model.FinanceIncome).
		Group("client_id").Scan(&manual).Error
	if err != nil {
		return nil, wrap("top clients", err)
	}

	totals := make(map[int64]float64)
	for _, r := range append(paid, manual...) {
		totals[r.ClientID] += r.Total
	}
	if len(totals) == 0 {
		return []ClientSpend{}, nil
	}
	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	var clients []model.Client
	if err := s.q(ctx).Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, wrap("top clients", err)
	}

	out := make([]ClientSpend, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientSpend{ClientID: c.ID, ClientName: c.FullName, Total: totals[c.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ClientID < out[j].ClientID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopRooms ranks rooms by payment income.
func (s *gormStore) TopRooms(ctx context.Context, limit int) ([]RoomIncome, error) {
	var out []RoomIncome
	q := s.q(ctx).Table("payments AS p").
		Select("r.id AS room_id, r.room_number AS room_number, SUM(p.amount) AS total").
		Joins("JOIN reservations res ON res.id = p.reservation_id").
		Joins("JOIN rooms r ON r.id = res.room_id").
		Group("r.id, r.room_number").
		Order("total DESC").Order("r.id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, wrap("top rooms", err)
	}
	if out == nil {
		out = []RoomIncome{}
	}
	return out, nil
}

func applyRange(q *gorm.DB, column string, r DateRange) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where(column+" <= ?", r.To)
	}
	return q
}
