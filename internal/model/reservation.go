package model

import "time"

// Reservation books one room for the half-open day interval [CheckinDate, CheckoutDate)
// for a set of occupants. TotalPrice is computed once at creation and frozen.
type Reservation struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Reference    string    `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	RoomID       int64     `gorm:"not null;index:idx_reservations_room_dates,priority:1" json:"roomId"`
	CheckinDate  Day       `gorm:"size:10;not null;index:idx_reservations_room_dates,priority:2" json:"checkinDate"`
	CheckoutDate Day       `gorm:"size:10;not null;index:idx_reservations_room_dates,priority:3" json:"checkoutDate"`
	TotalPrice   float64   `gorm:"not null" json:"totalPrice"`
	CreatedAt    time.Time `json:"createdAt"`

	// Associations
	Room      *Room                 `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	Occupants []ReservationOccupant `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"occupants,omitempty"`
}

// Nights is the number of billable nights.
func (r Reservation) Nights() int {
	return r.CheckinDate.DaysUntil(r.CheckoutDate)
}

// Overlaps reports whether r intersects the half-open interval [checkin, checkout).
// Touching boundaries (one checkout equal to the other checkin) do not overlap.
func (r Reservation) Overlaps(checkin, checkout Day) bool {
	return r.CheckinDate.Before(checkout) && checkin.Before(r.CheckoutDate)
}

// OccupantIDs lists the client ids bound to the reservation.
func (r Reservation) OccupantIDs() []int64 {
	ids := make([]int64, 0, len(r.Occupants))
	for _, o := range r.Occupants {
		ids = append(ids, o.ClientID)
	}
	return ids
}

// ReservationOccupant binds one client to a reservation.
type ReservationOccupant struct {
	ReservationID int64 `gorm:"primaryKey;autoIncrement:false" json:"reservationId"`
	ClientID      int64 `gorm:"primaryKey;autoIncrement:false;index" json:"clientId"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
}
