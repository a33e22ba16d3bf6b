package model

import "charter/shared/model"

const (
	PassengerTableName  = "passengers"
	PassengerEntityName = "passenger"

	FieldBookingID = "booking_id"
)

type Passenger struct {
	ID          string `db:"id"`
	BookingID   string `db:"booking_id"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Phone       string `db:"phone"`
	Gender      string `db:"gender"`
	DOB         string `db:"dob"`
	Nationality string `db:"nationality"`
	IDType      string `db:"id_type"`
	IDNumber    string `db:"id_number"`
	model.Metadata
}

func (p Passenger) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}

	return p.FirstName + " " + p.LastName
}
