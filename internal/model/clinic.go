package model

// ClinicLocation is a physical site appointments are booked at.
type ClinicLocation struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
