package model

import (
	"time"
)

type PatientSex string

const (
	PatientSexMale   PatientSex = "male"
	PatientSexFemale PatientSex = "female"
	PatientSexOther  PatientSex = "other"
)

type Patient struct {
	ID             int64      `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	DOB            *time.Time `db:"dob" json:"dob"`
	Sex            *string    `db:"sex" json:"sex"`
	Email          *string    `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone"`
	Address        *string    `db:"address" json:"address"`
	MedicalHistory *string    `db:"medical_history" json:"medical_history"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// PatientRequest is used for both create and update; update replaces every field.
type PatientRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	DOB            *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Sex            *string `json:"sex" binding:"omitempty,oneof=male female other"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,in_mobile"`
	Address        *string `json:"address"`
	MedicalHistory *string `json:"medical_history"`
}

// MaxPhoneSearchResults caps the booking-form autocomplete.
const MaxPhoneSearchResults = 5
