package models

import (
	"time"
)

// Gender enum for patient records.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// PatientStatus enum. Deactivation is the only delete mechanism; records move
// between active and inactive and nothing is ever hard-deleted.
type PatientStatus string

const (
	PatientActive   PatientStatus = "active"
	PatientInactive PatientStatus = "inactive"
)

// Patient represents a patient record in a clinician's directory. Every query
// against this table must filter on OwnerID - a record is visible only to the
// user that created it.
type Patient struct {
	BaseModel
	OwnerID     string        `gorm:"size:36;index;not null" json:"ownerId"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	MRN         *string       `gorm:"size:100" json:"mrn,omitempty"`
	DateOfBirth *time.Time    `gorm:"type:date" json:"dateOfBirth,omitempty"`
	Gender      *Gender       `gorm:"size:20" json:"gender,omitempty"`
	Status      PatientStatus `gorm:"size:20;default:'active'" json:"status"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// Snapshot copies the patient's identifying fields into a point-in-time value
// suitable for embedding in a generation request. The generated note must
// reflect the record as the clinician saw it, not a later revision.
func (p *Patient) Snapshot() PatientSnapshot {
	snap := PatientSnapshot{
		PatientID:   p.ID,
		PatientName: p.Name,
	}
	if p.MRN != nil {
		snap.PatientMRN = *p.MRN
	}
	if p.DateOfBirth != nil {
		snap.PatientDOB = p.DateOfBirth.Format("2006-01-02")
	}
	if p.Gender != nil {
		snap.PatientGender = string(*p.Gender)
	}
	return snap
}

// PatientSnapshot is the point-in-time copy of patient data attached to a
// note-generation request. It is a value, never a live reference.
type PatientSnapshot struct {
	PatientID     string `json:"patientId"`
	PatientName   string `json:"patientName"`
	PatientMRN    string `json:"patientMRN,omitempty"`
	PatientDOB    string `json:"patientDOB,omitempty"`
	PatientGender string `json:"patientGender,omitempty"`
}
