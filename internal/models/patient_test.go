package models

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestSnapshotCopiesPresentFields(t *testing.T) {
	mrn := "ABC-100"
	dob := time.Date(1980, 4, 2, 0, 0, 0, 0, time.UTC)
	gender := GenderFemale

	patient := Patient{
		Name:        "Jane Doe",
		MRN:         &mrn,
		DateOfBirth: &dob,
		Gender:      &gender,
	}
	patient.ID = "p1"

	snap := patient.Snapshot()
	assert.Equal(t, snap.PatientID, "p1")
	assert.Equal(t, snap.PatientName, "Jane Doe")
	assert.Equal(t, snap.PatientMRN, "ABC-100")
	assert.Equal(t, snap.PatientDOB, "1980-04-02")
	assert.Equal(t, snap.PatientGender, "female")
}

func TestSnapshotLeavesAbsentFieldsEmpty(t *testing.T) {
	patient := Patient{Name: "Jane Doe"}
	patient.ID = "p1"

	snap := patient.Snapshot()
	assert.Equal(t, snap.PatientMRN, "")
	assert.Equal(t, snap.PatientDOB, "")
	assert.Equal(t, snap.PatientGender, "")
}

func TestSnapshotIsAValueNotAReference(t *testing.T) {
	mrn := "ABC-100"
	patient := Patient{Name: "Jane Doe", MRN: &mrn}
	patient.ID = "p1"

	snap := patient.Snapshot()

	// Later edits to the record must not bleed into an existing snapshot.
	patient.Name = "Renamed"
	mrn = "CHANGED"

	assert.Equal(t, snap.PatientName, "Jane Doe")
	assert.Equal(t, snap.PatientMRN, "ABC-100")
}
