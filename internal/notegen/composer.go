package notegen

import (
	"strings"

	"clinical-scribe-server/internal/models"
)

// Compose builds the full prompt for the external generator. It is a pure
// function: template by context key (unknown keys fall back to the
// transfer-of-care template), then the verbatim transcript, then a patient
// block when a snapshot is attached, then - only for the transfer-of-care
// context - the previous note, then the fixed closing instruction.
func Compose(contextKey, transcript, previousNote string, patient *models.PatientSnapshot) string {
	var b strings.Builder

	b.WriteString(Template(contextKey))

	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)

	if patient != nil {
		b.WriteString("\n\nPatient information:\n")
		b.WriteString(patientBlock(patient))
	}

	// The previous note is meaningful only when care is being transferred.
	// For every other context it is ignored even when supplied.
	if contextKey == ContextIMCTransfer && strings.TrimSpace(previousNote) != "" {
		b.WriteString("\n\nPrevious note:\n")
		b.WriteString(previousNote)
	}

	b.WriteString("\n\n")
	b.WriteString(closingInstruction)

	return b.String()
}

// patientBlock renders the snapshot one line per present field. Absent
// optional fields are omitted entirely, never rendered as empty lines.
func patientBlock(patient *models.PatientSnapshot) string {
	var lines []string
	lines = append(lines, "Name: "+patient.PatientName)
	if patient.PatientMRN != "" {
		lines = append(lines, "MRN: "+patient.PatientMRN)
	}
	if patient.PatientDOB != "" {
		lines = append(lines, "Date of birth: "+patient.PatientDOB)
	}
	if patient.PatientGender != "" {
		lines = append(lines, "Gender: "+patient.PatientGender)
	}
	return strings.Join(lines, "\n")
}
