package models

// Note represents a drafted clinical note a clinician chose to keep after
// generation. Owner-scoped like patients: cross-user reads return not found.
type Note struct {
	BaseModel
	OwnerID    string  `gorm:"size:36;index;not null" json:"ownerId"`
	PatientID  *string `gorm:"size:36;index" json:"patientId,omitempty"`
	ContextKey string  `gorm:"size:50" json:"context"`
	Title      string  `gorm:"size:255;not null" json:"title"`
	Content    string  `gorm:"type:text" json:"content"`

	// Relations
	Owner   User     `gorm:"foreignKey:OwnerID" json:"-"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
}
