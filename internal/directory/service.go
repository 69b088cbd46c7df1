package directory

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"clinical-scribe-server/internal/models"
)

// Service errors. ErrNotFound covers both missing records and records owned
// by another user - cross-user access must not be distinguishable from a
// record that does not exist.
var (
	ErrNotFound      = errors.New("patient not found")
	ErrNameRequired  = errors.New("patient name is required")
	ErrInvalidDate   = errors.New("date of birth must be in YYYY-MM-DD format")
	ErrInvalidGender = errors.New("invalid gender value")
)

const dateLayout = "2006-01-02"

// Service implements the patient directory: CRUD plus filtered listing over
// patient records, always parameterized by the owning user's id.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new directory Service.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// CreatePatientInput carries the fields accepted on creation. Optional fields
// left empty (after trimming) are not stored at all.
type CreatePatientInput struct {
	Name        string `json:"name" binding:"required"`
	MRN         string `json:"mrn"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
}

// CreatePatient stores a new patient record owned by ownerID. The name is
// trimmed and required; optional fields are kept only if non-empty after
// trimming, never as empty-string placeholders.
func (s *Service) CreatePatient(ownerID string, input CreatePatientInput) (*models.Patient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	patient := models.Patient{
		OwnerID: ownerID,
		Name:    name,
		Status:  models.PatientActive,
	}

	if mrn := strings.TrimSpace(input.MRN); mrn != "" {
		patient.MRN = &mrn
	}
	if dobStr := strings.TrimSpace(input.DateOfBirth); dobStr != "" {
		dob, err := time.Parse(dateLayout, dobStr)
		if err != nil {
			return nil, ErrInvalidDate
		}
		patient.DateOfBirth = &dob
	}
	if genderStr := strings.TrimSpace(input.Gender); genderStr != "" {
		gender, err := parseGender(genderStr)
		if err != nil {
			return nil, err
		}
		patient.Gender = &gender
	}

	if err := s.DB.Create(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// GetPatient returns the record only if it is owned by ownerID; otherwise it
// reports ErrNotFound, never a forbidden error.
func (s *Service) GetPatient(ownerID, id string) (*models.Patient, error) {
	var patient models.Patient
	err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// ListFilter controls GetPatients. Zero values mean "no constraint"; SortBy
// defaults to name ascending.
type ListFilter struct {
	Status    models.PatientStatus
	SortBy    string // one of "name", "createdAt", "updatedAt"
	SortOrder string // "asc" or "desc"
	Search    string // case-insensitive substring over name and MRN
}

// sortColumns maps API sort keys to store columns.
var sortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// GetPatients lists the owner's patients. The status filter and sort happen
// in the store query; the substring search is applied in-process afterwards.
func (s *Service) GetPatients(ownerID string, filter ListFilter) ([]models.Patient, error) {
	query := s.DB.Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	order := "asc"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "desc"
	}

	var patients []models.Patient
	if err := query.Order(column + " " + order).Find(&patients).Error; err != nil {
		return nil, err
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		patients = filterByTerm(patients, term, len(patients))
	}
	return patients, nil
}

// UpdatePatientInput carries a partial update. A field that is absent from
// the JSON body is left unchanged; an explicit null clears it. Name can never
// be cleared.
type UpdatePatientInput struct {
	Name        Optional[string] `json:"name"`
	MRN         Optional[string] `json:"mrn"`
	DateOfBirth Optional[string] `json:"dateOfBirth"`
	Gender      Optional[string] `json:"gender"`
}

// UpdatePatient merges the provided fields into the owner's record and
// returns the updated record.
func (s *Service) UpdatePatient(ownerID, id string, input UpdatePatientInput) (*models.Patient, error) {
	patient, err := s.GetPatient(ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if input.Name.Present {
		if input.Name.Value == nil {
			return nil, ErrNameRequired
		}
		name := strings.TrimSpace(*input.Name.Value)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}

	if input.MRN.Present {
		if input.MRN.Value == nil || strings.TrimSpace(*input.MRN.Value) == "" {
			updates["mrn"] = nil
		} else {
			updates["mrn"] = strings.TrimSpace(*input.MRN.Value)
		}
	}

	if input.DateOfBirth.Present {
		if input.DateOfBirth.Value == nil || strings.TrimSpace(*input.DateOfBirth.Value) == "" {
			updates["date_of_birth"] = nil
		} else {
			dob, err := time.Parse(dateLayout, strings.TrimSpace(*input.DateOfBirth.Value))
			if err != nil {
				return nil, ErrInvalidDate
			}
			updates["date_of_birth"] = dob
		}
	}

	if input.Gender.Present {
		if input.Gender.Value == nil || strings.TrimSpace(*input.Gender.Value) == "" {
			updates["gender"] = nil
		} else {
			gender, err := parseGender(strings.TrimSpace(*input.Gender.Value))
			if err != nil {
				return nil, err
			}
			updates["gender"] = gender
		}
	}

	if len(updates) > 0 {
		if err := s.DB.Model(patient).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetPatient(ownerID, id)
}

// DeactivatePatient marks the record inactive. This is the only delete
// mechanism; no hard delete exists.
func (s *Service) DeactivatePatient(ownerID, id string) (*models.Patient, error) {
	return s.setStatus(ownerID, id, models.PatientInactive)
}

// ReactivatePatient marks the record active again.
func (s *Service) ReactivatePatient(ownerID, id string) (*models.Patient, error) {
	return s.setStatus(ownerID, id, models.PatientActive)
}

func (s *Service) setStatus(ownerID, id string, status models.PatientStatus) (*models.Patient, error) {
	patient, err := s.GetPatient(ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(patient).Update("status", status).Error; err != nil {
		return nil, err
	}
	patient.Status = status
	return patient, nil
}

// SearchPatients returns up to maxResults of the owner's patients whose name
// or MRN contains term (case-insensitive). A non-positive maxResults means
// no limit.
func (s *Service) SearchPatients(ownerID, term string, maxResults int) ([]models.Patient, error) {
	var patients []models.Patient
	if err := s.DB.Where("owner_id = ?", ownerID).Order("name asc").Find(&patients).Error; err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = len(patients)
	}
	return filterByTerm(patients, strings.TrimSpace(term), maxResults), nil
}

// filterByTerm keeps patients whose name or MRN contains term,
// case-insensitively, up to limit entries. An empty term matches everything.
func filterByTerm(patients []models.Patient, term string, limit int) []models.Patient {
	lowered := strings.ToLower(term)
	matched := make([]models.Patient, 0, len(patients))
	for _, p := range patients {
		if len(matched) >= limit {
			break
		}
		if lowered == "" ||
			strings.Contains(strings.ToLower(p.Name), lowered) ||
			(p.MRN != nil && strings.Contains(strings.ToLower(*p.MRN), lowered)) {
			matched = append(matched, p)
		}
	}
	return matched
}

func parseGender(value string) (models.Gender, error) {
	switch models.Gender(strings.ToLower(value)) {
	case models.GenderMale:
		return models.GenderMale, nil
	case models.GenderFemale:
		return models.GenderFemale, nil
	case models.GenderOther:
		return models.GenderOther, nil
	case models.GenderPreferNotToSay:
		return models.GenderPreferNotToSay, nil
	default:
		return "", ErrInvalidGender
	}
}
