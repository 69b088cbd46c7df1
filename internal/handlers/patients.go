package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"clinical-scribe-server/internal/directory"
	"clinical-scribe-server/internal/middleware"
	"clinical-scribe-server/internal/models"
	"clinical-scribe-server/internal/utils"
)

// PatientHandler exposes the patient directory over HTTP. Every operation is
// scoped to the authenticated user; other users' records behave as if they
// do not exist.
type PatientHandler struct {
	Directory *directory.Service
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(svc *directory.Service) *PatientHandler {
	return &PatientHandler{Directory: svc}
}

// CreatePatient handles creating a new patient record for the current user.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req directory.CreatePatientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	patient, err := h.Directory.CreatePatient(ownerID, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatient handles fetching a single patient record by id.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := h.Directory.GetPatient(ownerID, c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient fetched successfully", patient)
}

// GetPatients handles listing the current user's patients with optional
// status filter, sorting, and substring search.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	status := c.Query("status")
	if status != "" && status != string(models.PatientActive) && status != string(models.PatientInactive) {
		utils.BadRequest(c, "status must be 'active' or 'inactive'")
		return
	}

	filter := directory.ListFilter{
		Status:    models.PatientStatus(status),
		SortBy:    c.DefaultQuery("sortBy", "name"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
		Search:    c.Query("search"),
	}

	patients, err := h.Directory.GetPatients(ownerID, filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// UpdatePatient handles a partial update of a patient record. Omitted fields
// are left unchanged; explicit nulls clear optional fields.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req directory.UpdatePatientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	patient, err := h.Directory.UpdatePatient(ownerID, c.Param("id"), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeactivatePatient handles soft-deleting a patient record.
func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := h.Directory.DeactivatePatient(ownerID, c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient deactivated successfully", patient)
}

// ReactivatePatient handles restoring a deactivated patient record.
func (h *PatientHandler) ReactivatePatient(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := h.Directory.ReactivatePatient(ownerID, c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patient reactivated successfully", patient)
}

// SearchPatients handles a quick name/MRN lookup, capped at the requested
// number of results (default 10).
func (h *PatientHandler) SearchPatients(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			utils.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	patients, err := h.Directory.SearchPatients(ownerID, c.Query("q"), limit)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// respondServiceError maps directory errors to HTTP responses. Cross-owner
// access surfaces as not found, never as forbidden.
func (h *PatientHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		utils.NotFound(c, "Patient not found")
	case errors.Is(err, directory.ErrNameRequired),
		errors.Is(err, directory.ErrInvalidDate),
		errors.Is(err, directory.ErrInvalidGender):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}
