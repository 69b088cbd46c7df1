package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinical-scribe-server/internal/config"
	"clinical-scribe-server/internal/llm"
	"clinical-scribe-server/internal/middleware"
	"clinical-scribe-server/internal/models"
	"clinical-scribe-server/internal/notegen"
	"clinical-scribe-server/internal/utils"
)

// NoteHandler handles note generation and saved drafted notes.
type NoteHandler struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Generator llm.Generator
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(db *gorm.DB, cfg *config.Config, generator llm.Generator) *NoteHandler {
	return &NoteHandler{DB: db, Cfg: cfg, Generator: generator}
}

// GenerateNoteRequest is the body of POST /notes/generate. The patient
// context, when present, is a point-in-time snapshot captured by the client
// at request time - it is never re-resolved against the directory.
type GenerateNoteRequest struct {
	Transcript     string                  `json:"transcript"`
	Context        string                  `json:"context"`
	PreviousNote   string                  `json:"previousNote"`
	PatientContext *models.PatientSnapshot `json:"patientContext"`
}

// GenerateNoteResponse echoes the patient snapshot (or null) alongside the
// drafted note.
type GenerateNoteResponse struct {
	Note           string                  `json:"note"`
	PatientContext *models.PatientSnapshot `json:"patientContext"`
}

// GenerateNote validates the request, composes the prompt, and calls the
// external generator once. Validation failures are 400s naming the field;
// a missing service credential is a distinct 500 so operators can tell a bad
// request from a misconfigured server.
func (h *NoteHandler) GenerateNote(c *gin.Context) {
	var req GenerateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Transcript) == "" {
		utils.BadRequest(c, "transcript is required")
		return
	}

	if h.Cfg.OpenAI.APIKey == "" {
		utils.InternalServerError(c, "Note generation service is not configured")
		return
	}

	prompt := notegen.Compose(req.Context, req.Transcript, req.PreviousNote, req.PatientContext)

	note, err := h.Generator.GenerateNote(c.Request.Context(), prompt)
	if err != nil {
		// The underlying error stays server-side; the client gets a generic
		// message with none of the request content echoed back.
		log.Printf("note generation failed: %v", err)
		utils.InternalServerError(c, "Failed to generate note")
		return
	}

	c.JSON(http.StatusOK, GenerateNoteResponse{
		Note:           note,
		PatientContext: req.PatientContext,
	})
}

// SaveNoteRequest is the body for saving a drafted note.
type SaveNoteRequest struct {
	Title     string  `json:"title" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	Context   string  `json:"context"`
	PatientID *string `json:"patientId"`
}

// SaveNote persists a drafted note for the current user.
func (h *NoteHandler) SaveNote(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SaveNoteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	note := models.Note{
		OwnerID:    ownerID,
		PatientID:  req.PatientID,
		ContextKey: req.Context,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
	}
	if note.Title == "" {
		utils.BadRequest(c, "title is required")
		return
	}

	if err := h.DB.Create(&note).Error; err != nil {
		utils.InternalServerError(c, "Failed to save note: "+err.Error())
		return
	}

	utils.Created(c, "Note saved successfully", note)
}

// GetNotes lists the current user's saved notes, newest first.
func (h *NoteHandler) GetNotes(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Where("owner_id = ?", ownerID)
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var notes []models.Note
	if err := query.Order("created_at desc").Find(&notes).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch notes: "+err.Error())
		return
	}

	utils.Success(c, "Notes fetched successfully", notes)
}

// GetNote fetches a single saved note. Cross-owner access reads as not found.
func (h *NoteHandler) GetNote(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var note models.Note
	if err := h.DB.Where("id = ? AND owner_id = ?", c.Param("id"), ownerID).First(&note).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Note not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Note fetched successfully", note)
}

// DeleteNote removes a saved note. Unlike patients, drafts have no lifecycle
// to preserve, so this is a hard delete.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	ownerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	result := h.DB.Where("id = ? AND owner_id = ?", c.Param("id"), ownerID).Delete(&models.Note{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete note: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Note not found")
		return
	}

	utils.Success(c, "Note deleted successfully", nil)
}

// GetContexts returns the enumerated context keys so the UI can populate its
// template picker without hardcoding them.
func (h *NoteHandler) GetContexts(c *gin.Context) {
	utils.Success(c, "Contexts fetched successfully", notegen.ContextKeys())
}
