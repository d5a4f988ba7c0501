package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/question-extractor/internal/export"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/services"
	"github.com/SAP-F-2025/question-extractor/internal/utils"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/gin-gonic/gin"
)

// ===== REQUEST STRUCTURES =====

type SetTextRequest struct {
	Text string `json:"text"`
}

type SetAnswerRequest struct {
	Letter string `json:"letter" validate:"required"`
}

// AutofillRequest fills a session from fragments, or from raw text that is
// classified first.
type AutofillRequest struct {
	Fragments []models.Fragment `json:"fragments" validate:"omitempty,dive"`
	Text      string            `json:"text"`
	Strategy  string            `json:"strategy" validate:"omitempty,classifier_strategy"`
}

type SessionHandler struct {
	BaseHandler
	sessionService    services.SessionService
	extractionService services.ExtractionService
	validator         *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	extractionService services.ExtractionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:       NewBaseHandler(logger),
		sessionService:    sessionService,
		extractionService: extractionService,
		validator:         validator,
	}
}

func (h *SessionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return false
	}
	return true
}

// CreateSession starts an empty editing session
// @Summary Create session
// @Tags sessions
// @Produce json
// @Success 201 {object} services.SessionView
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	h.LogRequest(c, "Creating session")

	session, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions lists open sessions
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} services.SessionSummary
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession returns the draft and committed questions of a session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession discards a session
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting session", "session_id", id)

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStem replaces the draft stem
// @Summary Set stem
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SetTextRequest true "Stem text"
// @Success 200 {object} services.SessionView
// @Router /sessions/{id}/stem [put]
func (h *SessionHandler) SetStem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SetTextRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.sessionService.SetStem(c.Request.Context(), id, req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SetOption replaces the text of one option slot
// @Summary Set option
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param letter path string true "Option letter A-D"
// @Param body body SetTextRequest true "Option text"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/options/{letter} [put]
func (h *SessionHandler) SetOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SetTextRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.sessionService.SetOption(c.Request.Context(), id, c.Param("letter"), req.Text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SetAnswer selects the correct option
// @Summary Set answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SetAnswerRequest true "Answer letter"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/answer [put]
func (h *SessionHandler) SetAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SetAnswerRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.sessionService.SetAnswer(c.Request.Context(), id, req.Letter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// AssignFragment copies a fragment's text into the stem or an option slot
// @Summary Assign fragment
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body services.AssignRequest true "Fragment and target"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/assign [post]
func (h *SessionHandler) AssignFragment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, err := h.sessionService.Assign(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ResetDraft clears the draft without touching committed questions
// @Summary Reset draft
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) ResetDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	session, err := h.sessionService.ResetDraft(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CanCommit reports whether the draft is complete
// @Summary Check draft
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.CommitStatus
// @Router /sessions/{id}/can-commit [get]
func (h *SessionHandler) CanCommit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	status, err := h.sessionService.CanCommit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Commit records the draft as the next question
// @Summary Commit draft
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} models.QuestionRecord
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/commit [post]
func (h *SessionHandler) Commit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Committing question", "session_id", id)

	record, err := h.sessionService.Commit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Autofill walks classified fragments and commits every complete question
// @Summary Autofill session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body AutofillRequest true "Fragments or text"
// @Success 200 {object} assembly.AutofillReport
// @Router /sessions/{id}/autofill [post]
func (h *SessionHandler) Autofill(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req AutofillRequest
	if !h.bind(c, &req) {
		return
	}

	fragments := req.Fragments
	if len(fragments) == 0 && strings.TrimSpace(req.Text) != "" {
		strategy, ok := parseStrategy(c, req.Strategy)
		if !ok {
			return
		}
		classified, err := h.extractionService.ClassifyText(c.Request.Context(), req.Text, strategy)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		fragments = classified
	}

	report, err := h.sessionService.Autofill(c.Request.Context(), id, fragments)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Export downloads the committed questions and a complete draft
// @Summary Export questions
// @Tags sessions
// @Produce application/json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Param format query string false "json (default), csv or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	artifact, err := h.sessionService.Export(c.Request.Context(), id, parseFormat(c.Query("format")))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// Import appends questions from a previously exported file
// @Summary Import questions
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "questions.json, questions.csv or questions.xlsx"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "A record has a blank stem or option"
// @Router /sessions/{id}/import [post]
func (h *SessionHandler) Import(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "File too large",
		})
		return
	}

	format, err := export.FormatFromFilename(header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to open upload", err)
		return
	}
	defer file.Close()

	session, err := h.sessionService.Import(c.Request.Context(), id, file, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
