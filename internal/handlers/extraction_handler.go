package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/services"
	"github.com/SAP-F-2025/question-extractor/internal/source"
	"github.com/SAP-F-2025/question-extractor/internal/utils"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds the text documents accepted by the upload endpoint.
const maxUploadSize = 10 << 20

// ExtractRequest carries a document either as raw text, where pages are
// separated by form feeds, or as explicit per-page results from an
// upstream text extractor.
type ExtractRequest struct {
	DocumentID string            `json:"document_id"`
	Strategy   string            `json:"strategy" validate:"omitempty,classifier_strategy"`
	Text       string            `json:"text"`
	Pages      []models.PageText `json:"pages"`
}

type ExtractionHandler struct {
	BaseHandler
	extractionService services.ExtractionService
	validator         *validator.Validator
}

func NewExtractionHandler(
	extractionService services.ExtractionService,
	validator *validator.Validator,
	logger utils.Logger,
) *ExtractionHandler {
	return &ExtractionHandler{
		BaseHandler:       NewBaseHandler(logger),
		extractionService: extractionService,
		validator:         validator,
	}
}

// Extract classifies a document into fragments
// @Summary Classify document
// @Description Splits document text into question, option, answer, explanation and plain fragments
// @Tags extractions
// @Accept json
// @Produce json
// @Param document body ExtractRequest true "Document text or pages"
// @Success 200 {object} models.ExtractionResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	h.LogRequest(c, "Classifying document")

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	strategy, ok := parseStrategy(c, req.Strategy)
	if !ok {
		return
	}

	// Empty text is a single empty page and classifies to no fragments.
	var doc source.Document = source.NewTextDocument(req.Text)
	if len(req.Pages) > 0 {
		doc = source.NewPagesDocument(req.Pages)
	}

	result, err := h.extractionService.Extract(c.Request.Context(), req.DocumentID, doc, strategy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload classifies an uploaded plain-text document
// @Summary Classify uploaded document
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Text document, pages separated by form feeds"
// @Param strategy formData string false "block or line"
// @Success 200 {object} models.ExtractionResult
// @Failure 400 {object} ErrorResponse
// @Router /extractions/upload [post]
func (h *ExtractionHandler) Upload(c *gin.Context) {
	h.LogRequest(c, "Classifying uploaded document")

	strategy, ok := parseStrategy(c, c.PostForm("strategy"))
	if !ok {
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

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to open upload", err)
		return
	}
	defer file.Close()

	doc, err := source.ReadTextDocument(file)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read upload", err, err.Error())
		return
	}

	result, err := h.extractionService.Extract(c.Request.Context(), header.Filename, doc, strategy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PurgeCache drops every cached page classification
// @Summary Purge classification cache
// @Tags extractions
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /extractions/cache [delete]
func (h *ExtractionHandler) PurgeCache(c *gin.Context) {
	h.LogRequest(c, "Purging classification cache")

	if err := h.extractionService.PurgeCache(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Classification cache purged", nil)
}
