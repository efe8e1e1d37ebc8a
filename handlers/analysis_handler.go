package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taxdefense-backend/logger"
	"taxdefense-backend/models"
	"taxdefense-backend/service"
	"taxdefense-backend/storage"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "InterpretadorDefesa"
	ServiceVersion = "1.0.0"
)

var errStoreDisabled = errors.New("document_key given but no document store is configured")

// AnalysisHandler handles HTTP requests for defense document analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	documents       storage.Storage
}

// NewAnalysisHandler creates a new analysis handler. documents may be nil when
// no document store is configured.
func NewAnalysisHandler(analysisService *service.AnalysisService, documents storage.Storage) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		documents:       documents,
	}
}

// Home handles GET /
func (h *AnalysisHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":               ServiceName,
		"version":               ServiceVersion,
		"status":                "online",
		"credential_configured": h.analysisService.CredentialConfigured(),
	})
}

// Health handles GET /health
func (h *AnalysisHandler) Health(c *gin.Context) {
	credentialStatus := "not_configured"
	if h.analysisService.CredentialConfigured() {
		credentialStatus = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service":           ServiceName,
		"credential_status": credentialStatus,
	})
}

// Analyze handles POST /analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var sub models.CaseSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if strings.TrimSpace(sub.ProcessID) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "process_id is required")
		return
	}
	if sub.FineAmount.IsNegative() {
		respondError(c, http.StatusBadRequest, "INVALID_FINE_AMOUNT", "fine_amount must not be negative")
		return
	}
	if !sub.HasDocument() {
		respondError(c, http.StatusBadRequest, "MISSING_DOCUMENT", "Either document_text or document_key is required")
		return
	}

	ctx := c.Request.Context()

	if sub.DocumentText == "" {
		// No credential means no external access at all, the store included
		if err := h.analysisService.CheckConfigured(); err != nil {
			respondAnalysisError(c, err)
			return
		}
		text, err := h.resolveDocument(ctx, sub.DocumentKey)
		if err != nil {
			respondDocumentError(c, err)
			return
		}
		sub.DocumentText = text
	}

	result, err := h.analysisService.Analyze(ctx, service.AnalyzeRequest{Submission: sub})
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Analysis)
}

// SelfTest handles POST /self-test
func (h *AnalysisHandler) SelfTest(c *gin.Context) {
	result, err := h.analysisService.SelfTest(c.Request.Context())
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Analysis)
}

func (h *AnalysisHandler) resolveDocument(ctx context.Context, key string) (string, error) {
	if h.documents == nil {
		return "", errStoreDisabled
	}
	text, err := storage.ReadText(ctx, h.documents, key)
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).Debug("Document resolved from store", "document_key", key, "bytes", len(text))
	return text, nil
}

// StatusForKind maps an analysis error kind to its HTTP status
func StatusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindConfiguration:
		return http.StatusInternalServerError
	case service.KindDecoding:
		return http.StatusUnprocessableEntity
	case service.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondAnalysisError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	respondError(c, StatusForKind(kind), strings.ToUpper(string(kind)), err.Error())
}

func respondDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	case errors.Is(err, storage.ErrDocumentTooLarge), errors.Is(err, storage.ErrNotText):
		respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
	case errors.Is(err, errStoreDisabled):
		respondError(c, http.StatusInternalServerError, "CONFIGURATION_ERROR", err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("Document store failure", "error", err)
		respondError(c, http.StatusInternalServerError, "DOCUMENT_RETRIEVAL_FAILED", err.Error())
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
