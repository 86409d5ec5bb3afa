package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/github-resume/internal/db"
	apperrors "github.com/Kamar-Folarin/github-resume/internal/errors"
	"github.com/Kamar-Folarin/github-resume/internal/github"
	"github.com/Kamar-Folarin/github-resume/internal/models"
	"github.com/Kamar-Folarin/github-resume/internal/resume"
)

// ResumeService is the pipeline interface the handler depends on
type ResumeService interface {
	GenerateResume(ctx context.Context, username string) (*models.ResumeResult, error)
}

// GenerateResumeRequest is the resume generation request body
type GenerateResumeRequest struct {
	Username string `json:"username" example:"torvalds"`
}

// ErrorResponse is the error envelope returned by all endpoints
type ErrorResponse struct {
	Error   string `json:"error" example:"No public repositories found"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	resumeService ResumeService
	store         db.Store
	logger        *logrus.Logger
}

// NewHandler creates an API handler. The store may be nil when the resume
// archive is disabled.
func NewHandler(resumeService ResumeService, store db.Store, logger *logrus.Logger) *Handler {
	return &Handler{
		resumeService: resumeService,
		store:         store,
		logger:        logger,
	}
}

// GenerateResume handles POST /api/v1/resume
func (h *Handler) GenerateResume(c *gin.Context) {
	var req GenerateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Username is required", "")
		return
	}

	// Archive under the same trimmed form the pipeline validates, so the
	// lookup endpoint finds it.
	username := strings.TrimSpace(req.Username)

	result, err := h.resumeService.GenerateResume(c.Request.Context(), username)
	if err != nil {
		h.respondWithResumeError(c, username, err)
		return
	}

	if h.store != nil {
		record := &models.ResumeRecord{
			Username: username,
			Result:   *result,
		}
		if err := h.store.SaveResume(c.Request.Context(), record); err != nil {
			// Archiving is best-effort; the generated resume is still returned.
			h.logger.WithField("username", username).Warnf("Failed to archive resume: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// ListResumes handles GET /api/v1/resumes/:username
func (h *Handler) ListResumes(c *gin.Context) {
	if h.store == nil {
		respondWithError(c, http.StatusNotFound, "Resume archive is not enabled", "")
		return
	}

	username, err := resume.ValidateUsername(c.Param("username"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, appErrorMessage(err), "")
		return
	}

	limit, err := getIntQueryParam(c, "limit", 10)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid limit parameter", "")
		return
	}

	records, err := h.store.ListResumes(c.Request.Context(), username, limit)
	if err != nil {
		h.logger.Errorf("Failed to list resumes: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Failed to list resumes", err.Error())
		return
	}

	if records == nil {
		records = []*models.ResumeRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondWithResumeError maps pipeline errors to the response envelope:
// validation to 400, missing account or empty listing to 404, credential and
// upstream failures to 500 with diagnostic details.
func (h *Handler) respondWithResumeError(c *gin.Context, username string, err error) {
	switch {
	case apperrors.IsInvalidInput(err):
		respondWithError(c, http.StatusBadRequest, appErrorMessage(err), "")

	case errors.Is(err, resume.ErrNoRepositories):
		respondWithError(c, http.StatusNotFound, "No public repositories found", "")

	case github.IsNotFoundError(err):
		respondWithError(c, http.StatusNotFound, "GitHub user not found", "")

	case github.IsAuthenticationError(err), apperrors.IsConfiguration(err):
		h.logger.WithField("username", username).Errorf("Credential failure: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Failed to generate resume", err.Error())

	case github.IsRateLimitError(err):
		h.logger.WithField("username", username).Errorf("Rate limited by GitHub: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Failed to generate resume", err.Error())

	default:
		h.logger.WithField("username", username).Errorf("Failed to generate resume: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Failed to generate resume", err.Error())
	}
}

func appErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func respondWithError(c *gin.Context, code int, message, details string) {
	c.JSON(code, ErrorResponse{Error: message, Details: details})
}

func getIntQueryParam(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
