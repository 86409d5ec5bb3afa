package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title GitHub Resume API
// @version 1.0
// @description API for generating developer resumes from GitHub accounts
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1

// SetupRouter configures the API routes
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", h.Health)

	// API v1 group
	v1 := r.Group("/api/v1")
	{
		// @Summary Generate a resume
		// @Description Generate a skills and projects resume from a GitHub account
		// @Tags resume
		// @Accept json
		// @Produce json
		// @Param request body GenerateResumeRequest true "Resume request"
		// @Success 200 {object} models.ResumeResult
		// @Failure 400 {object} ErrorResponse
		// @Failure 404 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /resume [post]
		v1.POST("/resume", h.GenerateResume)

		// @Summary List archived resumes
		// @Description Get previously generated resumes for a username
		// @Tags resume
		// @Accept json
		// @Produce json
		// @Param username path string true "GitHub username"
		// @Param limit query int false "Number of resumes to return" default(10)
		// @Success 200 {array} models.ResumeRecord
		// @Failure 400 {object} ErrorResponse
		// @Failure 404 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /resumes/{username} [get]
		v1.GET("/resumes/:username", h.ListResumes)
	}

	return r
}
