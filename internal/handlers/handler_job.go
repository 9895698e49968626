package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/dto"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobHandler handles HTTP requests related to jobs.
type jobHandler struct {
	jobSvc portssvc.JobSvcFacade
}

func registerJobRoutes(rg *gin.RouterGroup, svc portssvc.JobSvcFacade) {
	h := &jobHandler{jobSvc: svc}

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/counters", h.getJobCounters)
		jobs.GET("/:id", h.getJob)
		jobs.PUT("/:id", h.updateJob)
	}
}

func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobSvc.CreateJob(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create job")
		return
	}

	logger.Info("Job created", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	job, err := h.jobSvc.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		Limit  int `form:"limit,default=50"`
		Offset int `form:"offset,default=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	jobs, err := h.jobSvc.ListJobs(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list jobs")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponses(jobs))
}

func (h *jobHandler) updateJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobSvc.UpdateJob(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// getJobCounters godoc
// @Summary Get the caller's job counters
// @Description Returns the inbox/mine/team counts, served from cache when fresh
// @Tags jobs
// @Produce json
// @Param teamID query string false "Team ID for the team count"
// @Success 200 {object} dto.JobCountersResponse
// @Security BearerAuth
// @Router /jobs/counters [get]
func (h *jobHandler) getJobCounters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var teamID *string
	if v := c.Query("teamID"); v != "" {
		teamID = &v
	}

	counters, err := h.jobSvc.GetJobCounters(c.Request.Context(), userID, teamID)
	if err != nil {
		respondError(c, logger, err, "Failed to get job counters")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobCountersResponse(counters))
}
