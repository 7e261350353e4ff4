package v1

import (
	"net/http"
	"strconv"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	candidateUC domain.CandidateUsecase
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// NewAdminHandler registers the admin candidate routes. exportLimit, when not
// nil, runs in front of the export route only.
func NewAdminHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, exportLimit gin.HandlerFunc) {
	handler := &AdminHandler{candidateUC: candidateUC}

	admin := r.Group("/admin/candidates")
	{
		admin.GET("", handler.ListCandidates)
		admin.PATCH("/:id/stage", handler.UpdateCandidateStage)
		if exportLimit != nil {
			admin.GET("/export", exportLimit, handler.ExportCandidates)
		} else {
			admin.GET("/export", handler.ExportCandidates)
		}
	}
}

// ListCandidates godoc
// @Summary      List candidates
// @Description  Every candidate in creation order, optionally filtered by pipeline stage
// @Tags         admin
// @Produce      json
// @Param        stage  query     string  false  "applied, screening, interview, hired or rejected"
// @Success      200  {object}  response.Response{data=[]domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/candidates [get]
// @Security     BearerAuth
func (h *AdminHandler) ListCandidates(c *gin.Context) {
	caller := middleware.Principal(c)

	var (
		candidates []domain.Candidate
		err        error
	)
	if raw := c.Query("stage"); raw != "" {
		stage, perr := domain.ParseStage(raw)
		if perr != nil {
			c.Error(apperror.BadRequest(perr.Error()))
			return
		}
		candidates, err = h.candidateUC.GetCandidatesByStage(c, caller, stage)
	} else {
		candidates, err = h.candidateUC.GetAllCandidates(c, caller)
	}
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidates", candidates)
}

// UpdateCandidateStage godoc
// @Summary      Move a candidate to another stage
// @Description  hired and rejected are final; setting the current stage again is refused.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Candidate ID"
// @Param        request  body      UpdateStageRequest  true  "Target stage"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /admin/candidates/{id}/stage [patch]
// @Security     BearerAuth
func (h *AdminHandler) UpdateCandidateStage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		c.Error(apperror.BadRequest("Invalid candidate ID"))
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	stage, err := domain.ParseStage(req.Stage)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.candidateUC.UpdateCandidateStage(c, middleware.Principal(c), id, stage); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate stage updated", nil)
}

// ExportCandidates godoc
// @Summary      Export candidates
// @Description  Downloads candidates as an Excel or CSV file
// @Tags         admin
// @Produce      application/octet-stream
// @Param        format  query     string  false  "Export format (xlsx, csv). Default: xlsx"
// @Param        stage   query     string  false  "Only candidates in this stage"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/candidates/export [get]
// @Security     BearerAuth
func (h *AdminHandler) ExportCandidates(c *gin.Context) {
	var stage *domain.PipelineStage
	if raw := c.Query("stage"); raw != "" {
		s, err := domain.ParseStage(raw)
		if err != nil {
			c.Error(apperror.BadRequest(err.Error()))
			return
		}
		stage = &s
	}
	format := c.DefaultQuery("format", domain.ExportFormatXLSX)

	data, filename, err := h.candidateUC.ExportCandidates(c, middleware.Principal(c), stage, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == domain.ExportFormatCSV {
		contentType = "text/csv"
	}

	response.Attachment(c, http.StatusOK, contentType, filename, data)
}
