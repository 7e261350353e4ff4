package v1

import (
	"net/http"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

type CandidateIDResponse struct {
	ID int64 `json:"id"`
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.PUT("/me", handler.UpsertCandidate)
		candidates.PATCH("/me", handler.UpdateCandidate)
		candidates.GET("/me", handler.GetMyCandidate)
		candidates.DELETE("/me", handler.DeleteCandidate)
	}
}

// UpsertCandidate godoc
// @Summary      Create or replace own candidate record
// @Description  Creates the record in stage applied on first call; later calls overwrite the editable fields and keep id and stage.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CandidateInput  true  "Candidate"
// @Success      200  {object}  response.Response{data=CandidateIDResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/me [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpsertCandidate(c *gin.Context) {
	var input domain.CandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	id, err := h.candidateUC.UpsertCandidate(c, middleware.Principal(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate saved", CandidateIDResponse{ID: id})
}

// UpdateCandidate godoc
// @Summary      Update own candidate record
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CandidateInput  true  "Candidate"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/me [patch]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	var input domain.CandidateUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.candidateUC.UpdateCandidate(c, middleware.Principal(c), input); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate updated", nil)
}

// GetMyCandidate godoc
// @Summary      Get own candidate record
// @Description  data is null when the caller has no record
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      403  {object}  response.Response
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetMyCandidate(c *gin.Context) {
	candidate, err := h.candidateUC.GetMyCandidate(c, middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate record", candidate)
}

// DeleteCandidate godoc
// @Summary      Delete own candidate record
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/me [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	if err := h.candidateUC.DeleteCandidate(c, middleware.Principal(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}
