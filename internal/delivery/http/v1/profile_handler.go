package v1

import (
	"net/http"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

type SaveProfileRequest struct {
	Name string `json:"name"`
}

func NewProfileHandler(r *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	r.GET("/profile/me", handler.GetCallerProfile)
	r.PUT("/profile/me", handler.SaveCallerProfile)
	r.GET("/profiles/:principal", handler.GetProfile)
}

// GetCallerProfile godoc
// @Summary      Get own profile
// @Description  data is null when no profile was saved yet
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      403  {object}  response.Response
// @Router       /profile/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetCallerProfile(c *gin.Context) {
	profile, err := h.profileUC.GetCallerProfile(c, middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User profile", profile)
}

// SaveCallerProfile godoc
// @Summary      Save own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request  body      SaveProfileRequest  true  "Profile"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profile/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) SaveCallerProfile(c *gin.Context) {
	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.profileUC.SaveCallerProfile(c, middleware.Principal(c), domain.UserProfile{Name: req.Name}); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", nil)
}

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Callers may read their own profile; admins may read any.
// @Tags         profiles
// @Produce      json
// @Param        principal  path  string  true  "Principal"
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      403  {object}  response.Response
// @Router       /profiles/{principal} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	target := domain.Principal(c.Param("principal"))
	profile, err := h.profileUC.GetProfile(c, middleware.Principal(c), target)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User profile", profile)
}
