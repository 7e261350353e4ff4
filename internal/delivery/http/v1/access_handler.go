package v1

import (
	"net/http"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	accessUC domain.AccessUsecase
}

type RoleResponse struct {
	Role domain.Role `json:"role"`
}

type AdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func NewAccessHandler(r *gin.RouterGroup, accessUC domain.AccessUsecase) {
	handler := &AccessHandler{accessUC: accessUC}

	access := r.Group("/access")
	{
		access.POST("/ensure", handler.EnsureUserAccess)
		access.GET("/role", handler.GetCallerRole)
		access.GET("/admin", handler.IsCallerAdmin)
		access.PUT("/roles/:principal", handler.AssignRole)
	}
}

// EnsureUserAccess godoc
// @Summary      Register the caller as a user
// @Description  Promotes a guest caller to user. Idempotent; users and admins are unchanged.
// @Tags         access
// @Produce      json
// @Success      200  {object}  response.Response{data=RoleResponse}
// @Failure      401  {object}  response.Response
// @Router       /access/ensure [post]
// @Security     BearerAuth
func (h *AccessHandler) EnsureUserAccess(c *gin.Context) {
	caller := middleware.Principal(c)
	if err := h.accessUC.EnsureUserAccess(c, caller); err != nil {
		c.Error(err)
		return
	}

	role, err := h.accessUC.GetRole(c, caller)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User access ensured", RoleResponse{Role: role})
}

// GetCallerRole godoc
// @Summary      Get caller role
// @Tags         access
// @Produce      json
// @Success      200  {object}  response.Response{data=RoleResponse}
// @Router       /access/role [get]
// @Security     BearerAuth
func (h *AccessHandler) GetCallerRole(c *gin.Context) {
	role, err := h.accessUC.GetRole(c, middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Caller role", RoleResponse{Role: role})
}

// IsCallerAdmin godoc
// @Summary      Check whether the caller is an admin
// @Tags         access
// @Produce      json
// @Success      200  {object}  response.Response{data=AdminResponse}
// @Router       /access/admin [get]
// @Security     BearerAuth
func (h *AccessHandler) IsCallerAdmin(c *gin.Context) {
	isAdmin, err := h.accessUC.IsAdmin(c, middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Caller admin status", AdminResponse{IsAdmin: isAdmin})
}

// AssignRole godoc
// @Summary      Assign a role
// @Description  Admins may assign any role. A guest may assign user to itself.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        principal  path      string             true  "Target principal"
// @Param        request    body      AssignRoleRequest  true  "Role to assign (guest, user, admin)"
// @Success      200  {object}  response.Response{data=RoleResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /access/roles/{principal} [put]
// @Security     BearerAuth
func (h *AccessHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	target := domain.Principal(c.Param("principal"))
	if err := h.accessUC.AssignRole(c, middleware.Principal(c), target, role); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role assigned", RoleResponse{Role: role})
}
