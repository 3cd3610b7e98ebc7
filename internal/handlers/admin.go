package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/service"
)

// AdminHandler is the JSON API for staff actions.
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type groupsResponse struct {
	Groups []models.Group `json:"groups"`
}

type validationResponse struct {
	Errors service.FormErrors `json:"errors"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ListGroups godoc
//
//	@Summary	List groups
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	groupsResponse
//	@Failure	401	{object}	errorResponse
//	@Failure	403	{object}	errorResponse
//	@Router		/admin/api/groups [get]
func (h *AdminHandler) ListGroups(c *gin.Context) {
	groups, err := h.admin.ListGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to fetch groups"})
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	c.JSON(http.StatusOK, groupsResponse{Groups: groups})
}

// CreateGroup godoc
//
//	@Summary	Create a group
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		group	body		service.GroupForm	true	"Group"
//	@Success	201		{object}	models.Group
//	@Failure	400		{object}	validationResponse
//	@Failure	403		{object}	errorResponse
//	@Router		/admin/api/groups [post]
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var form service.GroupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	group, err := h.admin.CreateGroup(c.Request.Context(), form)
	if errs, ok := service.AsFormErrors(err); ok {
		c.JSON(http.StatusBadRequest, validationResponse{Errors: errs})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to create group"})
		return
	}
	c.JSON(http.StatusCreated, group)
}

// DeletePost godoc
//
//	@Summary	Delete a post with its comments
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Post ID"
//	@Success	200	{object}	messageResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/admin/api/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid post id"})
		return
	}
	err = h.admin.DeletePost(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Post deleted"})
}

// ClearCache godoc
//
//	@Summary	Drop every cached index page
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	messageResponse
//	@Router		/admin/api/cache/clear [post]
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.admin.ClearPageCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to clear cache"})
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Cache cleared"})
}
