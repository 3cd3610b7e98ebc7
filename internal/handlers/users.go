package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/middleware"
	"github.com/emilythestrangee/yatube/internal/service"
)

type UserHandler struct {
	feed *service.FeedService
	rel  *service.RelationshipService
}

func NewUserHandler(feed *service.FeedService, rel *service.RelationshipService) *UserHandler {
	return &UserHandler{feed: feed, rel: rel}
}

// Profile lists the author's posts with post and follower counts.
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.feed.Profile(c.Request.Context(), c.Param("username"), middleware.CurrentUser(c), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{
		"title":   profile.Author.FullName(),
		"profile": profile,
		"page":    profile.Page,
	})
}

// Follow subscribes the viewer and returns them to their own profile.
// Following yourself changes nothing and lands in the same place.
func (h *UserHandler) Follow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	err := h.rel.Follow(c.Request.Context(), user, c.Param("username"))
	if err != nil && !errors.Is(err, service.ErrFollowSelf) {
		fail(c, err)
		return
	}
	redirect(c, profileURL(user.Username))
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.rel.Unfollow(c.Request.Context(), user, c.Param("username")); err != nil {
		fail(c, err)
		return
	}
	redirect(c, profileURL(user.Username))
}
