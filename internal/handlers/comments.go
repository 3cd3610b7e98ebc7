package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/middleware"
	"github.com/emilythestrangee/yatube/internal/service"
)

type CommentHandler struct {
	feed  *service.FeedService
	posts *service.PostService
}

func NewCommentHandler(feed *service.FeedService, posts *service.PostService) *CommentHandler {
	return &CommentHandler{feed: feed, posts: posts}
}

// Create adds a comment and returns to the post. An invalid comment shows the
// post page again with the errors.
func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	detail, err := h.feed.PostDetail(c.Request.Context(), c.Param("username"), id, user)
	if err != nil {
		fail(c, err)
		return
	}

	var form service.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}
	_, err = h.posts.AddComment(c.Request.Context(), user, detail.Post, form)
	if errs, ok := service.AsFormErrors(err); ok {
		render(c, http.StatusOK, "post.html", gin.H{
			"title":  detail.Post.String(),
			"detail": detail,
			"form":   form,
			"errors": errs,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, postURL(detail.Post.Author.Username, detail.Post.ID))
}

// Show answers GET on the comment URL by sending the visitor to the post.
func (h *CommentHandler) Show(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	redirect(c, postURL(c.Param("username"), id))
}
