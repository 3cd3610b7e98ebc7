package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/middleware"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/service"
)

type PostHandler struct {
	feed  *service.FeedService
	posts *service.PostService
}

func NewPostHandler(feed *service.FeedService, posts *service.PostService) *PostHandler {
	return &PostHandler{feed: feed, posts: posts}
}

// Index is the global feed, newest first.
func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.feed.Index(c.Request.Context(), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"page": posts})
}

func (h *PostHandler) Group(c *gin.Context) {
	feed, err := h.feed.Group(c.Request.Context(), c.Param("slug"), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "group.html", gin.H{
		"title": feed.Group.Title,
		"group": feed.Group,
		"page":  feed.Page,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	detail, err := h.feed.PostDetail(c.Request.Context(), c.Param("username"), id, middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "post.html", gin.H{
		"title":  detail.Post.String(),
		"detail": detail,
		"form":   service.CommentForm{},
	})
}

// Follow is the personalized feed of followed authors.
func (h *PostHandler) Follow(c *gin.Context) {
	posts, err := h.feed.Follow(c.Request.Context(), middleware.CurrentUser(c), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "follow.html", gin.H{"title": "Subscriptions", "page": posts})
}

func (h *PostHandler) NewForm(c *gin.Context) {
	h.renderForm(c, "new.html", nil, service.PostForm{}, nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	form, cleanup, err := bindPostForm(c)
	if err != nil {
		fail(c, err)
		return
	}
	defer cleanup()

	_, err = h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), form)
	if errs, ok := service.AsFormErrors(err); ok {
		h.renderForm(c, "new.html", nil, form, errs)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/")
}

// EditForm shows the edit page to the post's author. Everybody else goes back to the index.
func (h *PostHandler) EditForm(c *gin.Context) {
	post, ok := h.editable(c)
	if !ok {
		return
	}
	form := service.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.Itoa(*post.GroupID)
	}
	h.renderForm(c, "edit.html", post, form, nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.editable(c)
	if !ok {
		return
	}
	form, cleanup, err := bindPostForm(c)
	if err != nil {
		fail(c, err)
		return
	}
	defer cleanup()

	err = h.posts.Update(c.Request.Context(), middleware.CurrentUser(c), post, form)
	if errs, ok := service.AsFormErrors(err); ok {
		h.renderForm(c, "edit.html", post, form, errs)
		return
	}
	if errors.Is(err, service.ErrNotAuthor) {
		redirect(c, "/")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, postURL(post.Author.Username, post.ID))
}

func (h *PostHandler) editable(c *gin.Context) (*models.Post, bool) {
	id, ok := postID(c)
	if !ok {
		return nil, false
	}
	post, err := h.posts.Editable(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"), id)
	if errors.Is(err, service.ErrNotAuthor) {
		redirect(c, "/")
		return nil, false
	}
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) renderForm(c *gin.Context, name string, post *models.Post, form service.PostForm, errs service.FormErrors) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if errs == nil {
		errs = service.FormErrors{}
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	render(c, http.StatusOK, name, gin.H{
		"title":  title,
		"post":   post,
		"form":   form,
		"groups": groups,
		"errors": errs,
	})
}

// bindPostForm reads text, group and the optional image upload. The returned
// cleanup closes the upload.
func bindPostForm(c *gin.Context) (service.PostForm, func(), error) {
	var form service.PostForm
	noop := func() {}
	if err := c.ShouldBind(&form); err != nil {
		return form, noop, err
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, noop, nil
	}
	if err != nil {
		return form, noop, err
	}
	if header.Size == 0 {
		return form, noop, nil
	}

	var file multipart.File
	if file, err = header.Open(); err != nil {
		return form, noop, err
	}
	form.Image = file
	return form, func() { file.Close() }, nil
}
