package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/middleware"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/service"
	"github.com/emilythestrangee/yatube/internal/telemetry"
)

// render fills in what every page expects: the viewer and an error map.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["user"]; !ok {
		data["user"] = middleware.CurrentUser(c)
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = service.FormErrors{}
	}
	c.HTML(status, name, data)
}

// NotFound renders the 404 page. It doubles as the router's NoRoute handler.
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "misc/404.html", gin.H{
		"title": "Page not found",
		"path":  c.Request.URL.Path,
	})
}

// ServerError renders the 500 page.
func ServerError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "misc/500.html", gin.H{"title": "Server error"})
}

// fail maps err to the 404 page or logs it and renders the 500 page.
func fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c)
		return
	}
	_ = c.Error(err)
	logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	telemetry.CaptureError(err, map[string]string{"path": c.Request.URL.Path})
	ServerError(c)
}

func page(c *gin.Context) int {
	return repository.ParsePage(c.Query("page"))
}

// postID reads :post_id; anything that is not a number cannot name a post.
func postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		NotFound(c)
		return 0, false
	}
	return id, true
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func postURL(username string, id int) string {
	return "/" + username + "/" + strconv.Itoa(id) + "/"
}

func profileURL(username string) string {
	return "/" + username + "/"
}
