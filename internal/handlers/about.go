package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AboutHandler struct{}

func (h *AboutHandler) Author(c *gin.Context) {
	render(c, http.StatusOK, "about/author.html", gin.H{"title": "About the author"})
}

func (h *AboutHandler) Tech(c *gin.Context) {
	render(c, http.StatusOK, "about/tech.html", gin.H{"title": "Technologies"})
}
