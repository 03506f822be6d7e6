package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codesearch/internal/app"
	"codesearch/internal/model"
	"codesearch/internal/transport/http/response"
)

type PostHandler struct {
	blog *app.BlogService
}

func NewPostHandler(blog *app.BlogService) *PostHandler {
	return &PostHandler{blog: blog}
}

func (h *PostHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// List renders the load_next fragment, or JSON when the client asks for it.
func (h *PostHandler) List(c *gin.Context) {
	page := parsePage(c.Query("page"))

	result, err := h.blog.ListPage(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load posts failed")
		return
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, result)
		return
	}
	c.HTML(http.StatusOK, "load_next.html", gin.H{
		"posts": result.Posts,
		"page":  result.NextPage,
	})
}

// Create stores the request body as-is and echoes it back.
func (h *PostHandler) Create(c *gin.Context) {
	var post model.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidPost, app.ErrInvalidPost.Error())
		return
	}

	created, err := h.blog.Create(c.Request.Context(), post)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPost) {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidPost, err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save post failed")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
