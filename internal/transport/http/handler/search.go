package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"codesearch/internal/app"
	"codesearch/internal/model"
	"codesearch/internal/transport/http/response"
)

type SearchHandler struct {
	search *app.SearchService
}

type SearchRequest struct {
	FullInput string `json:"fullInput"`
	// K overrides the configured result count when positive.
	K int `json:"k"`
}

type ResultURI struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type SearchResultView struct {
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Name        string    `json:"name"`
	URI         ResultURI `json:"uri"`
}

func NewSearchHandler(search *app.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	results, err := h.search.SearchCodebase(c.Request.Context(), req.FullInput, req.K)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyQuery):
			response.Error(c, http.StatusBadRequest, response.CodeEmptyQuery, err.Error())
		case errors.Is(err, app.ErrIndexNotBuilt):
			response.Error(c, http.StatusInternalServerError, response.CodeIndexNotBuilt, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		}
		return
	}

	views := make([]SearchResultView, len(results))
	for i, r := range results {
		views[i] = toResultView(r)
	}
	c.JSON(http.StatusOK, views)
}

func (h *SearchHandler) Index(c *gin.Context) {
	report, err := h.search.IndexCodebase(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "index codebase failed")
		return
	}
	response.OK(c, report)
}

func (h *SearchHandler) Report(c *gin.Context) {
	report := h.search.LastReport()
	if report == nil {
		response.Error(c, http.StatusNotFound, response.CodeReportNotFound, "no indexing run in this process")
		return
	}
	response.OK(c, report)
}

func toResultView(r model.SearchResult) SearchResultView {
	name := filepath.Base(r.Source)
	return SearchResultView{
		Description: strings.TrimPrefix(filepath.Ext(r.Source), "."),
		Content:     r.Content,
		Name:        name,
		URI:         ResultURI{Type: "file", Value: name},
	}
}
