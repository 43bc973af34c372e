package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/api/service"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds every repository/upstream call made on behalf of a
// request. OMDb-backed operations get a longer budget.
const (
	requestTimeout = 5 * time.Second
	fetchTimeout   = 30 * time.Second
)

type MovieHandler struct {
	svc    service.MovieService
	logger *slog.Logger
}

func NewMovieHandler(svc service.MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{svc: svc, logger: logger}
}

func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/fetch", h.FetchAndSave)
	rg.GET("/search", h.Search)
	rg.GET("", h.List)
	rg.GET("/:imdbId", h.Get)
	rg.DELETE("/:imdbId", h.Delete)
}

// FetchAndSave fetches a movie from OMDb and persists it.
// POST /api/movies/fetch
func (h *MovieHandler) FetchAndSave(c *gin.Context) {
	var req dto.FetchMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	movie, err := h.svc.FetchAndSave(ctx, req.Title, req.Year, req.ImdbID)
	if err != nil {
		var upstream *service.UpstreamError
		switch {
		case errors.Is(err, service.ErrMissingQuery):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.As(err, &upstream):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": upstream.Error()})
		case errors.Is(err, repository.ErrMissingImdbID):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			h.logger.Error("fetch and save failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Movie fetched and saved successfully",
		"data":    movie,
	})
}

// Search runs the filtered local search, optionally refreshing from OMDb
// first when fetchFromOMDb=true.
// GET /api/movies/search
func (h *MovieHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	timeout := requestTimeout
	if q.FetchFromOMDb {
		timeout = fetchTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	movies, err := h.svc.Search(ctx, q)
	if err != nil {
		h.logger.Error("search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(movies),
		"data":    movies,
	})
}

// List returns every stored movie in the joined shape.
// GET /api/movies
func (h *MovieHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	movies, err := h.svc.GetAll(ctx)
	if err != nil {
		h.logger.Error("list movies failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(movies),
		"data":    movies,
	})
}

// Get returns one movie by IMDb id.
// GET /api/movies/:imdbId
func (h *MovieHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	movie, err := h.svc.GetByImdbID(ctx, c.Param("imdbId"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Movie not found in database"})
			return
		}
		h.logger.Error("get movie failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": movie})
}

// Delete removes a movie and its dependent rows by IMDb id.
// DELETE /api/movies/:imdbId
func (h *MovieHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.svc.Delete(ctx, c.Param("imdbId"))
	if err != nil {
		h.logger.Error("delete movie failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Movie not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Movie deleted successfully"})
}
