package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc    service.RatingService
	logger *slog.Logger
}

func NewRatingHandler(svc service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{svc: svc, logger: logger}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ratings := rg.Group("/:imdbId/ratings")
	{
		ratings.GET("", h.List)
		ratings.POST("", h.CreateOrUpdate)
		ratings.GET("/average", h.GetAverage)
	}
}

// CreateOrUpdate upserts a user's score for a movie.
// POST /api/movies/:imdbId/ratings
func (h *RatingHandler) CreateOrUpdate(c *gin.Context) {
	var req dto.CreateUserRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rating, err := h.svc.RateMovie(ctx, req.UserID, c.Param("imdbId"), req.Score)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Movie not found in database"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		default:
			h.logger.Error("rate movie failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rating})
}

// List returns a movie's user ratings, newest first.
// GET /api/movies/:imdbId/ratings
func (h *RatingHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ratings, err := h.svc.GetMovieRatings(ctx, c.Param("imdbId"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Movie not found in database"})
			return
		}
		h.logger.Error("list ratings failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(ratings),
		"data":    ratings,
	})
}

// GetAverage returns the mean user score and rating count for a movie.
// GET /api/movies/:imdbId/ratings/average
func (h *RatingHandler) GetAverage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	avg, err := h.svc.GetAverage(ctx, c.Param("imdbId"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Movie not found in database"})
			return
		}
		h.logger.Error("average rating failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": avg})
}
