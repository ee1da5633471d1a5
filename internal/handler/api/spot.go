package api

import (
	"net/http"

	reqdto "smart-parking/internal/handler/dto/request"
	resdto "smart-parking/internal/handler/dto/response"
	"smart-parking/internal/handler/middleware"
	"smart-parking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SpotHandler struct {
	spotUseCase usecase.SpotUseCase
}

func NewSpotHandler(spotUseCase usecase.SpotUseCase) *SpotHandler {
	return &SpotHandler{
		spotUseCase: spotUseCase,
	}
}

// @Summary List spots
// @Description List parking spots with optional status/floor/zone/type filters
// @Tags parking-spots
// @Produce json
// @Security BearerAuth
// @Param status query string false "Derived status filter"
// @Param floor query int false "Floor filter"
// @Param zone query string false "Zone filter"
// @Param type query string false "Type filter"
// @Success 200 {array} resdto.SpotResponse
// @Router /parking-spots [get]
func (h *SpotHandler) ListSpots(c *gin.Context) {
	views, err := h.spotUseCase.ListSpots(c.Request.Context(), reqdto.SpotFilterFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpotViews(views))
}

// @Summary List available spots
// @Description Shorthand for the derived-status available filter
// @Tags parking-spots
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.SpotResponse
// @Router /parking-spots/available [get]
func (h *SpotHandler) ListAvailableSpots(c *gin.Context) {
	filter := reqdto.SpotFilterFromQuery(c)
	available := "available"
	filter.Status = &available

	views, err := h.spotUseCase.ListSpots(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpotViews(views))
}

// @Summary Get spot
// @Tags parking-spots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} resdto.SpotResponse
// @Failure 404 {object} map[string]any
// @Router /parking-spots/{id} [get]
func (h *SpotHandler) GetSpot(c *gin.Context) {
	spotID, ok := h.spotID(c)
	if !ok {
		return
	}

	view, err := h.spotUseCase.GetSpot(c.Request.Context(), spotID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}

// @Summary Create spot
// @Description Administrators only
// @Tags parking-spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSpotRequest true "Spot definition"
// @Success 201 {object} resdto.SpotResponse
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /parking-spots [post]
func (h *SpotHandler) CreateSpot(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.spotUseCase.CreateSpot(c.Request.Context(), actor, req.ToParams())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSpotView(view))
}

// @Summary Update spot
// @Description Administrators only
// @Tags parking-spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body reqdto.UpdateSpotRequest true "Spot definition"
// @Success 200 {object} resdto.SpotResponse
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /parking-spots/{id} [put]
func (h *SpotHandler) UpdateSpot(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	spotID, ok := h.spotID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.spotUseCase.UpdateSpot(c.Request.Context(), actor, spotID, req.ToParams())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}

// @Summary Delete spot
// @Description Administrators only; refused while active bookings exist
// @Tags parking-spots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 204
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /parking-spots/{id} [delete]
func (h *SpotHandler) DeleteSpot(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	spotID, ok := h.spotID(c)
	if !ok {
		return
	}

	if err := h.spotUseCase.DeleteSpot(c.Request.Context(), actor, spotID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SpotHandler) spotID(c *gin.Context) (uuid.UUID, bool) {
	spotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spot ID"})
		return uuid.Nil, false
	}
	return spotID, true
}
