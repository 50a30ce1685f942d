package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/spaces"
	"github.com/gin-gonic/gin"
)

type SpaceHandler struct {
	service spaces.SpaceUseCase
}

type createSpaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" binding:"required"`
	Description string `json:"description"`
}

type updateSpaceRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
}

type spaceResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

func NewSpaceHandler(service spaces.SpaceUseCase) *SpaceHandler {
	return &SpaceHandler{service: service}
}

func (h *SpaceHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *SpaceHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]spaceResponse, 0, len(result))
	for _, s := range result {
		out = append(out, toSpaceResponse(&s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SpaceHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	space, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSpaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSpaceResponse(space))
}

func (h *SpaceHandler) create(c *gin.Context) {
	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := h.service.Create(c.Request.Context(), spaces.CreateSpaceInput{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toSpaceResponse(space))
}

func (h *SpaceHandler) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := h.service.Update(c.Request.Context(), id, spaces.UpdateSpaceInput{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSpaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSpaceResponse(space))
}

func (h *SpaceHandler) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	decision, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSpaceBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !decision.Admitted {
		writeRejection(c, decision)
		return
	}
	c.Status(http.StatusNoContent)
}

func toSpaceResponse(s *domain.Space) spaceResponse {
	return spaceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Location:    s.Location,
		Capacity:    s.Capacity,
		Description: s.Description,
	}
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
