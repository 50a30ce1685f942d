package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/reservations"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service reservations.ReservationUseCase
}

type createReservationRequest struct {
	SpaceID         int64     `json:"space_id" binding:"required"`
	ReservationDate time.Time `json:"reservation_date" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
}

type updateReservationRequest struct {
	ReservationDate *time.Time `json:"reservation_date"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
}

type reservationResponse struct {
	ID              int64  `json:"id"`
	SpaceID         int64  `json:"space_id"`
	UserEmail       string `json:"user_email"`
	ReservationDate string `json:"reservation_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	CreatedAt       string `json:"created_at"`
}

type reservationListResponse struct {
	Items []reservationResponse `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

func NewReservationHandler(service reservations.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *ReservationHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, total, err := h.service.ListByUser(c.Request.Context(), authedEmail(c), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]reservationResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResponse(&r))
	}
	c.JSON(http.StatusOK, reservationListResponse{Items: out, Total: total, Page: page, Limit: limit})
}

func (h *ReservationHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	reservation, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, decision, err := h.service.Create(c.Request.Context(), reservations.CreateReservationInput{
		SpaceID:         req.SpaceID,
		UserEmail:       authedEmail(c),
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !decision.Admitted {
		writeRejection(c, decision)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, decision, err := h.service.Update(c.Request.Context(), id, reservations.UpdateReservationInput{
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !decision.Admitted {
		writeRejection(c, decision)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, authedEmail(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not authorized to modify this reservation"})
	case errors.Is(err, domain.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSpaceBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:              r.ID,
		SpaceID:         r.SpaceID,
		UserEmail:       r.UserEmail,
		ReservationDate: r.ReservationDate.Format("2006-01-02"),
		StartTime:       r.StartTime.Format(time.RFC3339),
		EndTime:         r.EndTime.Format(time.RFC3339),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}
