package api

import (
	"net/http"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeRejection maps a policy rejection to an HTTP response. Rejections are
// ordinary outcomes, not server faults: most map to 400, a missing target to
// 404 and the deletion guard to 409.
func writeRejection(c *gin.Context, decision domain.Decision) {
	body := gin.H{"reason": string(decision.Reason)}

	switch decision.Reason {
	case domain.ReasonPastDate:
		body["error"] = "reservation date cannot be in the past"
		c.JSON(http.StatusBadRequest, body)
	case domain.ReasonSpaceNotFound:
		body["error"] = "space not found"
		c.JSON(http.StatusNotFound, body)
	case domain.ReasonTimeConflict:
		body["error"] = "there is already a reservation for this space at the specified time"
		c.JSON(http.StatusBadRequest, body)
	case domain.ReasonQuotaExceeded:
		body["error"] = "maximum number of reservations reached for the week"
		body["week_start"] = decision.WeekStart.Format("2006-01-02")
		body["count"] = decision.Count
		body["limit"] = decision.Limit
		c.JSON(http.StatusBadRequest, body)
	case domain.ReasonSpaceHasReservations:
		body["error"] = "cannot delete space with existing reservations"
		c.JSON(http.StatusConflict, body)
	default:
		body["error"] = "reservation rejected"
		c.JSON(http.StatusBadRequest, body)
	}
}
