package notify

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves POST /api/notifications/send.
// The relay dispatches to every requested channel and reports per-channel
// outcomes; a channel failure and a failure to persist its delivery
// record are reported separately.
func (r *Relay) Handler(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	results, dispatchErr := r.Dispatch(c.Request().Context(), req)
	if dispatchErr != nil && len(results) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": dispatchErr.Error()})
	}

	channels := echo.Map{}
	allFailed := len(results) > 0
	for _, res := range results {
		entry := echo.Map{"status": "sent"}
		if res.SendErr != nil {
			entry["status"] = "failed"
			entry["error"] = res.SendErr.Error()
		} else {
			allFailed = false
		}
		if res.RecordErr != nil {
			entry["record_error"] = res.RecordErr.Error()
		}
		channels[res.Channel] = entry
	}

	if allFailed {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "all channels failed", "channels": channels})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "channels": channels})
}
