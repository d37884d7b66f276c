package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
)

type reportQuery struct {
	Period string `form:"period"` // day | month | year | custom
	Date   string `form:"date"`
	Start  string `form:"start"`
	End    string `form:"end"`
	ShopID string `form:"shop_id"`
}

// @Summary      Financial Summary
// @Description  Reduce the ledger over one reporting window
// @Tags         reports
// @Produce      json
// @Security     ApiKeyAuth
// @Param        period   query  string  false  "Period (day, month, year, custom)"
// @Param        date     query  string  false  "Anchor date for day/month/year"
// @Param        start    query  string  false  "Custom window start"
// @Param        end      query  string  false  "Custom window end"
// @Param        shop_id  query  string  false  "Shop ID"
// @Success      200  {object}  reportdomain.Summary
// @Router       /reports/summary [get]
func (s *Server) GetSummary(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	window, err := resolveWindow(query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.Summary(c.Request.Context(), reportdomain.SummaryRequest{
		Window: window,
		ShopID: strings.TrimSpace(query.ShopID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Financial Comparison
// @Description  Reduce the current window and the preceding one and report the movement
// @Tags         reports
// @Produce      json
// @Security     ApiKeyAuth
// @Param        period   query  string  false  "Period (day, month, year, custom)"
// @Param        date     query  string  false  "Anchor date for day/month/year"
// @Param        start    query  string  false  "Custom window start"
// @Param        end      query  string  false  "Custom window end"
// @Param        shop_id  query  string  false  "Shop ID"
// @Success      200  {object}  reportdomain.Comparison
// @Router       /reports/compare [get]
func (s *Server) GetComparison(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	current, err := resolveWindow(query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.Compare(c.Request.Context(), reportdomain.CompareRequest{
		Current:  current,
		Previous: previousWindow(strings.TrimSpace(strings.ToLower(query.Period)), current),
		ShopID:   strings.TrimSpace(query.ShopID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// resolveWindow turns the query into a half-open [start, end) window. The
// anchor date defaults to today (UTC) for the calendar periods.
func resolveWindow(query reportQuery) (reportdomain.Window, error) {
	period := strings.TrimSpace(strings.ToLower(query.Period))
	if period == "" {
		period = "day"
	}

	if period == "custom" {
		start, err := parseOptionalTime(query.Start, false)
		if err != nil || start == nil {
			return reportdomain.Window{}, newValidationError("start", "invalid_window", "custom period requires a valid start")
		}
		end, err := parseOptionalTime(query.End, true)
		if err != nil || end == nil {
			return reportdomain.Window{}, newValidationError("end", "invalid_window", "custom period requires a valid end")
		}
		return reportdomain.Window{Start: *start, End: *end}, nil
	}

	anchor := time.Now().UTC()
	if value := strings.TrimSpace(query.Date); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return reportdomain.Window{}, newValidationError("date", "invalid_date", "invalid anchor date")
		}
		anchor = parsed.UTC()
	}

	switch period {
	case "day":
		start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
		return reportdomain.Window{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case "month":
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return reportdomain.Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case "year":
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return reportdomain.Window{Start: start, End: start.AddDate(1, 0, 0)}, nil
	default:
		return reportdomain.Window{}, newValidationError("period", "invalid_period", "period must be day, month, year or custom")
	}
}

// previousWindow derives the preceding period. Calendar periods step back one
// calendar unit; a custom window slides back by its own length.
func previousWindow(period string, current reportdomain.Window) reportdomain.Window {
	switch period {
	case "month":
		return reportdomain.Window{
			Start: current.Start.AddDate(0, -1, 0),
			End:   current.Start,
		}
	case "year":
		return reportdomain.Window{
			Start: current.Start.AddDate(-1, 0, 0),
			End:   current.Start,
		}
	default:
		length := current.End.Sub(current.Start)
		return reportdomain.Window{
			Start: current.Start.Add(-length),
			End:   current.Start,
		}
	}
}
