package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rbannon32/lawscan/server/httpresponse"
	"github.com/rbannon32/lawscan/server/service"
)

type ChangeTrackingAPI struct {
	Router                fiber.Router
	ChangeTrackingService *service.ChangeTrackingService
}

// parseDateRange reads the required fromDate/toDate query parameters. A nil
// error response means both parsed.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	fromStr := c.Query("fromDate") // Format: YYYY-MM-DD
	toStr := c.Query("toDate")     // Format: YYYY-MM-DD

	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, httpresponse.ApplyBadRequestToResponse(c,
			"fromDate and toDate parameters are required (format: YYYY-MM-DD)")
	}

	fromDate, err := parseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, httpresponse.ApplyBadRequestToResponse(c,
			"Invalid fromDate format. Use YYYY-MM-DD")
	}

	toDate, err := parseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, httpresponse.ApplyBadRequestToResponse(c,
			"Invalid toDate format. Use YYYY-MM-DD")
	}

	return fromDate, toDate, nil
}

func (api *ChangeTrackingAPI) Register() {
	// Admin endpoint to compute and persist changes between two dates
	api.Router.Post(
		"/compute/changes", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			fromDate, toDate, respErr := parseDateRange(c)
			if respErr != nil {
				return respErr
			}

			titleNums, err := parseTitleNums(c.Query("titles"))
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, err.Error())
			}
			if len(titleNums) == 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "titles parameter is required")
			}

			summaries, err := api.ChangeTrackingService.ComputeChanges(ctx, titleNums, fromDate, toDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, summaries)
		},
	)

	// Public endpoint to get the persisted change summary for one title
	api.Router.Get(
		"/changes/summary", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			fromDate, toDate, respErr := parseDateRange(c)
			if respErr != nil {
				return respErr
			}

			titleNum := c.QueryInt("title")
			if titleNum <= 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "title parameter is required")
			}

			summary, err := api.ChangeTrackingService.GetChangeSummary(ctx, titleNum, fromDate, toDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, summary)
		},
	)

	// Public endpoint to rank titles by churn
	api.Router.Get(
		"/changes/top", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			fromDate, toDate, respErr := parseDateRange(c)
			if respErr != nil {
				return respErr
			}

			titleNums, err := parseTitleNums(c.Query("titles"))
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, err.Error())
			}
			if len(titleNums) == 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "titles parameter is required")
			}

			limit := c.QueryInt("limit", 10)

			top, err := api.ChangeTrackingService.GetTopChangingTitles(ctx, titleNums, fromDate, toDate, limit)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, top)
		},
	)

	// Public endpoint to generate a plain-text change report
	api.Router.Get(
		"/changes/report", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			fromDate, toDate, respErr := parseDateRange(c)
			if respErr != nil {
				return respErr
			}

			titleNums, err := parseTitleNums(c.Query("titles"))
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, err.Error())
			}
			if len(titleNums) == 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "titles parameter is required")
			}

			report, err := api.ChangeTrackingService.GenerateChangeReport(ctx, titleNums, fromDate, toDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			c.Set("Content-Type", "text/plain")
			return c.SendString(report)
		},
	)
}
