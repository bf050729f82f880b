package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/httpresponse"
	"github.com/rbannon32/lawscan/server/service"
)

type RollupAPI struct {
	Router        fiber.Router
	RollupService *service.RollupService
	SummaryDAO    *dao.SummaryDAO
}

func (api *RollupAPI) Register() {
	// Admin endpoint to regenerate part and agency summaries for a date
	api.Router.Post(
		"/compute/rollups", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			dateStr := c.Query("date") // Format: YYYY-MM-DD
			if dateStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "date parameter is required (format: YYYY-MM-DD)")
			}

			versionDate, err := parseDate(dateStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid date format. Use YYYY-MM-DD")
			}

			result, err := api.RollupService.ComputeRollups(ctx, versionDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, result)
		},
	)

	// Public endpoint to read part summaries for a date, optionally one title
	api.Router.Get(
		"/rollups/parts", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			dateStr := c.Query("date") // Format: YYYY-MM-DD
			if dateStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "date parameter is required (format: YYYY-MM-DD)")
			}

			versionDate, err := parseDate(dateStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid date format. Use YYYY-MM-DD")
			}

			titleNum := c.QueryInt("title") // optional

			summaries, err := api.SummaryDAO.FindPartSummaries(ctx, versionDate, titleNum)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, summaries)
		},
	)

	// Public endpoint to read agency summaries for a date
	api.Router.Get(
		"/rollups/agencies", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			dateStr := c.Query("date") // Format: YYYY-MM-DD
			if dateStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "date parameter is required (format: YYYY-MM-DD)")
			}

			versionDate, err := parseDate(dateStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid date format. Use YYYY-MM-DD")
			}

			summaries, err := api.SummaryDAO.FindAgencySummaries(ctx, versionDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, summaries)
		},
	)
}
