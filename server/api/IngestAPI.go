package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rbannon32/lawscan/server/httpresponse"
	"github.com/rbannon32/lawscan/server/service"
)

type IngestAPI struct {
	Router              fiber.Router
	IngestionService    *service.IngestionService
	VerificationService *service.VerificationService
}

func (api *IngestAPI) Register() {
	// Admin endpoint to ingest one title snapshot for a specific date
	api.Router.Post(
		"/ingest/title", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			titleNum := c.QueryInt("title")
			if titleNum <= 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "title parameter is required")
			}

			dateStr := c.Query("date") // Format: YYYY-MM-DD
			if dateStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "date parameter is required (format: YYYY-MM-DD)")
			}

			versionDate, err := parseDate(dateStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid date format. Use YYYY-MM-DD")
			}

			titleName := c.Query("name")

			result, err := api.IngestionService.IngestTitleSnapshot(ctx, titleNum, titleName, versionDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, result)
		},
	)

	// Public endpoint to verify a stored snapshot against the source counts
	api.Router.Get(
		"/ingest/verify", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			titleNum := c.QueryInt("title")
			if titleNum <= 0 {
				return httpresponse.ApplyBadRequestToResponse(c, "title parameter is required")
			}

			dateStr := c.Query("date") // Format: YYYY-MM-DD
			if dateStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "date parameter is required (format: YYYY-MM-DD)")
			}

			versionDate, err := parseDate(dateStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid date format. Use YYYY-MM-DD")
			}

			result, err := api.VerificationService.VerifyTitle(ctx, titleNum, versionDate)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, result)
		},
	)
}
