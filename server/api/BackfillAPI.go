package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rbannon32/lawscan/server/backfill"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/httpresponse"
	"github.com/rbannon32/lawscan/server/service"
)

type BackfillAPI struct {
	Router           fiber.Router
	BackfillService  *service.BackfillService
	ComputedValueDAO *dao.ComputedValueDAO
}

func (api *BackfillAPI) Register() {
	// Admin endpoint to run a backfill over a date range
	api.Router.Post(
		"/backfill/run", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			startStr := c.Query("startDate") // Format: YYYY-MM-DD
			endStr := c.Query("endDate")     // Format: YYYY-MM-DD
			if startStr == "" || endStr == "" {
				return httpresponse.ApplyBadRequestToResponse(c,
					"startDate and endDate parameters are required (format: YYYY-MM-DD)")
			}

			startDate, err := parseDate(startStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid startDate format. Use YYYY-MM-DD")
			}

			endDate, err := parseDate(endStr)
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, "Invalid endDate format. Use YYYY-MM-DD")
			}

			titleNums, err := parseTitleNums(c.Query("titles"))
			if err != nil {
				return httpresponse.ApplyBadRequestToResponse(c, err.Error())
			}

			opts := service.BackfillOptions{
				StartDate:  startDate,
				EndDate:    endDate,
				TitleNums:  titleNums,
				Workers:    c.QueryInt("workers"),
				JobTimeout: time.Duration(c.QueryInt("jobTimeoutMinutes")) * time.Minute,
				SmartSkip:  c.QueryBool("smartSkip", true),
				ResumeFrom: c.Query("resumeFrom"),
				DryRun:     c.QueryBool("dryRun"),
			}

			summary, err := api.BackfillService.Run(ctx, opts)
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, summary)
		},
	)

	// Public endpoint to inspect a run manifest
	api.Router.Get(
		"/backfill/manifest", func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			runId := c.Query("runId")
			if runId == "" {
				return httpresponse.ApplyBadRequestToResponse(c, "runId parameter is required")
			}

			cv, err := api.ComputedValueDAO.FindByKey(ctx, data.ComputedValueKeyRunManifest(runId))
			if err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}
			if cv == nil {
				return httpresponse.ApplyBadRequestToResponse(c, "No manifest found for run "+runId)
			}

			var manifest backfill.Manifest
			if err := json.Unmarshal(cv.Data, &manifest); err != nil {
				return httpresponse.ApplyErrorToResponse(c, "Unexpected error", err)
			}

			return httpresponse.ApplySuccessToResponse(c, manifest)
		},
	)
}
