package handlers

import (
	"photo-contest-system/middleware"
	"photo-contest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContestRoutes(app *fiber.App,
	contestService *services.ContestService,
	submissionService *services.SubmissionService,
	voteService *services.VoteService,
	leaderboardService *services.LeaderboardService) {

	// 🔓 Public routes
	app.Get("/contests", contestService.GetContestsEndpoint)
	app.Get("/contests/:id", contestService.GetContestEndpoint)
	app.Get("/contests/:id/leaderboard", leaderboardService.GetLeaderboardEndpoint)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/contests/:id/photos", submissionService.SubmitPhotoEndpoint)
	secured.Post("/photos/:photo_id/vote/:contest_id", voteService.CastVoteEndpoint)
	secured.Patch("/photos/:id", submissionService.UpdatePhotoEndpoint)
	secured.Delete("/photos/:id", submissionService.DeletePhotoEndpoint)

	// 🔒 Admin-only routes
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/contests", contestService.CreateContestEndpoint)
	admin.Post("/contests/refresh-statuses", contestService.RefreshStatusesEndpoint)
	admin.Post("/contests/:id/cancel", contestService.CancelContestEndpoint)
	admin.Post("/contests/:id/finalize", contestService.FinalizeContestEndpoint)
	admin.Patch("/submissions/:id/status", submissionService.SetSubmissionStatusEndpoint)
}
