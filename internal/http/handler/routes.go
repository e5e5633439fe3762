package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/service"
)

// Services are the collaborators exposed over HTTP.
type Services struct {
	Requests service.RequestService
	Workflow service.WorkflowService
	Access   service.AccessService
	Library  service.LibraryService
}

// RegisterRoutes attaches the probes and the /api group. Every /api route requires a
// caller identity.
func RegisterRoutes(app *fiber.App, store Pinger, svc Services) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.Identity())

	api.Post("/requests", SubmitRequest(svc.Requests))
	api.Get("/requests/mine", MyRequests(svc.Requests))
	api.Get("/requests/:requestId/timeline", Timeline(svc.Requests))
	api.Post("/requests/:requestId/levels/:level/decision", Decide(svc.Workflow, svc.Requests))

	api.Get("/approvals/pending", PendingApprovals(svc.Requests))
	api.Get("/approvals/approved", ApprovedApprovals(svc.Requests))
	api.Get("/me/access", MyAccess(svc.Access))

	api.Get("/library", ListLibrary(svc.Library))
	api.Get("/library/:id", GetLibraryItem(svc.Library))
	api.Get("/library/:id/download-url", DownloadURL(svc.Library))
}
