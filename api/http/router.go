package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talosync/jobportal/api/http/handlers"
	"github.com/talosync/jobportal/pkg/security/jwt"
	"github.com/talosync/jobportal/pkg/user"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	authMW fiber.Handler,
	users *handlers.UserHandler,
	companies *handlers.CompanyHandler,
	jobs *handlers.JobHandler,
	applications *handlers.ApplicationHandler,
	adm *handlers.AdminHandler,
	health *handlers.HealthHandler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	candidate := jwt.RequireRoles(string(user.RoleCandidate))
	employer := jwt.RequireRoles(string(user.RoleEmployer))
	adminOnly := jwt.RequireRoles(string(user.RoleAdmin))

	u := v1.Group("/users")
	u.Post("/register", users.Register)
	u.Post("/login", users.Login)
	u.Put("/profile", authMW, users.UpdateProfile)
	u.Post("/profile/resume", authMW, candidate, users.UploadResume)
	u.Post("/profile/photo", authMW, users.UploadPhoto)
	u.Post("/save-job/:jobId", authMW, candidate, users.ToggleSaveJob)
	u.Get("/saved-jobs", authMW, candidate, users.SavedJobs)
	u.Post("/toggle-alerts", authMW, candidate, users.ToggleJobAlerts)

	co := v1.Group("/companies")
	co.Post("/", authMW, employer, companies.Create)
	co.Get("/me", authMW, employer, companies.GetMine)
	co.Put("/", authMW, employer, companies.Update)

	// Public catalog first, employer routes behind auth. The static
	// "/employer" segment must be registered before "/:id".
	j := v1.Group("/jobs")
	j.Get("/", jobs.List)
	j.Get("/employer", authMW, employer, jobs.EmployerJobs)
	j.Get("/:id", jobs.Get)
	j.Post("/", authMW, employer, jobs.Create)
	j.Put("/:id", authMW, employer, jobs.Update)
	j.Delete("/:id", authMW, employer, jobs.Delete)
	j.Get("/:id/analytics", authMW, employer, jobs.Analytics)

	a := v1.Group("/applications")
	a.Get("/my", authMW, candidate, applications.ListMine)
	a.Post("/:jobId", authMW, candidate, applications.Apply)
	a.Delete("/:id", authMW, candidate, applications.Withdraw)
	a.Get("/job/:jobId", authMW, employer, applications.ListForJob)
	a.Patch("/:id/status", authMW, employer, applications.UpdateStatus)
	a.Get("/:applicationId/resume", authMW, employer, applications.DownloadResume)

	ad := v1.Group("/admin", authMW, adminOnly)
	ad.Get("/stats", adm.Stats)
	ad.Get("/users", adm.ListUsers)
	ad.Post("/users", users.Register) // admin creates accounts of any role
	ad.Delete("/users/:id", adm.DeleteUser)
	ad.Patch("/users/:id/block", adm.ToggleBlock)
	ad.Get("/jobs", adm.ListJobs)
	ad.Delete("/jobs/:id", adm.DeleteJob)
	ad.Get("/companies", adm.ListCompanies)
	ad.Delete("/companies/:id", adm.DeleteCompany)
}
