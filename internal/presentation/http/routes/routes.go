// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/container"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/handlers"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Serve stored evidence photos and the static ops dashboard.
	r.Static("/media", container.MediaBasePath)
	r.Static("/ops", "web/ops")

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	encounterHandlers := handlers.NewEncounterHandlers(container.EncounterService, container.EvidenceService, container.Geocoder, container.Logger, container.PerfTracker)
	contactHandlers := handlers.NewContactHandlers(container.ContactService, container.Logger, container.PerfTracker)
	alertHandlers := handlers.NewAlertHandlers(container.AlertService, container.Geocoder, container.Logger, container.PerfTracker)
	guideHandlers := handlers.NewGuideHandlers(container.GuideService, container.Logger)
	stateHandlers := handlers.NewStateHandlers(container.StateHub, container.Broadcaster, container.Logger, container.PerfTracker)
	locationHandlers := handlers.NewLocationHandlers(container.Geocoder, container.Logger)
	opsHandlers := handlers.NewOpsHandlers(container.OpsService, container.OpsBroadcaster, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB)

	// Ops dashboard API
	opsAPI := r.Group("/api/ops")
	{
		opsAPI.GET("/auth", opsHandlers.AuthCheck)
		opsAPI.POST("/login", opsHandlers.Login)
		opsAPI.GET("/feed", opsHandlers.GetFeed)

		opsAPI.Use(opsHandlers.OpsAuthMiddleware())
		{
			opsAPI.GET("/activity", opsHandlers.GetActivity)
		}
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.POST("/auth/signin", authHandlers.PostSignIn)

		// Public guide content
		api.GET("/guides/rights", guideHandlers.GetRights)
		api.GET("/guides/phrases", guideHandlers.GetPhrases)
		api.GET("/guides/states/:code", guideHandlers.GetStateInfo)
		api.GET("/location/resolve", locationHandlers.GetResolve)

		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware())
		{
			authenticated.POST("/auth/signout", authHandlers.PostSignOut)
			authenticated.GET("/auth/profile", authHandlers.GetProfile)
			authenticated.PUT("/auth/profile", authHandlers.PutProfile)

			authenticated.GET("/state", stateHandlers.GetState)
			authenticated.GET("/state/stream", stateHandlers.GetStream)

			authenticated.POST("/encounters/start", encounterHandlers.PostStart)
			authenticated.GET("/encounters", encounterHandlers.GetHistory)
			authenticated.GET("/encounters/:id", encounterHandlers.GetEncounter)
			authenticated.POST("/encounters/:id/end", encounterHandlers.PostEnd)
			authenticated.POST("/encounters/:id/cancel", encounterHandlers.PostCancel)
			authenticated.POST("/encounters/:id/evidence", encounterHandlers.PostEvidence)
			authenticated.POST("/recording/start", encounterHandlers.PostRecordingStart)
			authenticated.POST("/recording/stop", encounterHandlers.PostRecordingStop)

			authenticated.GET("/contacts", contactHandlers.GetContacts)
			authenticated.POST("/contacts", contactHandlers.PostContact)
			authenticated.PUT("/contacts/:id", contactHandlers.PutContact)
			authenticated.DELETE("/contacts/:id", contactHandlers.DeleteContact)

			authenticated.POST("/alerts/dispatch", alertHandlers.PostDispatch)

			authenticated.PUT("/guides/jurisdiction", guideHandlers.PutJurisdiction)
			authenticated.POST("/guides/scripts", guideHandlers.PostScript)
		}
	}

	return r
}
