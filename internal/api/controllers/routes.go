package controllers

import "github.com/gin-gonic/gin"

func RegisterWizardRoutes(r gin.IRouter, wizard *WizardController) {
	sessions := r.Group("/sessions")
	sessions.POST("", wizard.CreateSessionHandler)
	sessions.GET("/:id", wizard.GetSessionHandler)
	sessions.DELETE("/:id", wizard.EndSessionHandler)
	sessions.PUT("/:id/api-key", wizard.SetAPIKeyHandler)
	sessions.POST("/:id/preferences", wizard.SubmitPreferencesHandler)
	sessions.POST("/:id/selection", wizard.SubmitSelectionHandler)
	sessions.POST("/:id/itinerary", wizard.PlanDayHandler)
	sessions.POST("/:id/questions", wizard.AskHandler)
	sessions.POST("/:id/back", wizard.BackHandler)
	sessions.POST("/:id/restart", wizard.RestartHandler)
}
