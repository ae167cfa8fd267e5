package internal

import (
	"net/http"

	"hangovr/internal/controllers"
	"hangovr/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/session", http.HandlerFunc(apiController.StartSession))
	routers.Delete("/session", http.HandlerFunc(apiController.CloseSession))
	routers.Post("/step1", http.HandlerFunc(apiController.SubmitSeverity))
	routers.Post("/step2", http.HandlerFunc(apiController.SubmitProfile))
	routers.Post("/step3", http.HandlerFunc(apiController.SubmitHabits))
	routers.Get("/result", http.HandlerFunc(apiController.GetResult))
	return routers
}
