package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vbncursed/vkr/delegation-service/internal/config"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
)

func Router(svc *dsvc.Service, pool poolPinger, cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Binder = StrictJSONBinder{}
	e.HTTPErrorHandler = DefaultHTTPErrorHandler

	// Swagger UI (включается флагом ENABLE_SWAGGER=true)
	if cfg.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v1 := e.Group("/api/v1")
	v1.GET("/healthz", Healthz)
	v1.GET("/readyz", Readyz(pool))

	v1.POST("/delegations", CreateDelegation(svc))
	v1.GET("/delegations", ListDelegations(svc))
	v1.POST("/delegations/emergency-revoke", EmergencyRevoke(svc))
	v1.POST("/delegations/:id/revoke", RevokeDelegation(svc))
	v1.POST("/delegations/:id/quota", UpdateQuota(svc))
	v1.GET("/delegations/:id/quota", CheckQuota(svc))

	return e
}
