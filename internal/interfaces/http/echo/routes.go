package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/catalog"
)

type crudRoutes interface {
	register(g *echo.Group, name string)
}

// EntityRoutes binds one catalog's CRUD handler to its URL name.
type EntityRoutes struct {
	Name    string
	Handler crudRoutes
}

type Routes struct {
	Logger    *logrus.Logger
	Session   sessionRestorer
	Auth      *AuthHandler
	Entities  []EntityRoutes
	Imports   *ImportHandler
	Exports   *ExportHandler
	Dashboard *DashboardHandler
	Reviews   *ReviewHandler
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

func RegisterRoutes(server *echo.Echo, r Routes) {
	if r.Logger == nil {
		r.Logger = logrus.StandardLogger()
	}
	server.HTTPErrorHandler = NewErrorHandler(r.Logger)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if r.Metrics != nil {
		server.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	api := server.Group("/api/v1")
	api.POST("/auth/login", r.Auth.Login)

	secured := api.Group("", RequireSession(r.Session))
	secured.POST("/auth/logout", r.Auth.Logout)
	secured.GET("/auth/me", r.Auth.Me)

	for _, e := range r.Entities {
		e.Handler.register(secured, e.Name)

		base := "/" + e.Name
		secured.GET(base+"/imports/columns", r.Imports.Columns(e.Name))
		secured.POST(base+"/imports/preview", r.Imports.Preview(e.Name))
		secured.POST(base+"/imports", r.Imports.Import(e.Name))
		secured.GET(base+"/export.csv", r.Exports.Export(e.Name, catalog.FormatCSV))
		secured.GET(base+"/export.xlsx", r.Exports.Export(e.Name, catalog.FormatXLSX))
		secured.GET(base+"/report", r.Exports.Export(e.Name, catalog.FormatReport))
	}

	secured.GET("/imports", r.Imports.ListJobs)
	secured.GET("/imports/:id", r.Imports.GetJob)

	secured.PATCH("/interventions/:id/status", r.Dashboard.SetInterventionStatus)
	secured.GET("/dashboard/stats", r.Dashboard.Stats)

	secured.GET("/changes", r.Reviews.ListChanges)
	secured.GET("/changes/:id", r.Reviews.GetChange)
	secured.GET("/changes/:id/review", r.Reviews.GetReview)
	secured.POST("/changes/:id/review", r.Reviews.Analyze)
	secured.DELETE("/changes/:id/review", r.Reviews.ResetReview)
}
