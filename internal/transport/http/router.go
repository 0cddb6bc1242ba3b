package httpserver

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/authz"
	"github.com/Skotchmaster/foodmarket/internal/db"
	"github.com/Skotchmaster/foodmarket/internal/service"
	"github.com/Skotchmaster/foodmarket/internal/storage"
)

const defaultMaxImageSize = 5 << 20

type Deps struct {
	DB      *gorm.DB
	Schema  graphql.Schema
	Catalog *service.CatalogService
	Policy  *authz.Policy

	// Media is served under /media when images are kept in process.
	Media        *storage.Memory
	MaxImageSize int64
}

func Register(e *echo.Echo, d *Deps) {
	if d.Policy == nil {
		d.Policy = authz.DefaultPolicy()
	}
	if d.MaxImageSize <= 0 {
		d.MaxImageSize = defaultMaxImageSize
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})

	gql := &graphQLHandler{schema: d.Schema}
	e.GET("/graphql", gql.Get)
	e.POST("/graphql", gql.Post)

	v1 := e.Group("/api/v1")

	images := &imageHandler{catalog: d.Catalog, policy: d.Policy, maxSize: d.MaxImageSize}
	v1.POST("/menu-items/:id/image", images.Upload)

	if d.Media != nil {
		e.GET("/media/*", mediaHandler(d.Media))
	}
}
