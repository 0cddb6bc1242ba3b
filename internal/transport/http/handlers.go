package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/authz"
	"github.com/Skotchmaster/foodmarket/internal/graph"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/service"
	"github.com/Skotchmaster/foodmarket/internal/storage"
)

type graphQLHandler struct {
	schema graphql.Schema
}

func (h *graphQLHandler) Get(c echo.Context) error {
	req := graph.Request{
		Query:         c.QueryParam("query"),
		OperationName: c.QueryParam("operationName"),
	}
	if v := c.QueryParam("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "variables must be a JSON object")
		}
	}
	return h.execute(c, req)
}

func (h *graphQLHandler) Post(c echo.Context) error {
	var req graph.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.execute(c, req)
}

func (h *graphQLHandler) execute(c echo.Context, req graph.Request) error {
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	res := graph.Execute(c.Request().Context(), h.schema, req)
	return c.JSON(http.StatusOK, res)
}

type imageHandler struct {
	catalog *service.CatalogService
	policy  *authz.Policy
	maxSize int64
}

type imageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

func (h *imageHandler) fail(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context()).With("svc", "upload_image")
	if apperr.IsInternal(err) {
		l.Error("upload_image", "status", "error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	l.Warn("upload_image", "status", "rejected", "error", err)
	return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
}

func (h *imageHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.policy.Authorize(ctx, "uploadMenuItemImage"); err != nil {
		return h.fail(c, err)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return h.fail(c, fmt.Errorf("invalid menu item id: %w", apperr.ErrInvalidArgument))
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return h.fail(c, fmt.Errorf("image file is required: %w", apperr.ErrInvalidArgument))
	}
	if fh.Size > h.maxSize {
		return h.fail(c, fmt.Errorf("image exceeds %d bytes: %w", h.maxSize, apperr.ErrInvalidArgument))
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	item, err := h.catalog.SetMenuItemImage(ctx, uint(id), fh.Filename, fh.Header.Get(echo.HeaderContentType), f, fh.Size)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, imageResponse{ID: item.ID, Image: h.catalog.ImageURL(item)})
}

func mediaHandler(m *storage.Memory) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, contentType, ok := m.Get(c.Param("*"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.Blob(http.StatusOK, contentType, data)
	}
}
