package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /v1/catalog/:table.
//
// @Summary      List catalog items
// @Tags         catalog
// @Produce      json
// @Param        table  path      string  true  "equipment, consumables or meeting_rooms"
// @Success      200    {object}  catalogListResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/catalog/{table} [get]
func (h *CatalogHandler) List(c echo.Context) error {
	table := domain.CatalogTable(c.Param("table"))

	items, err := h.catalog.List(c.Request().Context(), table)
	if err != nil {
		return err
	}

	resp := catalogListResponse{Table: string(table), Items: make([]catalogItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, toCatalogItemResponse(it))
	}
	return c.JSON(http.StatusOK, resp)
}

func toCatalogItemResponse(it domain.CatalogItem) catalogItemResponse {
	return catalogItemResponse{
		ID:         it.ID,
		Name:       it.Name,
		Table:      string(it.Table),
		TotalStock: it.TotalStock,
	}
}
