package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/api/metrics"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

// CartHandler serves the caller's cart. Stock violations are not errors:
// the response carries the outcome and, when relevant, a warning.
type CartHandler struct {
	carts    ports.CartService
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewCartHandler(carts ports.CartService, sessions ports.SessionService, log zerolog.Logger) *CartHandler {
	return &CartHandler{carts: carts, sessions: sessions, log: log}
}

// View handles GET /v1/cart.
//
// @Summary      View the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) View(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(h.carts.View(sid)))
}

// Clear handles DELETE /v1/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(h.carts.Clear(sid)))
}

// AddItem handles POST /v1/cart/items.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addItemRequest  true  "Catalog table, item id and quantity (defaults to 1)"
// @Success      200   {object}  cartMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.carts.AddItem(c.Request().Context(), sid, ports.AddItemInput{
		Table:    domain.CatalogTable(req.Table),
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return h.respond(c, "add", *res)
}

// UpdateItem handles PATCH /v1/cart/items/:id.
//
// @Summary      Change a line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Catalog item id"
// @Param        body  body      updateQuantityRequest  true  "New quantity"
// @Success      200   {object}  cartMutationResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req updateQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.respond(c, "update", h.carts.UpdateQuantity(sid, c.Param("id"), req.Quantity))
}

// RemoveItem handles DELETE /v1/cart/items/:id.
//
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        id  path      string  true  "Catalog item id"
// @Success      200  {object}  cartMutationResponse
// @Router       /v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	return h.respond(c, "remove", h.carts.RemoveItem(sid, c.Param("id")))
}

// Checkout handles POST /v1/cart/checkout. The route is guarded, so the
// session is expected to be authenticated.
//
// @Summary      Check the cart out as a rental request
// @Tags         cart
// @Produce      json
// @Success      201  {object}  domain.Rental
// @Failure      302  {string}  string  "redirect to / when not logged in"
// @Failure      422  {object}  errorResponse
// @Router       /v1/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	who := h.sessions.Current(ctx, sid).Identity()

	rental, err := h.carts.Checkout(ctx, sid, who)
	if err != nil {
		return err
	}
	metrics.CheckoutsTotal.Inc()

	return c.JSON(http.StatusCreated, rental)
}

func (h *CartHandler) respond(c echo.Context, op string, res ports.CartResult) error {
	metrics.CartOutcomesTotal.WithLabelValues(op, string(res.Outcome.Status)).Inc()
	if res.Warning != "" {
		h.log.Info().
			Str("op", op).
			Str("reason", string(res.Outcome.Reason)).
			Msg(res.Warning)
	}
	return c.JSON(http.StatusOK, toCartMutationResponse(res))
}
