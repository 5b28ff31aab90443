package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"galleria/internal/repository"
	"galleria/internal/service"
)

// AuctionHandler handles auction listing endpoints.
type AuctionHandler struct {
	listingService service.ListingService
}

// NewAuctionHandler creates a new auction handler.
func NewAuctionHandler(listingService service.ListingService) *AuctionHandler {
	return &AuctionHandler{listingService: listingService}
}

// CreateAuctionRequest represents an auction creation request. The owner is
// always the authenticated caller; a client-supplied owner is ignored.
type CreateAuctionRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Image      string `json:"image" validate:"required,max=512"`
	CategoryID *uint  `json:"category_id" validate:"omitempty,gt=0"`
}

// UpdateAuctionRequest represents a partial auction update.
type UpdateAuctionRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=255"`
	Image      *string `json:"image" validate:"omitempty,min=1,max=512"`
	CategoryID *uint   `json:"category_id" validate:"omitempty,gt=0"`
}

// Create godoc
// @Summary Create an auction listing
// @Tags auctions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAuctionRequest true "Auction data"
// @Success 201 {object} model.Auction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auctions [post]
func (h *AuctionHandler) Create(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auction, err := h.listingService.Create(c.Request().Context(), userID, req.Title, req.Image, req.CategoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, auction)
}

// List godoc
// @Summary List auctions with keyset pagination
// @Tags auctions
// @Produce json
// @Param categoryID query int false "Filter by category"
// @Param userId query int false "Filter by owner"
// @Param limit query int false "Page size (default 12)"
// @Param cursor query int false "Resume after this auction id"
// @Success 200 {object} model.AuctionPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /auctions [get]
func (h *AuctionHandler) List(c echo.Context) error {
	var filter repository.AuctionFilter

	if v := c.QueryParam("categoryID"); v != "" {
		id, err := parseUint(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid categoryID")
		}
		filter.CategoryID = &id
	}
	if v := c.QueryParam("userId"); v != "" {
		id, err := parseUint(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		filter.UserID = &id
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	var cursor *uint
	if v := c.QueryParam("cursor"); v != "" {
		id, err := parseUint(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid cursor")
		}
		cursor = &id
	}

	page, err := h.listingService.List(c.Request().Context(), filter, limit, cursor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Recent godoc
// @Summary Newest auctions, fixed size
// @Tags auctions
// @Produce json
// @Success 200 {array} model.EnrichedAuction
// @Router /auctions/recent [get]
func (h *AuctionHandler) Recent(c echo.Context) error {
	items, err := h.listingService.FindRecent(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get one auction
// @Tags auctions
// @Produce json
// @Param id path int true "Auction ID"
// @Success 200 {object} model.EnrichedAuction
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id} [get]
func (h *AuctionHandler) Get(c echo.Context) error {
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	auction, err := h.listingService.FindOne(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// Update godoc
// @Summary Update an auction
// @Tags auctions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Auction ID"
// @Param request body UpdateAuctionRequest true "Fields to update"
// @Success 200 {object} model.EnrichedAuction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id} [patch]
func (h *AuctionHandler) Update(c echo.Context) error {
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auction, err := h.listingService.Update(c.Request().Context(), id, req.Title, req.Image, req.CategoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// Delete godoc
// @Summary Delete an auction
// @Tags auctions
// @Security BearerAuth
// @Param id path int true "Auction ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id} [delete]
func (h *AuctionHandler) Delete(c echo.Context) error {
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.listingService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByUser godoc
// @Summary Every auction of one owner, unpaginated
// @Tags auctions
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} model.EnrichedAuction
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/{id}/auctions [get]
func (h *AuctionHandler) ListByUser(c echo.Context) error {
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	items, err := h.listingService.FindAllByUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
