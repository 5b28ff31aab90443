package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"galleria/internal/service"
)

// StorageHandler exposes presigned upload/view URLs and the server-mediated
// upload fallback for browsers blocked by cross-origin restrictions.
type StorageHandler struct {
	mediaService service.MediaService
}

// NewStorageHandler creates a new storage handler.
func NewStorageHandler(mediaService service.MediaService) *StorageHandler {
	return &StorageHandler{mediaService: mediaService}
}

// UploadURLRequest asks for a presigned PUT URL. The content type is bound
// into the signature, so the subsequent PUT must send it unchanged.
type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
}

// UploadURLResponse carries the presigned PUT URL and the key the object
// will live under.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// UploadURL godoc
// @Summary Get a presigned upload URL
// @Tags storage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadURLRequest true "Upload target"
// @Success 200 {object} UploadURLResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /storage/upload-url [post]
func (h *StorageHandler) UploadURL(c echo.Context) error {
	var req UploadURLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	uploadURL, key, err := h.mediaService.UploadURL(c.Request().Context(), req.FileName, req.ContentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UploadURLResponse{UploadURL: uploadURL, Key: key})
}

// ViewURL godoc
// @Summary Get a presigned view URL for a stored object
// @Tags storage
// @Produce json
// @Param key query string true "Storage key"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /storage/view-url [get]
func (h *StorageHandler) ViewURL(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing key")
	}

	viewURL, err := h.mediaService.ViewURL(c.Request().Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"viewUrl": viewURL})
}

// Upload godoc
// @Summary Upload an image through the server
// @Tags storage
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /storage/upload [post]
func (h *StorageHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing image file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image file")
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key, err := h.mediaService.Upload(c.Request().Context(), f, fileHeader.Size, fileHeader.Filename, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"key": key})
}
