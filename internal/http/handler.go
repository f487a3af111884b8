package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	dto "complaint-desk.com/complaint-desk/internal/data_models"
	apperrors "complaint-desk.com/complaint-desk/internal/errors"
	middleware "complaint-desk.com/complaint-desk/internal/http/middlewares"
	"complaint-desk.com/complaint-desk/internal/services"
)

type Handler struct {
	complaintService *services.ComplaintService
}

func NewHandler(complaintService *services.ComplaintService) *Handler {
	return &Handler{
		complaintService: complaintService,
	}
}

func (h *Handler) CreateComplaint(c echo.Context) error {
	var req dto.CreateComplaintRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaintService.CreateComplaint(c.Request().Context(), &req, middleware.RequesterID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) ListComplaints(c echo.Context) error {
	query, err := parseListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.complaintService.ListComplaints(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetComplaint(c echo.Context) error {
	complaint, err := h.complaintService.GetComplaint(
		c.Request().Context(),
		c.Param("id"),
		c.QueryParam("includeDeleted") == "true",
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, complaint)
}

func (h *Handler) UpdateComplaint(c echo.Context) error {
	var req dto.UpdateComplaintRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaintService.UpdateComplaint(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, complaint)
}

func (h *Handler) DeleteComplaint(c echo.Context) error {
	resp, err := h.complaintService.DeleteComplaint(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RestoreComplaint(c echo.Context) error {
	complaint, err := h.complaintService.RestoreComplaint(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, complaint)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req dto.UpdateStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaintService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, req.Resolution)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, complaint)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// bindBody decodes only the JSON body. echo's Bind would also read path
// and query parameters into the payload.
func bindBody(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return apperrors.ErrInvalidJSON
	}
	return nil
}

func parseListQuery(c echo.Context) (dto.ListComplaintsQuery, error) {
	var fields []apperrors.FieldError

	page, ok := positiveInt(c.QueryParam("page"))
	if !ok {
		fields = append(fields, apperrors.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	limit, ok := positiveInt(c.QueryParam("limit"))
	if !ok {
		fields = append(fields, apperrors.FieldError{Field: "limit", Message: "limit must be a positive integer"})
	}
	if len(fields) > 0 {
		return dto.ListComplaintsQuery{}, apperrors.InvalidQuery(fields...)
	}

	return dto.ListComplaintsQuery{
		Page:           page,
		Limit:          limit,
		Status:         c.QueryParam("status"),
		Category:       c.QueryParam("category"),
		Priority:       c.QueryParam("priority"),
		Assignee:       c.QueryParam("assignee"),
		Search:         c.QueryParam("q"),
		Sort:           c.QueryParam("sort"),
		IncludeDeleted: c.QueryParam("includeDeleted") == "true",
	}, nil
}

// positiveInt parses an optional positive integer; absent yields 0.
func positiveInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
