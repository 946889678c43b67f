package http

import (
	"net/http"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/usecase/document"
	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
)

type DocumentHandler struct {
	base
	uc *document.Usecase
}

func NewDocumentHandler(uc *document.Usecase, l log.Logger) *DocumentHandler {
	return &DocumentHandler{base: base{logger: l}, uc: uc}
}

type createDocumentReq struct {
	DocumentType string `json:"document_type" validate:"required,max=64"`
}

type fulfilDocumentReq struct {
	FilePath string `json:"file_path" validate:"required,max=1024"`
}

func (h *DocumentHandler) Create(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	var req createDocumentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	d, err := h.uc.Create(c.Request().Context(), actor.ID, req.DocumentType)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DocumentHandler) Inbox(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	ds, err := h.uc.ListForApprover(c.Request().Context(), actor.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *DocumentHandler) ListByEmployee(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	ds, err := h.uc.ListByEmployee(c.Request().Context(), empID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *DocumentHandler) Fulfil(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	var req fulfilDocumentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	d, err := h.uc.Fulfil(c.Request().Context(), ref.RequestID, actor.ID, req.FilePath)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) Reject(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	d, err := h.uc.Reject(c.Request().Context(), ref.RequestID, actor.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), ref.RequestID, actor.ID, actor.Role); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
