package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
)

// TableHandler manages table administration endpoints.
type TableHandler struct {
	facade TableFacade
}

// NewTableHandler constructs TableHandler.
func NewTableHandler(facade TableFacade) *TableHandler {
	return &TableHandler{facade: facade}
}

// Create handles POST /api/tables.
func (h *TableHandler) Create(c *gin.Context) {
	var req dto.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	table, err := h.facade.CreateTable(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTableResponse(*table))
}

// List handles GET /api/tables.
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.facade.Tables(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		response = append(response, toTableResponse(t))
	}
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/tables/:id.
func (h *TableHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid table id"})
		return
	}

	if err := h.facade.DeleteTable(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Override handles PATCH /api/tables/:id/status.
func (h *TableHandler) Override(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid table id"})
		return
	}

	var req dto.TableOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.facade.OverrideTable(c.Request.Context(), id, model.TableStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func toTableResponse(table model.Table) dto.TableResponse {
	return dto.TableResponse{
		ID:     table.ID,
		Name:   table.Name,
		Status: string(table.Status),
	}
}
