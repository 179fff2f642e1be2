package handlers

import (
	"encoding/json"

	"finance-tracker/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// The single-endpoint API is answered with 200 regardless of outcome;
// success is carried by the envelope only.

// QueryAction godoc
// @Summary Legacy read endpoint
// @Description Dispatches on the action query parameter
// @Tags legacy
// @Produce json
// @Param action query string true "getAll, get or stats"
// @Param id query int false "Transaction ID for action=get"
// @Success 200 {object} dto.Response
// @Router /api [get]
func (h *TransactionHandler) QueryAction(c *fiber.Ctx) error {
	var r reply
	switch dto.Action(c.Query("action")) {
	case dto.ActionGetAll:
		r = h.list(c)
	case dto.ActionGet:
		r = h.get(c, dto.ParseID(c.Query("id")))
	case dto.ActionStats:
		r = h.stats(c)
	default:
		return c.JSON(dto.Fail("Invalid action"))
	}
	return c.JSON(r.body)
}

// CommandAction godoc
// @Summary Legacy write endpoint
// @Description Dispatches on the action field of the JSON body
// @Tags legacy
// @Accept json
// @Produce json
// @Param request body dto.ActionRequest true "add, update or delete with transaction fields"
// @Success 200 {object} dto.Response
// @Router /api [post]
func (h *TransactionHandler) CommandAction(c *fiber.Ctx) error {
	// the body is read as JSON whatever the content type says
	var req dto.ActionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		h.logger.Debug("Unreadable action body", zap.Error(err))
		return c.JSON(dto.Fail("Invalid action"))
	}

	var r reply
	switch req.Action {
	case dto.ActionAdd:
		r = h.add(c, &req.TransactionRequest)
	case dto.ActionUpdate:
		r = h.update(c, int64(req.ID), &req.TransactionRequest)
	case dto.ActionDelete:
		r = h.delete(c, int64(req.ID))
	default:
		return c.JSON(dto.Fail("Invalid action"))
	}
	return c.JSON(r.body)
}
