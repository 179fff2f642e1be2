package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgAdded   = "Transaction added successfully"
	msgUpdated = "Transaction updated successfully"
	msgDeleted = "Transaction deleted successfully"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description All transactions, newest date first, then newest created first
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.TransactionResponse}
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	return h.list(c).send(c)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 404 {object} dto.Response
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	return h.get(c, dto.ParseID(c.Params("id"))).send(c)
}

// CreateTransaction godoc
// @Summary Add a transaction
// @Description type and category are required, amount must be positive, date defaults to today
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	r := h.add(c, &req)
	if r.status == fiber.StatusOK {
		r.status = fiber.StatusCreated
	}
	return r.send(c)
}

// UpdateTransaction godoc
// @Summary Replace a transaction
// @Description Full-row replace. Whether a missing id is an error depends on MUTATION_MODE
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	return h.update(c, dto.ParseID(c.Params("id")), &req).send(c)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	return h.delete(c, dto.ParseID(c.Params("id"))).send(c)
}

// GetStatistics godoc
// @Summary Income, expense and balance totals with breakdowns
// @Description Monthly breakdown is limited to the 12 most recent month/type rows
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.Response{data=dto.StatisticsResponse}
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions/stats [get]
func (h *TransactionHandler) GetStatistics(c *fiber.Ctx) error {
	return h.stats(c).send(c)
}

// ExportTransactions godoc
// @Summary Download all transactions
// @Tags transactions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /api/v1/transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *fiber.Ctx) error {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		return failure(err, "exporting transactions").send(c)
	}

	// buffered so a failure can still be answered with an envelope
	var buf bytes.Buffer
	if err := h.txService.Export(c.Context(), &buf, format); err != nil {
		return failure(err, "exporting transactions").send(c)
	}

	c.Attachment(fmt.Sprintf("transactions_%s.%s", time.Now().Format("20060102"), format.Extension()))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buf.Bytes())
}

func (h *TransactionHandler) list(c *fiber.Ctx) reply {
	transactions, err := h.txService.List(c.Context())
	if err != nil {
		return failure(err, "fetching transactions")
	}
	return reply{fiber.StatusOK, dto.OK(transactions)}
}

func (h *TransactionHandler) get(c *fiber.Ctx, id int64) reply {
	tx, err := h.txService.Get(c.Context(), id)
	if err != nil {
		return failure(err, "fetching transaction")
	}
	return reply{fiber.StatusOK, dto.OK(tx)}
}

func (h *TransactionHandler) add(c *fiber.Ctx, req *dto.TransactionRequest) reply {
	id, err := h.txService.Add(c.Context(), req)
	if err != nil {
		return failure(err, "adding transaction")
	}
	return reply{fiber.StatusOK, dto.Response{Success: true, Message: msgAdded, ID: id}}
}

func (h *TransactionHandler) update(c *fiber.Ctx, id int64, req *dto.TransactionRequest) reply {
	if err := h.txService.Update(c.Context(), id, req); err != nil {
		return failure(err, "updating transaction")
	}
	return reply{fiber.StatusOK, dto.Response{Success: true, Message: msgUpdated}}
}

func (h *TransactionHandler) delete(c *fiber.Ctx, id int64) reply {
	if err := h.txService.Delete(c.Context(), id); err != nil {
		return failure(err, "deleting transaction")
	}
	return reply{fiber.StatusOK, dto.Response{Success: true, Message: msgDeleted}}
}

func (h *TransactionHandler) stats(c *fiber.Ctx) reply {
	stats, err := h.txService.Statistics(c.Context())
	if err != nil {
		return failure(err, "fetching statistics")
	}
	return reply{fiber.StatusOK, dto.OK(stats)}
}

// failure maps a service error to a status and envelope. Storage errors are
// passed through verbatim behind the operation name.
func failure(err error, op string) reply {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return reply{fiber.StatusBadRequest, dto.Fail("Please fill all required fields")}
	case errors.Is(err, service.ErrInvalidType):
		return reply{fiber.StatusBadRequest, dto.Fail("Invalid transaction type")}
	case errors.Is(err, service.ErrInvalidDate):
		return reply{fiber.StatusBadRequest, dto.Fail("Invalid date format, expected YYYY-MM-DD")}
	case errors.Is(err, service.ErrInvalidID):
		return reply{fiber.StatusBadRequest, dto.Fail("Invalid transaction ID")}
	case errors.Is(err, service.ErrUnsupportedFormat):
		return reply{fiber.StatusBadRequest, dto.Fail("Unsupported export format")}
	case errors.Is(err, service.ErrTransactionNotFound):
		return reply{fiber.StatusNotFound, dto.Fail("Transaction not found")}
	default:
		return reply{fiber.StatusInternalServerError, dto.Fail(fmt.Sprintf("Error %s: %s", op, err.Error()))}
	}
}

// reply is an envelope plus the status the REST routes answer with.
type reply struct {
	status int
	body   dto.Response
}

func (r reply) send(c *fiber.Ctx) error {
	return c.Status(r.status).JSON(r.body)
}
