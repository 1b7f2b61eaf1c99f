package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/basketsplit/basketsplit/internal/api/dto"
	"github.com/basketsplit/basketsplit/internal/infrastructure/storage"
	"github.com/basketsplit/basketsplit/internal/pdftext"
	"github.com/basketsplit/basketsplit/internal/receipt"
)

// uploadReceipt accepts a multipart PDF upload, parses it and persists
// the expanded item rows. The whole upload fails on any parse error so
// a malformed line can never corrupt a stored total.
func (s *Server) uploadReceipt(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("missing multipart field 'file'"))
		return
	}

	retailer := c.DefaultPostForm("retailer", s.config.Retailer)
	parser, err := s.parsers.Get(retailer)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("unknown retailer "+strconv.Quote(retailer)))
		return
	}

	var groupID *int64
	if raw := c.PostForm("group_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.BadRequestError("group_id must be an integer"))
			return
		}
		groupID = &id
	}

	// The PDF library needs a real file, so spool the upload to disk for
	// the duration of the parse.
	uploadDir := s.config.UploadDir
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	dst := filepath.Join(uploadDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("failed to save upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	defer os.Remove(dst)

	lines, err := pdftext.ExtractLines(dst)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("file is not a readable PDF"))
		return
	}

	parsed, err := receipt.Parse(parser, lines)
	if err != nil {
		code, apiErr := parseErrorResponse(err)
		c.JSON(code, apiErr)
		return
	}

	var total float64
	for _, row := range parsed.Rows {
		total += row.UnitPrice
	}

	rec := &storage.ReceiptRecord{
		OrderID:    parsed.Header.OrderID,
		SlotTime:   parsed.Header.OrderTime,
		TotalPrice: total,
		Retailer:   retailer,
		GroupID:    groupID,
		ItemCount:  len(parsed.Rows),
	}
	if err := s.repo.SaveReceipt(rec, parsed.Rows); err != nil {
		s.logger.Error("failed to save receipt",
			slog.Int64("order_id", rec.OrderID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	s.logger.Info("receipt stored",
		slog.Int64("order_id", rec.OrderID),
		slog.Int("items", len(parsed.Rows)))

	c.JSON(http.StatusCreated, toReceiptResponse(rec))
}

// parseErrorResponse maps parser error kinds onto API error codes.
func parseErrorResponse(err error) (int, dto.APIError) {
	switch {
	case errors.Is(err, receipt.ErrMalformedHeader):
		return http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeMalformedHeader, err.Error())
	case errors.Is(err, receipt.ErrMissingSectionMarkers):
		return http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeMissingSectionMarkers, err.Error())
	case errors.Is(err, receipt.ErrFieldSplit):
		return http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeFieldSplit, err.Error())
	case errors.Is(err, receipt.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeInvalidAmount, err.Error())
	default:
		return http.StatusInternalServerError, dto.InternalError()
	}
}

func (s *Server) listReceipts(c *gin.Context) {
	receipts, err := s.repo.ListReceipts()
	if err != nil {
		s.logger.Error("failed to list receipts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	resp := dto.ReceiptListResponse{
		Receipts:   make([]dto.ReceiptResponse, 0, len(receipts)),
		TotalCount: len(receipts),
	}
	for i := range receipts {
		resp.Receipts = append(resp.Receipts, toReceiptResponse(&receipts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getReceipt(c *gin.Context) {
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	rec, err := s.repo.GetReceipt(orderID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NotFoundError("receipt"))
		return
	}
	if err != nil {
		s.logger.Error("failed to get receipt", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(rec))
}

func (s *Server) listReceiptItems(c *gin.Context) {
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	items, err := s.repo.ListItems(orderID)
	if err != nil {
		s.logger.Error("failed to list items", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	claims, err := s.repo.ListClaims(orderID)
	if err != nil {
		s.logger.Error("failed to list claims", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	resp := dto.ItemListResponse{
		OrderID: orderID,
		Items:   make([]dto.ItemResponse, 0, len(items)),
	}
	for _, item := range items {
		userIDs := claims[item.ID]
		if userIDs == nil {
			userIDs = []int64{}
		}
		resp.Items = append(resp.Items, dto.ItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			WeightKG: item.WeightKG,
			Price:    item.Price,
			Position: item.Position,
			UserIDs:  userIDs,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toReceiptResponse(rec *storage.ReceiptRecord) dto.ReceiptResponse {
	return dto.ReceiptResponse{
		OrderID:    rec.OrderID,
		SlotTime:   rec.SlotTime,
		TotalPrice: rec.TotalPrice,
		Retailer:   rec.Retailer,
		GroupID:    rec.GroupID,
		ItemCount:  rec.ItemCount,
		CreatedAt:  rec.CreatedAt,
	}
}

// paramInt64 parses an integer path parameter, writing a 400 response
// on failure.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	val, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(name+" must be an integer"))
		return 0, false
	}
	return val, true
}
