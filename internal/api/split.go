package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basketsplit/basketsplit/internal/api/dto"
	"github.com/basketsplit/basketsplit/internal/domain/splitter"
	"github.com/basketsplit/basketsplit/internal/infrastructure/storage"
)

func (s *Server) claimItem(c *gin.Context) {
	itemID, ok := paramInt64(c, "itemID")
	if !ok {
		return
	}
	userID, ok := paramInt64(c, "userID")
	if !ok {
		return
	}

	if err := s.repo.ClaimItem(itemID, userID); err != nil {
		s.logger.Error("failed to claim item", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) unclaimItem(c *gin.Context) {
	itemID, ok := paramInt64(c, "itemID")
	if !ok {
		return
	}
	userID, ok := paramInt64(c, "userID")
	if !ok {
		return
	}

	if err := s.repo.UnclaimItem(itemID, userID); err != nil {
		s.logger.Error("failed to unclaim item", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}

// getReceiptSplit computes each participant's owed amount from the
// current claims on a receipt's item rows.
func (s *Server) getReceiptSplit(c *gin.Context) {
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	if _, err := s.repo.GetReceipt(orderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundError("receipt"))
			return
		}
		s.logger.Error("failed to get receipt", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
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

	itemClaims := make([]splitter.ItemClaim, 0, len(items))
	for _, item := range items {
		itemClaims = append(itemClaims, splitter.ItemClaim{
			ItemID:  item.ID,
			Price:   item.Price,
			UserIDs: claims[item.ID],
		})
	}

	result, err := splitter.Split(itemClaims)
	if err != nil {
		s.logger.Error("failed to compute split", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	resp := dto.SplitResponse{
		OrderID:        orderID,
		Shares:         make([]dto.ShareResponse, 0, len(result.Shares)),
		ClaimedTotal:   result.ClaimedTotal,
		UnclaimedTotal: result.UnclaimedTotal,
	}
	for _, share := range result.Shares {
		resp.Shares = append(resp.Shares, dto.ShareResponse{
			UserID: share.UserID,
			Amount: share.Amount,
		})
	}
	c.JSON(http.StatusOK, resp)
}
