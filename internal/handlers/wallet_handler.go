package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet handles GET /wallets/:id
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// MoneyRequest is the body of deposit and withdrawal requests
type MoneyRequest struct {
	Amount    float64 `json:"amount" binding:"required"`
	Reference string  `json:"reference"`
}

// Deposit handles POST /wallets/:id/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request MoneyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, tx, err := h.walletService.Deposit(c.Request.Context(), id, request.Amount, request.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "transaction": tx})
}

// Withdraw handles POST /wallets/:id/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request MoneyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, tx, err := h.walletService.Withdraw(c.Request.Context(), id, request.Amount, request.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "transaction": tx})
}

// GetTransactions handles GET /wallets/:id/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	page, limit := pagination(c)
	transactions, err := h.walletService.GetTransactions(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
