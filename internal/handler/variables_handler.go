package handler

import (
	"net/http"

	"shere/internal/domain"
	"shere/internal/repository"

	"github.com/gin-gonic/gin"
)

// VariablesHandler serves the public pricing variables the purchase and
// withdrawal forms need: price per percent, the payout mobile money account,
// and the withdrawal floor.
type VariablesHandler struct {
	settings *repository.SettingRepository
}

func NewVariablesHandler(settings *repository.SettingRepository) *VariablesHandler {
	return &VariablesHandler{settings: settings}
}

// Get handles GET /variables.
func (h *VariablesHandler) Get(c *gin.Context) {
	payoutNumber, _ := h.settings.Get(domain.SettingPayoutNumber)
	payoutName, _ := h.settings.Get(domain.SettingPayoutNumberName)
	c.JSON(http.StatusOK, gin.H{
		"price_per_percent":  h.settings.GetInt64(domain.SettingPricePerPercent, 200),
		"payout_number":      payoutNumber,
		"payout_number_name": payoutName,
		"min_withdrawal":     h.settings.GetInt64(domain.SettingMinWithdrawal, 1000),
		"share_cap_percent":  domain.ShareCapPercent,
	})
}
