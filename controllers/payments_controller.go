package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog/log"

	config "github.com/ieee-vbit/registration-backend-go/config"
)

// CreateOrderInput is the payment-order request body. Amount is in
// rupees; Razorpay wants paise.
type CreateOrderInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentOrder creates a Razorpay order for the checkout widget.
// The route is CORS-restricted to the configured origin allow-list; the
// client persists the registration only after the checkout handler
// reports a payment id.
func CreatePaymentOrder(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			log.Error().Msg("razorpay keys are not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server configuration error"})
			return
		}

		var input CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		client := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		order, err := client.Order.Create(map[string]interface{}{
			"amount":   int64(input.Amount * 100),
			"currency": "INR",
			"receipt":  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		}, nil)
		if err != nil {
			log.Error().Err(err).Msg("error creating razorpay order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
