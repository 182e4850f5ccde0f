package controllers

import (
	"errors"
	"strconv"

	"booknest/libs"
	"booknest/models"
	"booknest/repositories"
	"booknest/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

func identityFrom(c *gin.Context) services.Identity {
	return services.Identity{
		UserID:   c.GetInt("user_id"),
		Email:    c.GetString("user_email"),
		FullName: c.GetString("user_name"),
	}
}

// VerifyPayment godoc
// @Summary Verify payment and place order
// @Description Verify the gateway signature for a prepaid checkout and create the order from the cart
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.VerifyPaymentRequest true "Verify Payment Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /orders/verify-payment [post]
func (ctrl *OrderController) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	order, err := ctrl.checkout.CheckoutPrepaid(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Payment verified and order placed", "data": order})
}

// PlaceOrder godoc
// @Summary Place cash on delivery order
// @Description Create an order from the cart with payment collected on delivery
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PlaceOrderRequest true "Place Order Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	order, err := ctrl.checkout.PlaceOrderCOD(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Order placed", "data": order})
}

func (ctrl *OrderController) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(400, gin.H{"success": false, "message": "Address and phone are required"})
	case errors.Is(err, services.ErrCartEmpty):
		c.JSON(400, gin.H{"success": false, "message": "Cart is empty"})
	case errors.Is(err, services.ErrPaymentVerificationFailed):
		c.JSON(400, gin.H{"success": false, "message": "Payment verification failed"})
	case errors.Is(err, services.ErrOrderPersistenceFailed):
		c.JSON(500, gin.H{"success": false, "message": "Failed to save order"})
	default:
		c.JSON(500, gin.H{"success": false, "message": "Failed to place order"})
	}
}

// ListOrders godoc
// @Summary List orders
// @Description List the current user's orders with account metrics
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /orders [get]
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID := c.GetInt("user_id")

	orders, metrics, err := ctrl.orders.ListOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load orders"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Orders retrieved",
		"data":    gin.H{"orders": orders, "metrics": metrics},
	})
}

// TrackOrder godoc
// @Summary Track order
// @Description Get a single order with its current delivery status
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) TrackOrder(c *gin.Context) {
	userID := c.GetInt("user_id")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	order, err := ctrl.orders.TrackOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Order not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to load order"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Order retrieved", "data": order})
}

// CancelOrder godoc
// @Summary Cancel order
// @Description Cancel a processing order on the day it was placed, refunding prepaid payments
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /orders/{id}/cancel [put]
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	order, err := ctrl.orders.Cancel(c.Request.Context(), identityFrom(c), orderID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		case errors.Is(err, services.ErrCancellationNotAllowed):
			c.JSON(400, gin.H{"success": false, "message": "Orders can only be cancelled on the day of purchase while still processing"})
		case errors.Is(err, libs.ErrProviderUnavailable):
			c.JSON(502, gin.H{"success": false, "message": "Payment provider unavailable, please try again"})
		case errors.Is(err, services.ErrRefundFailed):
			c.JSON(502, gin.H{"success": false, "message": "Refund failed, order was not cancelled"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to cancel order"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Order cancelled", "data": order})
}
