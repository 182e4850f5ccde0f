package controllers

import (
	"fmt"
	"log"
	"strconv"

	"booknest/models"
	"booknest/repositories"
	"booknest/services"
	"booknest/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartController struct {
	cart    repositories.CartStore
	gateway services.PaymentGateway
}

func NewCartController(cart repositories.CartStore, gateway services.PaymentGateway) *CartController {
	return &CartController{cart: cart, gateway: gateway}
}

// GetCart godoc
// @Summary Get cart
// @Description Get the current user's cart with totals and a payment intent
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	items, err := ctrl.cart.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load cart"})
		return
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	grandTotal := utils.FormatAmount(total)

	// The payment intent is a convenience for the storefront. The cart is
	// still usable when the gateway is down; checkout will fail later with
	// a clearer error.
	var intent interface{}
	if ctrl.gateway != nil && len(items) > 0 {
		receipt := fmt.Sprintf("rcpt_%s", uuid.NewString()[:18])
		order, err := ctrl.gateway.CreateOrder(c.Request.Context(), utils.MinorUnits(grandTotal), "INR", receipt)
		if err != nil {
			log.Printf("Failed to create payment intent for user %d: %v", userID, err)
		} else {
			intent = order
		}
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Cart retrieved",
		"data": gin.H{
			"items":          items,
			"grand_total":    grandTotal,
			"payment_intent": intent,
		},
	})
}

// AddToCart godoc
// @Summary Add to cart
// @Description Add a book to the cart, merging quantity if already present
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddToCartRequest true "Add To Cart Request"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	book := models.FindBookByID(req.BookID)
	if book == nil {
		c.JSON(404, gin.H{"success": false, "message": "Book not found"})
		return
	}

	item := models.CartItem{
		BookID:   book.ID,
		Title:    book.Title,
		Price:    book.Price,
		Image:    book.Image,
		Quantity: 1,
	}
	if err := ctrl.cart.Add(c.Request.Context(), userID, item); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to add to cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Added to cart"})
}

// RemoveFromCart godoc
// @Summary Remove from cart
// @Description Remove a book from the cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Success 200 {object} models.Response
// @Router /cart/{bookId} [delete]
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid book ID"})
		return
	}

	if err := ctrl.cart.Remove(c.Request.Context(), userID, bookID); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove from cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Removed from cart"})
}
