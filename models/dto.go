package models

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=3"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type AddToCartRequest struct {
	BookID int `json:"book_id" binding:"required"`
}

// VerifyPaymentRequest carries the gateway's client-side confirmation for a
// prepaid checkout. The signature is untrusted input until the verification
// gate accepts it.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
}

type PlaceOrderRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type OrderMetrics struct {
	TotalOrders      int     `json:"total_orders"`
	TotalSpent       float64 `json:"total_spent"`
	DeliveredOrders  int     `json:"delivered_orders"`
	CancelledOrders  int     `json:"cancelled_orders"`
	ProcessingOrders int     `json:"processing_orders"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
