package services

import "errors"

// Checkout and cancellation failure modes. Controllers translate these to
// HTTP status codes; anything unrecognized is a 500.
var (
	ErrValidation                = errors.New("address and phone are required")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrOrderPersistenceFailed    = errors.New("failed to save order")
	ErrCancellationNotAllowed    = errors.New("orders can only be cancelled on the day of purchase while still processing")
	ErrRefundFailed              = errors.New("payment refund failed")
)

// Account failure modes.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrGoogleAccount      = errors.New("this account uses Google sign-in")
	ErrInvalidResetToken  = errors.New("reset token is invalid or expired")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Identity is the authenticated caller as supplied by the session layer.
// Services never authenticate; they trust what the middleware resolved.
type Identity struct {
	UserID   int
	Email    string
	FullName string
}
