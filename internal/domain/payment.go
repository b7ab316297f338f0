package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus PENDING moves once, to SUCCESS or FAILED
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment listing fee payment, one row per gateway order
type Payment struct {
	ID               uint64         `gorm:"primaryKey" json:"id"`
	SellerID         string         `gorm:"column:seller_id;type:varchar(36);not null;index" json:"seller_id"`
	ListingID        string         `gorm:"column:listing_id;type:varchar(36);not null;index" json:"listing_id"`
	Amount           float64        `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Currency         string         `gorm:"column:currency;size:3;not null" json:"currency"`
	GatewayOrderID   string         `gorm:"column:gateway_order_id;size:100;not null;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string         `gorm:"column:gateway_payment_id;size:100" json:"gateway_payment_id,omitempty"`
	Signature        string         `gorm:"column:signature;size:255" json:"-"`
	Status           PaymentStatus  `gorm:"column:status;size:10;not null;index" json:"status"`
	GatewayOrder     datatypes.JSON `gorm:"column:gateway_order" json:"-"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal SUCCESS and FAILED never change
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentFailed
}

// ConfirmPaymentRequest gateway checkout callback
type ConfirmPaymentRequest struct {
	OrderID   string `json:"order_id" form:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"payment_id" form:"razorpay_payment_id" binding:"required"`
	Signature string `json:"signature" form:"razorpay_signature" binding:"required"`
}

// CheckoutResponse everything the client needs to open the gateway checkout
type CheckoutResponse struct {
	PaymentID uint64  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	KeyID     string  `json:"key_id"`
	ListingID string  `json:"listing_id"`
}
