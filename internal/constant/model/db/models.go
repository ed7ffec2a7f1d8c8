package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment represents a payment entity in the database
type Payment struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID            string            `gorm:"type:varchar(255);not null;index" json:"user_id"`
	Amount            int64             `gorm:"not null" json:"amount"`
	Currency          string            `gorm:"type:varchar(3);not null" json:"currency"`
	Provider          string            `gorm:"type:varchar(50);not null" json:"provider"`
	Phone             string            `gorm:"type:varchar(20)" json:"phone"`
	Status            string            `gorm:"type:varchar(20);not null;index" json:"status"`
	Description       string            `gorm:"type:varchar(255)" json:"description"`
	ProviderPaymentID string            `gorm:"type:varchar(255)" json:"provider_payment_id"`
	PaymentURL        string            `gorm:"type:varchar(2048)" json:"payment_url"`
	WebhookURL        string            `gorm:"type:varchar(2048)" json:"webhook_url"`
	Metadata          map[string]string `gorm:"serializer:json" json:"metadata"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CompletedAt       *time.Time        `json:"completed_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// Webhook represents a merchant webhook endpoint in the database
type Webhook struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string     `gorm:"type:varchar(255);not null;index" json:"user_id"`
	URL           string     `gorm:"type:varchar(2048);not null" json:"url"`
	Events        []string   `gorm:"serializer:json" json:"events"`
	Secret        string     `gorm:"type:varchar(255)" json:"-"`
	Status        string     `gorm:"type:varchar(20);not null;index" json:"status"`
	DeliveryCount int64      `gorm:"not null;default:0" json:"delivery_count"`
	FailureCount  int64      `gorm:"not null;default:0" json:"failure_count"`
	LastDelivery  *time.Time `json:"last_delivery"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Webhook) TableName() string {
	return "webhooks"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (w *Webhook) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (w *Webhook) BeforeUpdate(tx *gorm.DB) error {
	w.UpdatedAt = time.Now()
	return nil
}
