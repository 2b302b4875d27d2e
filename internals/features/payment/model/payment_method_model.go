package model

import (
	"time"
)

const (
	MethodBankTransfer   = "bank_transfer"
	MethodVirtualAccount = "virtual_account"
	MethodEWallet        = "e_wallet"
	MethodCreditCard     = "credit_card"
	MethodCash           = "cash"
)

type PaymentMethod struct {
	PaymentMethodID          int     `gorm:"column:payment_method_id;primaryKey;autoIncrement" json:"payment_method_id"`
	PaymentMethodName        string  `gorm:"column:payment_method_name;type:varchar(100);not null" json:"payment_method_name"` // mis. "BCA Virtual Account"
	PaymentMethodType        string  `gorm:"column:payment_method_type;type:varchar(50);not null" json:"payment_method_type"`
	PaymentMethodProvider    *string `gorm:"column:payment_method_provider;type:varchar(100)" json:"payment_method_provider,omitempty"`
	PaymentMethodGatewayCode *string `gorm:"column:payment_method_gateway_code;type:varchar(50)" json:"payment_method_gateway_code,omitempty"`
	PaymentMethodIsActive    bool    `gorm:"column:payment_method_is_active;not null;default:true" json:"payment_method_is_active"`

	PaymentMethodCreatedAt time.Time `gorm:"column:payment_method_created_at;autoCreateTime" json:"payment_method_created_at"`
	PaymentMethodUpdatedAt time.Time `gorm:"column:payment_method_updated_at;autoUpdateTime" json:"payment_method_updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }
