package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

type PickupOption string

const (
	PickupNow        PickupOption = "now"
	PickupChooseTime PickupOption = "choose-time"
)

// PickupASAP is the pickup time recorded for PickupNow.
const PickupASAP = "ASAP"

type PaymentMethod string

const PaymentCreditCard PaymentMethod = "credit-card"

// Fulfillment says how the order leaves the kitchen and how it is paid for.
// Only the fields of the chosen OrderType are kept.
type Fulfillment struct {
	Type            OrderType
	PickupOption    PickupOption
	PickupTime      string
	DeliveryAddress string
	DeliveryDate    string
	DeliveryTime    string
	PaymentMethod   PaymentMethod
}

// Order is a snapshot of a cart taken at checkout.
type Order struct {
	ID          string
	SessionID   string
	Items       []LineItem
	Totals      OrderTotals
	Tip         TipSelection
	Fulfillment Fulfillment
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
