package handler

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

type AddItemRequest struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	Options      string          `json:"options"`
	Instructions string          `json:"instructions"`
}

type SetQuantityRequest struct {
	ID           string `json:"id"`
	Options      string `json:"options"`
	Instructions string `json:"instructions"`
	Quantity     int    `json:"quantity"`
}

type RemoveItemRequest struct {
	ID           string `json:"id"`
	Options      string `json:"options"`
	Instructions string `json:"instructions"`
}

// TipRequest selects a preset when Percent is set, otherwise a custom amount.
type TipRequest struct {
	Percent *string `json:"percent,omitempty"`
	Custom  *string `json:"custom,omitempty"`
}

type PlaceOrderRequest struct {
	RequestID       string `json:"request_id"`
	OrderType       string `json:"order_type"`
	PickupOption    string `json:"pickup_option,omitempty"`
	PickupTime      string `json:"pickup_time,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	DeliveryDate    string `json:"delivery_date,omitempty"`
	DeliveryTime    string `json:"delivery_time,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
}

func (r PlaceOrderRequest) fulfillment() domain.Fulfillment {
	return domain.Fulfillment{
		Type:            domain.OrderType(r.OrderType),
		PickupOption:    domain.PickupOption(r.PickupOption),
		PickupTime:      r.PickupTime,
		DeliveryAddress: r.DeliveryAddress,
		DeliveryDate:    r.DeliveryDate,
		DeliveryTime:    r.DeliveryTime,
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
	}
}

type LineItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Image        string `json:"image,omitempty"`
	Quantity     int    `json:"quantity"`
	Options      string `json:"options"`
	Instructions string `json:"instructions"`
	LineTotal    string `json:"line_total"`
}

type CartResponse struct {
	Items      []LineItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalValue string             `json:"total_value"`
}

type TotalsResponse struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Tip        string `json:"tip"`
	Total      string `json:"total"`
	TipMode    string `json:"tip_mode"`
	TipPercent string `json:"tip_percent,omitempty"`
	TipCustom  string `json:"tip_custom,omitempty"`
}

type FulfillmentResponse struct {
	OrderType       string `json:"order_type"`
	PickupTime      string `json:"pickup_time,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	DeliveryDate    string `json:"delivery_date,omitempty"`
	DeliveryTime    string `json:"delivery_time,omitempty"`
	PaymentMethod   string `json:"payment_method"`
}

type OrderResponse struct {
	OrderID     string              `json:"order_id"`
	Status      string              `json:"status"`
	Items       int                 `json:"items"`
	Totals      TotalsResponse      `json:"totals"`
	Fulfillment FulfillmentResponse `json:"fulfillment"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toCartResponse(cart domain.Cart) CartResponse {
	items := make([]LineItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, LineItemResponse{
			ID:           it.ID,
			Name:         it.Name,
			Price:        money(it.Price),
			Image:        it.Image,
			Quantity:     it.Quantity,
			Options:      it.Options,
			Instructions: it.Instructions,
			LineTotal:    money(it.LineTotal()),
		})
	}
	return CartResponse{
		Items:      items,
		ItemCount:  cart.TotalItemCount(),
		TotalValue: money(cart.TotalValue()),
	}
}

func toTotalsResponse(totals domain.OrderTotals, tip domain.TipSelection) TotalsResponse {
	resp := TotalsResponse{
		Subtotal: money(totals.Subtotal),
		Tax:      money(totals.Tax),
		Tip:      money(totals.Tip),
		Total:    money(totals.Total),
		TipMode:  string(tip.Mode),
	}
	switch tip.Mode {
	case domain.TipModePercent:
		resp.TipPercent = tip.Percent.String()
	case domain.TipModeCustom:
		resp.TipCustom = tip.CustomInput
	}
	return resp
}

func toOrderResponse(order domain.Order) OrderResponse {
	items := 0
	for _, it := range order.Items {
		items += it.Quantity
	}
	f := order.Fulfillment
	return OrderResponse{
		OrderID: order.ID,
		Status:  string(order.Status),
		Items:   items,
		Totals:  toTotalsResponse(order.Totals, order.Tip),
		Fulfillment: FulfillmentResponse{
			OrderType:       string(f.Type),
			PickupTime:      f.PickupTime,
			DeliveryAddress: f.DeliveryAddress,
			DeliveryDate:    f.DeliveryDate,
			DeliveryTime:    f.DeliveryTime,
			PaymentMethod:   string(f.PaymentMethod),
		},
	}
}
