package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

var ErrInvalidFulfillment = errors.New("invalid fulfillment")

// normalizeFulfillment checks the pickup/delivery details and drops the
// fields that do not apply to the chosen order type.
func normalizeFulfillment(f domain.Fulfillment) (domain.Fulfillment, error) {
	out := domain.Fulfillment{
		Type:          f.Type,
		PaymentMethod: domain.PaymentMethod(strings.TrimSpace(string(f.PaymentMethod))),
	}
	if out.PaymentMethod == "" {
		out.PaymentMethod = domain.PaymentCreditCard
	}

	switch f.Type {
	case domain.OrderTypePickup:
		switch f.PickupOption {
		case domain.PickupNow, "":
			out.PickupOption = domain.PickupNow
			out.PickupTime = domain.PickupASAP
		case domain.PickupChooseTime:
			t := strings.TrimSpace(f.PickupTime)
			if t == "" {
				return domain.Fulfillment{}, fmt.Errorf("%w: select a pickup time", ErrInvalidFulfillment)
			}
			out.PickupOption = domain.PickupChooseTime
			out.PickupTime = t
		default:
			return domain.Fulfillment{}, fmt.Errorf("%w: unknown pickup option %q", ErrInvalidFulfillment, f.PickupOption)
		}

	case domain.OrderTypeDelivery:
		out.DeliveryAddress = strings.TrimSpace(f.DeliveryAddress)
		out.DeliveryDate = strings.TrimSpace(f.DeliveryDate)
		out.DeliveryTime = strings.TrimSpace(f.DeliveryTime)
		if out.DeliveryAddress == "" || out.DeliveryDate == "" || out.DeliveryTime == "" {
			return domain.Fulfillment{}, fmt.Errorf("%w: fill in all delivery details", ErrInvalidFulfillment)
		}

	case "":
		return domain.Fulfillment{}, fmt.Errorf("%w: select an order type", ErrInvalidFulfillment)
	default:
		return domain.Fulfillment{}, fmt.Errorf("%w: unknown order type %q", ErrInvalidFulfillment, f.Type)
	}

	return out, nil
}
