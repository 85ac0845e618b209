package order

import (
	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
)

// Payload builds the body handed to the order-creation and payment side.
func Payload(o *model.Order) model.OrderPayload {
	sel := delivery.Selection{Method: o.PaymentMethod, Region: o.Region}
	kind := o.Line.Product.Kind
	deliveryMethod := delivery.Method(kind, sel)

	details := model.MaterialDetails{
		ProductID:      o.Line.Product.ID,
		ProductName:    o.Line.Product.Title,
		Price:          o.Line.Product.UnitPrice,
		Discount:       o.Pricing.DiscountAmount,
		Quantity:       o.Pricing.Quantity,
		DeliveryFee:    o.Pricing.DeliveryFee,
		DeliveryMethod: deliveryMethod,
		Subtotal:       o.Pricing.Subtotal,
		Total:          o.Pricing.Total,
		Status:         o.Status,
	}
	if o.AppliedPromo != nil {
		details.PromoCode = o.AppliedPromo.Code
		details.PromoID = o.AppliedPromo.PromoID
	}

	return model.OrderPayload{
		Amount:        o.Pricing.Total,
		TransactionID: o.TransactionID,
		MaterialType:  kind,
		DeliveryType:  deliveryMethod,
		PaymentMethod: o.PaymentMethod,
		Customer: model.PayloadCustomer{
			Name:    o.Customer.Name,
			Email:   o.Customer.Email,
			Address: o.Customer.Address,
			Phone:   o.Customer.Phone,
		},
		MaterialDetails: details,
	}
}
