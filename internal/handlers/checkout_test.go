package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPayload() checkoutPayload {
	total := 167.70
	kdv := 33.54
	grand := 201.24
	return checkoutPayload{
		PersonalInfo: &personalInfoPayload{
			FirstName: "Erdal",
			LastName:  "Nejdet",
			Email:     "erdal@example.com",
			Phone:     "05551112233",
		},
		DeliveryAddress: &deliveryAddressPayload{
			Address:  "Sanayi Cad. No:14",
			City:     "Istanbul",
			District: "Kadikoy",
		},
		PaymentInfo: &paymentInfoPayload{
			CardNumber: "4111 1111 1111 1111",
			CardName:   "ERDAL NEJDET",
			Expiry:     "09/27",
			CVV:        "123",
		},
		CartItems: []cartItemPayload{
			{ID: 7, Name: "MCB 16A", Price: 55.90, Quantity: 3},
		},
		TotalPrice: &total,
		KDV:        &kdv,
		GrandTotal: &grand,
	}
}

func TestCheckoutValidateOK(t *testing.T) {
	p := validPayload()
	assert.Empty(t, p.validate())
}

func TestCheckoutValidateMissingSections(t *testing.T) {
	p := checkoutPayload{}
	problems := p.validate()

	assert.Contains(t, problems, "personalInfo")
	assert.Contains(t, problems, "deliveryAddress")
	assert.Contains(t, problems, "paymentInfo")
	assert.Contains(t, problems, "cartItems")
	assert.Contains(t, problems, "totalPrice")
	assert.Contains(t, problems, "kdv")
	assert.Contains(t, problems, "grandTotal")
}

func TestCheckoutValidateEnumeratesFields(t *testing.T) {
	p := validPayload()
	p.PersonalInfo.Email = "not-an-email"
	p.DeliveryAddress.City = " "
	p.CartItems[0].Quantity = 0

	problems := p.validate()
	assert.ElementsMatch(t, []string{
		"personalInfo.email",
		"deliveryAddress.city",
		"cartItems[0].quantity",
	}, problems)
}

func TestCheckoutValidateCardShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*paymentInfoPayload)
		field  string
	}{
		{"short card number", func(p *paymentInfoPayload) { p.CardNumber = "1234" }, "paymentInfo.cardNumber"},
		{"letters in card number", func(p *paymentInfoPayload) { p.CardNumber = "4111abcd11111111" }, "paymentInfo.cardNumber"},
		{"bad expiry month", func(p *paymentInfoPayload) { p.Expiry = "13/27" }, "paymentInfo.expiry"},
		{"expiry without slash", func(p *paymentInfoPayload) { p.Expiry = "0927" }, "paymentInfo.expiry"},
		{"cvv too long", func(p *paymentInfoPayload) { p.CVV = "12345" }, "paymentInfo.cvv"},
		{"empty card name", func(p *paymentInfoPayload) { p.CardName = "" }, "paymentInfo.cardName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p.PaymentInfo)
			assert.Equal(t, []string{tt.field}, p.validate())
		})
	}
}

func TestCheckoutValidateAcceptsSpacedCardNumber(t *testing.T) {
	p := validPayload()
	p.PaymentInfo.CardNumber = "5555 5555 5555 4444"
	assert.Empty(t, p.validate())
}

func TestCheckoutToInputDropsCardData(t *testing.T) {
	p := validPayload()
	in := p.toInput()

	assert.Equal(t, "erdal@example.com", in.Email)
	assert.Len(t, in.Items, 1)
	assert.Equal(t, int64(7), in.Items[0].ProductID)
	assert.Equal(t, 3, in.Items[0].Quantity)
	assert.True(t, in.GrandTotal.Equal(in.TotalPrice.Add(in.KDV).Round(2)))
}
