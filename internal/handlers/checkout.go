package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/store"
)

type CheckoutHandler struct {
	db  *sql.DB
	log *zap.Logger
}

func NewCheckoutHandler(db *sql.DB, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{db: db, log: log}
}

// checkoutPayload mirrors the storefront submission. Sections are pointers
// so a missing section is distinguishable from an empty one.
type checkoutPayload struct {
	PersonalInfo    *personalInfoPayload    `json:"personalInfo"`
	DeliveryAddress *deliveryAddressPayload `json:"deliveryAddress"`
	PaymentInfo     *paymentInfoPayload     `json:"paymentInfo"`
	CartItems       []cartItemPayload       `json:"cartItems"`
	TotalPrice      *float64                `json:"totalPrice"`
	KDV             *float64                `json:"kdv"`
	GrandTotal      *float64                `json:"grandTotal"`
}

type personalInfoPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type deliveryAddressPayload struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
}

// paymentInfoPayload is validated for shape only and then discarded; no
// field of it reaches the store layer.
type paymentInfoPayload struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type cartItemPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

var (
	cardNumberRe = regexp.MustCompile(`^[0-9]{13,19}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3,4}$`)
	emailRe      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validate returns every missing or malformed field by name; an empty
// slice means the payload is structurally sound.
func (p *checkoutPayload) validate() []string {
	var problems []string

	if p.PersonalInfo == nil {
		problems = append(problems, "personalInfo")
	} else {
		if strings.TrimSpace(p.PersonalInfo.FirstName) == "" {
			problems = append(problems, "personalInfo.firstName")
		}
		if strings.TrimSpace(p.PersonalInfo.LastName) == "" {
			problems = append(problems, "personalInfo.lastName")
		}
		if !emailRe.MatchString(p.PersonalInfo.Email) {
			problems = append(problems, "personalInfo.email")
		}
		if strings.TrimSpace(p.PersonalInfo.Phone) == "" {
			problems = append(problems, "personalInfo.phone")
		}
	}

	if p.DeliveryAddress == nil {
		problems = append(problems, "deliveryAddress")
	} else {
		if strings.TrimSpace(p.DeliveryAddress.Address) == "" {
			problems = append(problems, "deliveryAddress.address")
		}
		if strings.TrimSpace(p.DeliveryAddress.City) == "" {
			problems = append(problems, "deliveryAddress.city")
		}
		if strings.TrimSpace(p.DeliveryAddress.District) == "" {
			problems = append(problems, "deliveryAddress.district")
		}
	}

	if p.PaymentInfo == nil {
		problems = append(problems, "paymentInfo")
	} else {
		digits := strings.ReplaceAll(p.PaymentInfo.CardNumber, " ", "")
		if !cardNumberRe.MatchString(digits) {
			problems = append(problems, "paymentInfo.cardNumber")
		}
		if strings.TrimSpace(p.PaymentInfo.CardName) == "" {
			problems = append(problems, "paymentInfo.cardName")
		}
		if !expiryRe.MatchString(p.PaymentInfo.Expiry) {
			problems = append(problems, "paymentInfo.expiry")
		}
		if !cvvRe.MatchString(p.PaymentInfo.CVV) {
			problems = append(problems, "paymentInfo.cvv")
		}
	}

	if len(p.CartItems) == 0 {
		problems = append(problems, "cartItems")
	} else {
		for i, item := range p.CartItems {
			if strings.TrimSpace(item.Name) == "" {
				problems = append(problems, fmt.Sprintf("cartItems[%d].name", i))
			}
			if item.Price < 0 {
				problems = append(problems, fmt.Sprintf("cartItems[%d].price", i))
			}
			if item.Quantity < 1 {
				problems = append(problems, fmt.Sprintf("cartItems[%d].quantity", i))
			}
		}
	}

	if p.TotalPrice == nil || *p.TotalPrice < 0 {
		problems = append(problems, "totalPrice")
	}
	if p.KDV == nil || *p.KDV < 0 {
		problems = append(problems, "kdv")
	}
	if p.GrandTotal == nil || *p.GrandTotal < 0 {
		problems = append(problems, "grandTotal")
	}

	return problems
}

func (p *checkoutPayload) toInput() store.CheckoutInput {
	items := make([]store.CheckoutItem, 0, len(p.CartItems))
	for _, item := range p.CartItems {
		items = append(items, store.CheckoutItem{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
			ImageURL:  item.Image,
		})
	}

	return store.CheckoutInput{
		FirstName:  p.PersonalInfo.FirstName,
		LastName:   p.PersonalInfo.LastName,
		Email:      p.PersonalInfo.Email,
		Phone:      p.PersonalInfo.Phone,
		Address:    p.DeliveryAddress.Address,
		City:       p.DeliveryAddress.City,
		District:   p.DeliveryAddress.District,
		PostalCode: p.DeliveryAddress.PostalCode,
		Items:      items,
		TotalPrice: decimal.NewFromFloat(*p.TotalPrice),
		KDV:        decimal.NewFromFloat(*p.KDV),
		GrandTotal: decimal.NewFromFloat(*p.GrandTotal),
	}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var payload checkoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if problems := payload.validate(); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "missing or invalid fields",
			"fields": problems,
		})
		return
	}

	result, err := store.Checkout(c.Request.Context(), h.db, payload.toInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("order placed",
		zap.Int64("order_id", result.OrderID),
		zap.String("order_number", result.OrderNumber),
	)
	c.JSON(http.StatusCreated, result)
}
