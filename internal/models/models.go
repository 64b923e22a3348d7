package models

import "time"

// Product represents a product in the catalog with its available stock
type Product struct {
	ID                int64   `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	Description       string  `db:"description" json:"description,omitempty"`
	AvailableQuantity float64 `db:"available_quantity" json:"available_quantity"`
	Price             float64 `db:"price" json:"price"`
	CategoryID        int64   `db:"category_id" json:"category_id"`
}

// Order represents a customer order
type Order struct {
	ID            int64         `db:"id" json:"id"`
	Reference     string        `db:"reference" json:"reference"`
	CustomerID    string        `db:"customer_id" json:"customer_id"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// OrderLine represents a single product/quantity entry in an order
type OrderLine struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Quantity  float64 `db:"quantity" json:"quantity"`
}

// Customer is the customer snapshot returned by the customer service
type Customer struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstname"`
	LastName  string  `json:"lastname"`
	Email     string  `json:"email"`
	Address   Address `json:"address"`
}

// Address is the customer's postal address
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	ZipCode     string `json:"zipCode"`
}

// PurchaseRequest is one product/quantity pair in a reservation batch
type PurchaseRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// PurchaseResult echoes the product details at time of purchase for a
// successfully reserved item
type PurchaseResult struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
}

// PaymentRequest is sent to the payment service after order persistence
type PaymentRequest struct {
	Amount         float64       `json:"amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	OrderID        int64         `json:"order_id"`
	OrderReference string        `json:"order_reference"`
	Customer       Customer      `json:"customer"`
}

// PaymentMethod identifies how an order is paid
type PaymentMethod string

// Supported payment methods
const (
	PaymentMethodPaypal     PaymentMethod = "PAYPAL"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodVisa       PaymentMethod = "VISA"
	PaymentMethodMasterCard PaymentMethod = "MASTER_CARD"
	PaymentMethodBitcoin    PaymentMethod = "BITCOIN"
)

// Valid reports whether m is one of the supported payment methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPaypal, PaymentMethodCreditCard, PaymentMethodVisa,
		PaymentMethodMasterCard, PaymentMethodBitcoin:
		return true
	}
	return false
}
