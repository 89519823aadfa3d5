package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Medicine is a catalog entry. The catalog is a fixed seed set, not
// user-editable; prices are in whole rupees.
type Medicine struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
	Image    string `json:"image"`
}

// Catalog categories.
const (
	CategoryPainRelief = "pain-relief"
	CategoryVitamins   = "vitamins"
	CategoryColdFlu    = "cold-flu"
	CategoryDigestive  = "digestive"
)

// OrderStatus is the fulfilment state of a medicine order.
type OrderStatus string

const (
	OrderPlaced     OrderStatus = "placed"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderDispatched, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one catalog line in an order.
type OrderItem struct {
	MedicineID int    `json:"medicine_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Order is a patient's medicine order. Item names and prices are copied
// from the catalog at placement time.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	PatientID   uuid.UUID   `json:"patient_id"`
	PatientName string      `json:"patient_name"`
	Items       []OrderItem `json:"items"`
	Total       int         `json:"total"`
	Address     string      `json:"address"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
