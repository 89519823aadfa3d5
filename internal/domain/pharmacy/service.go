package pharmacy

import (
	"context"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/platform/apperror"
)

// OrderRequest is the patient-supplied portion of a new order.
type OrderRequest struct {
	Items []struct {
		MedicineID int `json:"medicine_id"`
		Quantity   int `json:"quantity"`
	} `json:"items"`
	Address string `json:"address"`
}

type Service struct {
	orders OrderRepository
}

func NewService(orders OrderRepository) *Service {
	return &Service{orders: orders}
}

// ListMedicines filters the catalog by name substring and category.
func (s *Service) ListMedicines(search, category string) []Medicine {
	return Catalog(search, category)
}

// PlaceOrder resolves each requested item against the catalog, copies the
// current name and price into the order and records it as placed.
func (s *Service) PlaceOrder(ctx context.Context, patientID uuid.UUID, patientName string, req OrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperror.New(apperror.KindValidation, "order has no items")
	}

	o := &Order{
		PatientID:   patientID,
		PatientName: patientName,
		Address:     req.Address,
		Status:      OrderPlaced,
	}
	for _, item := range req.Items {
		m, ok := MedicineByID(item.MedicineID)
		if !ok {
			return nil, apperror.New(apperror.KindValidation, "unknown medicine %d", item.MedicineID)
		}
		if item.Quantity < 1 {
			return nil, apperror.New(apperror.KindValidation, "invalid quantity for %s", m.Name)
		}
		o.Items = append(o.Items, OrderItem{
			MedicineID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   item.Quantity,
		})
		o.Total += m.Price * item.Quantity
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "create order")
	}
	return o, nil
}

// ListOrders returns the patient's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	return s.orders.ListByPatient(ctx, patientID)
}

// UpdateOrderStatus moves an order to a new fulfilment state. Terminal
// orders (delivered, cancelled) cannot change further.
func (s *Service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	if !status.Valid() {
		return nil, apperror.New(apperror.KindValidation, "unknown order status")
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, "order not found")
	}
	if o.Status == OrderDelivered || o.Status == OrderCancelled {
		return nil, apperror.New(apperror.KindInvalidTransition, "order in state %q cannot change", o.Status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "update order")
	}
	o.Status = status
	return o, nil
}
