package pharmacy

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/platform/apperror"
)

func TestCatalog_Filters(t *testing.T) {
	all := Catalog("", "")
	if len(all) != 8 {
		t.Fatalf("expected full catalog of 8, got %d", len(all))
	}

	vitamins := Catalog("", CategoryVitamins)
	if len(vitamins) != 2 {
		t.Errorf("expected 2 vitamins, got %d", len(vitamins))
	}

	// Name search is a case-insensitive substring.
	byName := Catalog("vitamin", "")
	if len(byName) != 2 {
		t.Errorf("expected 2 matches for 'vitamin', got %d", len(byName))
	}

	both := Catalog("d3", CategoryVitamins)
	if len(both) != 1 || both[0].Name != "Vitamin D3" {
		t.Errorf("expected Vitamin D3, got %+v", both)
	}

	if len(Catalog("vitamin", CategoryPainRelief)) != 0 {
		t.Error("predicates must compose with AND")
	}
}

func orderReq(items ...[2]int) OrderRequest {
	var req OrderRequest
	req.Address = "12 Main St"
	for _, it := range items {
		req.Items = append(req.Items, struct {
			MedicineID int `json:"medicine_id"`
			Quantity   int `json:"quantity"`
		}{MedicineID: it[0], Quantity: it[1]})
	}
	return req
}

func TestPlaceOrder(t *testing.T) {
	svc := NewService(NewMemoryOrderRepo())
	patientID := uuid.New()

	// 2x Paracetamol (25) + 1x Vitamin D3 (120).
	o, err := svc.PlaceOrder(context.Background(), patientID, "Asha", orderReq([2]int{1, 2}, [2]int{3, 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != OrderPlaced {
		t.Errorf("expected placed, got %s", o.Status)
	}
	if o.Total != 170 {
		t.Errorf("expected total 170, got %d", o.Total)
	}
	if len(o.Items) != 2 || o.Items[0].Name != "Paracetamol 500mg" {
		t.Errorf("expected catalog names copied into order, got %+v", o.Items)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	svc := NewService(NewMemoryOrderRepo())
	patientID := uuid.New()

	_, err := svc.PlaceOrder(context.Background(), patientID, "Asha", orderReq())
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("empty order: expected validation error, got %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), patientID, "Asha", orderReq([2]int{99, 1}))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("unknown medicine: expected validation error, got %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), patientID, "Asha", orderReq([2]int{1, 0}))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("zero quantity: expected validation error, got %v", err)
	}
}

func TestListOrders_NewestFirstAndScoped(t *testing.T) {
	svc := NewService(NewMemoryOrderRepo())
	asha, vikram := uuid.New(), uuid.New()

	first, _ := svc.PlaceOrder(context.Background(), asha, "Asha", orderReq([2]int{1, 1}))
	svc.PlaceOrder(context.Background(), vikram, "Vikram", orderReq([2]int{2, 1}))
	second, _ := svc.PlaceOrder(context.Background(), asha, "Asha", orderReq([2]int{3, 1}))

	orders, err := svc.ListOrders(context.Background(), asha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for Asha, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Error("expected newest order first")
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := NewService(NewMemoryOrderRepo())
	o, _ := svc.PlaceOrder(context.Background(), uuid.New(), "Asha", orderReq([2]int{1, 1}))

	updated, err := svc.UpdateOrderStatus(context.Background(), o.ID, OrderDispatched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != OrderDispatched {
		t.Errorf("expected dispatched, got %s", updated.Status)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), o.ID, OrderDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	_, err = svc.UpdateOrderStatus(context.Background(), o.ID, OrderDispatched)
	if apperror.KindOf(err) != apperror.KindInvalidTransition {
		t.Errorf("delivered is terminal: expected invalid transition, got %v", err)
	}
}

func TestUpdateOrderStatus_Unknown(t *testing.T) {
	svc := NewService(NewMemoryOrderRepo())
	o, _ := svc.PlaceOrder(context.Background(), uuid.New(), "Asha", orderReq([2]int{1, 1}))

	_, err := svc.UpdateOrderStatus(context.Background(), o.ID, OrderStatus("shipped"))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}

	_, err = svc.UpdateOrderStatus(context.Background(), uuid.New(), OrderDispatched)
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
