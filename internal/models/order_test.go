package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !IsValidOrderStatus(status) {
			t.Errorf("Expected %q to be a valid status", status)
		}
	}
	for _, status := range []string{"", "Pending", "done", "shipped"} {
		if IsValidOrderStatus(status) {
			t.Errorf("Expected %q to be rejected", status)
		}
	}
}

func TestCanTransitionOrderStatus(t *testing.T) {
	allowed := map[string][]string{
		OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
		OrderStatusReady:     {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusCancelled: {},
	}
	all := []string{
		OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled,
	}

	for from, targets := range allowed {
		ok := make(map[string]bool, len(targets))
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			if got := CanTransitionOrderStatus(from, to); got != ok[to] {
				t.Errorf("CanTransitionOrderStatus(%q, %q) = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestInvalidStatusTransitionError(t *testing.T) {
	err := &ErrInvalidStatusTransition{From: OrderStatusDelivered, To: OrderStatusPending}
	want := `cannot transition order from "delivered" to "pending"`
	if err.Error() != want {
		t.Errorf("Unexpected error text: %q", err.Error())
	}
}

func TestOrderToResponse(t *testing.T) {
	order := Order{
		CustomerName: "Walk-in",
		Status:       OrderStatusPending,
		Total:        12.5,
		PlacedBy:     3,
		Items: []OrderItem{
			{ProductID: 1, Name: "Pho", UnitPrice: 6.25, Quantity: 2},
		},
	}
	order.ID = 9

	resp := order.ToResponse()
	if resp.ID != 9 || resp.Status != OrderStatusPending || resp.Total != 12.5 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Pho" || resp.Items[0].Quantity != 2 {
		t.Errorf("Unexpected items: %+v", resp.Items)
	}
}
