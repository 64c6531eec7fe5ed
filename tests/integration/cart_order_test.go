//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCart_RequiresAuth(t *testing.T) {
	resp := doGet(t, "/api/v1/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCart_AddRejectsZeroQuantity(t *testing.T) {
	body := map[string]any{
		"productId": abayaProductID,
		"sizeId":    sizeMID,
		"colorId":   colorBlackID,
		"quantity":  0,
	}
	resp := do(t, http.MethodPost, "/api/v1/cart/items", userToken(t), body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// TestCheckoutFlow walks the whole funnel: add to cart, price it, place a
// cash-on-delivery order, confirm it, and move it through the lifecycle as
// admin. Steps share one cart, so they run as ordered subtests.
func TestCheckoutFlow(t *testing.T) {
	token := userToken(t)

	t.Run("add item", func(t *testing.T) {
		body := map[string]any{
			"productId": abayaProductID,
			"sizeId":    sizeMID,
			"colorId":   colorBlackID,
			"quantity":  2,
		}
		resp := do(t, http.MethodPost, "/api/v1/cart/items", token, body)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}
	})

	t.Run("cart is priced", func(t *testing.T) {
		resp := do(t, http.MethodGet, "/api/v1/cart", token, nil)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		cart := decodeJSON[cartResponse](t, resp)
		if len(cart.Items) != 1 {
			t.Fatalf("expected 1 cart line, got %d", len(cart.Items))
		}
		if cart.Items[0].Quantity != 2 {
			t.Errorf("quantity: got %d, want 2", cart.Items[0].Quantity)
		}
		// 1250 with the 200 EGP sub-category offer applied.
		if cart.Items[0].UnitPrice != 1050 {
			t.Errorf("unit price: got %v, want 1050", cart.Items[0].UnitPrice)
		}
		if cart.Total != 2100 {
			t.Errorf("total: got %v, want 2100", cart.Total)
		}
	})

	var orderID string

	t.Run("checkout", func(t *testing.T) {
		body := map[string]any{
			"paymentMethod": "cash_on_delivery",
			"shippingType":  "normal",
			"shippingAddress": map[string]string{
				"phone":   "+201000000002",
				"street":  "12 Tahrir St",
				"city":    "Cairo",
				"country": "EG",
			},
		}
		resp := do(t, http.MethodPost, "/api/v1/orders", token, body)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		o := decodeJSON[orderResponse](t, resp)
		if o.Subtotal != 2100 {
			t.Errorf("subtotal: got %v, want 2100", o.Subtotal)
		}
		if o.ShippingCost != 50 {
			t.Errorf("shipping: got %v, want 50", o.ShippingCost)
		}
		if o.Total != 2150 {
			t.Errorf("total: got %v, want 2150", o.Total)
		}
		if o.Status != "pending" {
			t.Errorf("status: got %q, want pending", o.Status)
		}
		orderID = o.ID
	})

	t.Run("cart cleared after checkout", func(t *testing.T) {
		resp := do(t, http.MethodGet, "/api/v1/cart", token, nil)
		defer resp.Body.Close()

		cart := decodeJSON[cartResponse](t, resp)
		if len(cart.Items) != 0 {
			t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
		}
	})

	t.Run("checkout with empty cart fails", func(t *testing.T) {
		body := map[string]any{
			"paymentMethod": "cash_on_delivery",
			"shippingType":  "normal",
			"shippingAddress": map[string]string{
				"phone":   "+201000000002",
				"street":  "12 Tahrir St",
				"city":    "Cairo",
				"country": "EG",
			},
		}
		resp := do(t, http.MethodPost, "/api/v1/orders", token, body)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("confirm cash on delivery", func(t *testing.T) {
		if orderID == "" {
			t.Skip("checkout did not produce an order")
		}
		resp := do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/payments/cod", token, nil)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		o := decodeJSON[orderResponse](t, resp)
		if o.Status != "pending" {
			t.Errorf("COD order must stay pending, got %q", o.Status)
		}
	})

	t.Run("admin moves order to paid", func(t *testing.T) {
		if orderID == "" {
			t.Skip("checkout did not produce an order")
		}
		body := map[string]string{"status": "paid"}
		resp := do(t, http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", adminToken(t), body)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		o := decodeJSON[orderResponse](t, resp)
		if o.Status != "paid" {
			t.Errorf("status: got %q, want paid", o.Status)
		}
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		if orderID == "" {
			t.Skip("checkout did not produce an order")
		}
		// paid orders cannot go back to pending
		body := map[string]string{"status": "pending"}
		resp := do(t, http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", adminToken(t), body)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestWishlistToggle(t *testing.T) {
	token := userToken(t)

	resp := do(t, http.MethodPost, "/api/v1/wishlist/"+scarfProductID, token, nil)
	body := decodeJSON[map[string]bool](t, resp)
	resp.Body.Close()
	if !body["inFavourite"] {
		t.Fatal("first toggle should add to wishlist")
	}

	resp = do(t, http.MethodPost, "/api/v1/wishlist/"+scarfProductID, token, nil)
	body = decodeJSON[map[string]bool](t, resp)
	resp.Body.Close()
	if body["inFavourite"] {
		t.Fatal("second toggle should remove from wishlist")
	}
}

func TestGatewayCallback_UnknownTransaction(t *testing.T) {
	body := map[string]string{
		"transactionId": "txn-does-not-exist",
		"status":        "success",
	}
	resp := do(t, http.MethodPost, "/api/v1/payments/gateway/callback", "", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
