//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts_Localized(t *testing.T) {
	resp := doGet(t, "/api/v1/products?lang=en")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[listResponse[productResponse]](t, resp)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 products, got %d", len(list.Items))
	}

	names := make(map[string]string, len(list.Items))
	for _, p := range list.Items {
		names[p.ID] = p.Name
	}
	if names[abayaProductID] != "Classic Black Abaya" {
		t.Errorf("english name: got %q", names[abayaProductID])
	}
}

func TestListProducts_ArabicDefault(t *testing.T) {
	resp := doGet(t, "/api/v1/products")
	defer resp.Body.Close()

	list := decodeJSON[listResponse[productResponse]](t, resp)
	for _, p := range list.Items {
		if p.ID == abayaProductID && p.Name != "عباية كلاسيك سوداء" {
			t.Errorf("arabic name: got %q", p.Name)
		}
	}
}

func TestGetProduct_OfferApplied(t *testing.T) {
	// The seeded abaya carries a 200 EGP fixed sub-category offer on top of
	// the 15% global sale; the larger discount wins.
	resp := doGet(t, "/api/v1/products/"+abayaProductID+"?lang=en")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.Price != 1250 {
		t.Errorf("price: got %v, want 1250", p.Price)
	}
	if p.FinalPrice >= p.Price {
		t.Errorf("final price %v not discounted from %v", p.FinalPrice, p.Price)
	}
	if p.Currency != "EGP" {
		t.Errorf("currency: got %q", p.Currency)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/v1/products/00000000-0000-4000-8000-00000000dead")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	e := decodeJSON[errorResponse](t, resp)
	if e.Error == "" {
		t.Error("expected a localized error message")
	}
}

func TestHomeFeed(t *testing.T) {
	resp := doGet(t, "/api/v1/home?lang=en")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	feed := decodeJSON[map[string]any](t, resp)
	for _, section := range []string{"offers", "stories", "categories", "banners", "popularProducts", "recommendedProducts"} {
		if _, ok := feed[section]; !ok {
			t.Errorf("home feed missing %q section", section)
		}
	}
}

func TestAdminCreateProduct_RequiresAdmin(t *testing.T) {
	body := map[string]any{
		"name":  map[string]string{"en": "Test", "ar": "اختبار"},
		"price": "100.00",
	}

	resp := do(t, http.MethodPost, "/api/v1/admin/products", userToken(t), body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}
}
