package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestProductForm_RegisterAndEscape(t *testing.T) {
	ta := newTestApp(t, false)
	tok := ta.csrfToken(t)

	resp, _ := ta.form(t, "/products", tok, "name="+url.QueryEscape("<script>alert(1)</script>")+"&description=test")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("register expected redirect, got %d", resp.StatusCode)
	}
	resp, body := ta.do(t, httptest.NewRequest("GET", "/products?ok=1", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: %d", resp.StatusCode)
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatal("found unescaped script tag in output")
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped product name not found; output=%s", body)
	}
	if !strings.Contains(body, "Product registered") {
		t.Fatal("confirmation message missing")
	}

	resp, body = ta.form(t, "/products", tok, "name=+++")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "name") {
		t.Fatalf("blank name expected 400, got %d", resp.StatusCode)
	}
}

func TestForms_RequireCSRF(t *testing.T) {
	ta := newTestApp(t, false)
	req := httptest.NewRequest("POST", "/products", strings.NewReader("name=Chair"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := ta.do(t, req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Security check failed") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestSaleForm_RecordAndReject(t *testing.T) {
	ta := newTestApp(t, false)

	// empty catalog: the form warns instead of offering products
	_, body := ta.do(t, httptest.NewRequest("GET", "/sales/new", nil))
	if !strings.Contains(body, "Register products before recording sales") {
		t.Fatal("empty catalog warning missing")
	}

	ta.addProducts(t, "Chair")
	resp, body := ta.do(t, httptest.NewRequest("GET", "/sales/new", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="2024-03-09"`) {
		t.Fatalf("form should default the date to today; status=%d", resp.StatusCode)
	}

	tok := ta.csrfToken(t)
	var logs []logEntry
	logs = captureLogs(t, func() {
		resp, _ = ta.form(t, "/sales", tok, "product_name=Chair&quantity=3&unit_price=100,00&commission_percent=10%25&payment_method=PIX&installments=4&sale_date=2024-01-05")
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/sales/new?ok=1" {
		t.Fatalf("record expected redirect, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	e, ok := findLog(logs, "sale.record")
	if !ok {
		t.Fatal("sale.record audit log not found")
	}
	if e.Kind != "audit" || e.Fields["amount_receivable"] != "30" {
		t.Fatalf("unexpected audit entry: %+v", e)
	}

	resp, body = ta.form(t, "/sales", tok, "product_name=Chair&quantity=abc&unit_price=1&commission_percent=1&payment_method=PIX")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad quantity expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "quantity: enter a whole number") || !strings.Contains(body, `name="unit_price" inputmode="decimal" value="1"`) {
		t.Fatalf("form should be redisplayed with the error; body=%s", body)
	}

	_, raw := ta.json(t, "GET", "/api/v1/sales", nil)
	if strings.Count(raw, `"id"`) != 1 {
		t.Fatalf("expected exactly one stored sale, got %s", raw)
	}
}

func TestReportPage(t *testing.T) {
	ta := newTestApp(t, false)
	ta.addProducts(t, "Chair", "Lamp")
	recordSale(t, ta, map[string]any{"product_name": "Chair", "quantity": 4, "unit_price": "10", "commission_percent": "10", "payment_method": "pix", "sale_date": "2024-01-05"})
	recordSale(t, ta, map[string]any{"product_name": "Lamp", "quantity": 2, "unit_price": "5", "commission_percent": "10", "payment_method": "card", "sale_date": "2024-01-06"})

	resp, body := ta.do(t, httptest.NewRequest("GET", "/reports", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report: %d", resp.StatusCode)
	}
	for _, want := range []string{"50.00", "5.00", "width: 100%", "width: 50%"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report page missing %q", want)
		}
	}

	resp, body = ta.do(t, httptest.NewRequest("GET", "/reports?method=card", nil))
	if resp.StatusCode != http.StatusOK || strings.Contains(body, "<td>Chair</td>") {
		t.Fatalf("method filter not applied; status=%d", resp.StatusCode)
	}
	if !strings.Contains(body, "format=csv&amp;method=card") {
		t.Fatal("export link should carry the active filters")
	}

	resp, body = ta.do(t, httptest.NewRequest("GET", "/reports?from=2024-02-01&to=2024-01-01", nil))
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "start date is after end date") {
		t.Fatalf("reversed range expected 400, got %d", resp.StatusCode)
	}

	resp, body = ta.do(t, httptest.NewRequest("GET", "/reports?product=Sofa", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "No sales match") {
		t.Fatalf("empty selection page: %d", resp.StatusCode)
	}
}

func TestDeleteMissingSaleShowsNotFound(t *testing.T) {
	ta := newTestApp(t, false)
	tok := ta.csrfToken(t)
	resp, body := ta.form(t, "/sales/42/delete", tok, "")
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "Sale not found") {
		t.Fatalf("expected 404 page, got %d", resp.StatusCode)
	}
}
