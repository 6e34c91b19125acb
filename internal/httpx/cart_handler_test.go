package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/enkhjin/monshop/internal/catalog"
	"github.com/enkhjin/monshop/internal/checkout"
	"github.com/enkhjin/monshop/internal/order"
	"github.com/enkhjin/monshop/internal/session"
)

type scriptedTransport struct {
	mu      sync.Mutex
	fail    bool
	block   chan struct{} // when set, Send waits on it
	started chan struct{}
	sent    []order.Order
}

func (t *scriptedTransport) Send(ctx context.Context, o order.Order) error {
	t.mu.Lock()
	fail, block, started := t.fail, t.block, t.started
	t.mu.Unlock()

	if started != nil {
		close(started)
		t.mu.Lock()
		t.started = nil
		t.mu.Unlock()
	}
	if block != nil {
		<-block
	}
	if fail {
		return errors.New("bot unreachable")
	}
	t.mu.Lock()
	t.sent = append(t.sent, o)
	t.mu.Unlock()
	return nil
}

func newShop(t *testing.T, tr checkout.Transport) (*httptest.Server, *http.Client, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	h := &CartHandler{
		Sessions: session.NewManager(time.Hour),
		Store:    store,
		Checkout: &checkout.Service{Composer: &order.Composer{}, Transport: tr, Service: "test-api"},
	}
	r := NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return srv, &http.Client{Jar: jar}, store
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func do(t *testing.T, c *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, rd)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeCart(t *testing.T, resp *http.Response) cartView {
	t.Helper()
	defer resp.Body.Close()
	var v cartView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	return v
}

func urbanContact() map[string]any {
	return map[string]any{
		"name": "Bat", "phone": "99119911",
		"locationType": "urban", "district": "Bayanzurkh", "khoroo": "14",
	}
}

func TestCartFlow(t *testing.T) {
	srv, client, store := newShop(t, &scriptedTransport{})
	a := store.add(catalog.Product{Name: "Thermos", Price: 1000})
	b := store.add(catalog.Product{Name: "Mug", Price: 500})

	// add a twice, b once
	for _, id := range []string{a.ID, a.ID, b.ID} {
		resp := postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": id})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add item: status %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	v := decodeCart(t, do(t, client, http.MethodGet, srv.URL+"/cart", nil))
	if v.TotalItems != 3 || v.TotalPrice != 2500 {
		t.Fatalf("cart = %+v", v)
	}
	if len(v.Items) != 2 || v.Items[0].Product.ID != a.ID {
		t.Fatalf("items order = %+v", v.Items)
	}

	// patch quantity down to zero removes the line
	v = decodeCart(t, do(t, client, http.MethodPatch, srv.URL+"/cart/items/"+a.ID, map[string]int{"quantity": 0}))
	if v.TotalItems != 1 || len(v.Items) != 1 {
		t.Fatalf("after zero patch: %+v", v)
	}

	v = decodeCart(t, do(t, client, http.MethodDelete, srv.URL+"/cart", nil))
	if v.TotalItems != 0 || v.TotalPrice != 0 {
		t.Fatalf("after clear: %+v", v)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	srv, client, _ := newShop(t, &scriptedTransport{})
	resp := postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": "ghost"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCheckoutSuccess(t *testing.T) {
	tr := &scriptedTransport{}
	srv, client, store := newShop(t, tr)
	p := store.add(catalog.Product{Name: "Thermos", Price: 1000})

	postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": p.ID}).Body.Close()

	resp := postJSON(t, client, srv.URL+"/checkout", map[string]any{"contact": urbanContact()})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status = %d", resp.StatusCode)
	}
	var out submitOrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TotalPrice != 6000 || out.DeliveryFee != 5000 {
		t.Fatalf("resp = %+v", out)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("transport sends = %d", len(tr.sent))
	}

	// success cleared the cart
	v := decodeCart(t, do(t, client, http.MethodGet, srv.URL+"/cart", nil))
	if v.TotalItems != 0 {
		t.Fatalf("cart after success = %+v", v)
	}
}

func TestCheckoutValidation(t *testing.T) {
	srv, client, store := newShop(t, &scriptedTransport{})
	p := store.add(catalog.Product{Name: "Thermos", Price: 1000})
	postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": p.ID}).Body.Close()

	resp := postJSON(t, client, srv.URL+"/checkout", map[string]any{
		"contact": map[string]any{"phone": "99119911"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var e map[string]string
	json.NewDecoder(resp.Body).Decode(&e)
	if e["error"] != "missing contact" {
		t.Fatalf("error = %q", e["error"])
	}
}

func TestCheckoutTransportFailure(t *testing.T) {
	tr := &scriptedTransport{fail: true}
	srv, client, store := newShop(t, tr)
	p := store.add(catalog.Product{Name: "Thermos", Price: 1000})
	postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": p.ID}).Body.Close()

	resp := postJSON(t, client, srv.URL+"/checkout", map[string]any{"contact": urbanContact()})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	// cart survives and the guard is released for a retry
	v := decodeCart(t, do(t, client, http.MethodGet, srv.URL+"/cart", nil))
	if v.TotalItems != 1 {
		t.Fatalf("cart after failure = %+v", v)
	}

	tr.mu.Lock()
	tr.fail = false
	tr.mu.Unlock()
	resp = postJSON(t, client, srv.URL+"/checkout", map[string]any{"contact": urbanContact()})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", resp.StatusCode)
	}
}

func TestCheckoutInFlightGuard(t *testing.T) {
	tr := &scriptedTransport{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	srv, client, store := newShop(t, tr)
	p := store.add(catalog.Product{Name: "Thermos", Price: 1000})
	postJSON(t, client, srv.URL+"/cart/items", map[string]string{"product_id": p.ID}).Body.Close()

	firstDone := make(chan int)
	go func() {
		b, _ := json.Marshal(map[string]any{"contact": urbanContact()})
		resp, err := client.Post(srv.URL+"/checkout", "application/json", bytes.NewReader(b))
		if err != nil {
			firstDone <- -1
			return
		}
		resp.Body.Close()
		firstDone <- resp.StatusCode
	}()

	<-tr.started // first submission is now inside the transport call

	resp := postJSON(t, client, srv.URL+"/checkout", map[string]any{"contact": urbanContact()})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate submit status = %d, want 409", resp.StatusCode)
	}

	close(tr.block)
	if code := <-firstDone; code != http.StatusOK {
		t.Fatalf("first submit status = %d, want 200", code)
	}
}
