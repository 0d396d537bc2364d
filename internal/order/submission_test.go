package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/cart"
	"github.com/ashendes/storefront-client/internal/loading"
	"github.com/ashendes/storefront-client/internal/models"
)

type fakeOrderBackend struct {
	mu        sync.Mutex
	failOrder bool
	orders    []models.OrderRequest
	cartGets  int
}

func (f *fakeOrderBackend) set(fn func(*fakeOrderBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeOrderBackend) placedOrders() []models.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderRequest(nil), f.orders...)
}

func (f *fakeOrderBackend) cartGetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartGets
}

func (f *fakeOrderBackend) handler() http.Handler {
	writeJSON := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/teststore/order", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failOrder {
			writeJSON(w, http.StatusInternalServerError, models.OrderResponse{Message: "boom"})
			return
		}
		var payload models.OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, models.OrderResponse{Message: err.Error()})
			return
		}
		f.orders = append(f.orders, payload.Data)
		writeJSON(w, http.StatusOK, models.OrderResponse{Success: true, OrderID: "o-1"})
	})
	mux.HandleFunc("/api/teststore/cart", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cartGets++
		writeJSON(w, http.StatusOK, models.CartResponse{Success: true})
	})
	return mux
}

func newTestSubmission(t *testing.T) (*Submission, *fakeOrderBackend) {
	t.Helper()
	fake := &fakeOrderBackend{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "teststore")
	return NewSubmission(client, cart.NewStore(client, loading.NewTracker())), fake
}

func validForm() models.OrderForm {
	return models.OrderForm{
		Name:    "Alex Chen",
		Email:   "alex@example.com",
		Tel:     "0912345678",
		Address: "1 Market Street",
		Message: "leave at the door",
	}
}

func violationFor(violations []Violation, field string) *Violation {
	for i := range violations {
		if violations[i].Field == field {
			return &violations[i]
		}
	}
	return nil
}

func TestValidateCollectsAllViolationsAtOnce(t *testing.T) {
	sub, _ := newTestSubmission(t)

	violations := sub.Validate(models.OrderForm{
		Name:    "",
		Email:   "foo@bar", // no TLD, but the loose local@domain shape passes
		Tel:     "1234567", // 7 digits, one short
		Address: "somewhere",
	})

	require.NotEmpty(t, violations)

	name := violationFor(violations, "name")
	require.NotNil(t, name, "missing name must be reported")
	assert.Equal(t, "required", name.Rule)

	tel := violationFor(violations, "tel")
	require.NotNil(t, tel, "short tel must be reported")
	assert.Equal(t, "min", tel.Rule)

	assert.Nil(t, violationFor(violations, "email"), "foo@bar matches the loose shape")
}

func TestValidateEmailAndTelShapes(t *testing.T) {
	sub, _ := newTestSubmission(t)

	form := validForm()
	form.Email = "not-an-address"
	form.Tel = "09-1234567"

	violations := sub.Validate(form)

	email := violationFor(violations, "email")
	require.NotNil(t, email)
	assert.Equal(t, "loose_email", email.Rule)

	tel := violationFor(violations, "tel")
	require.NotNil(t, tel)
	assert.Equal(t, "digits_only", tel.Rule)
}

func TestViolationsBlockSubmissionEntirely(t *testing.T) {
	sub, fake := newTestSubmission(t)

	violations, err := sub.Submit(context.Background(), models.OrderForm{})
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
	assert.Empty(t, fake.placedOrders(), "nothing partial may reach the network")
}

func TestSubmitSuccessClearsFormAndRefreshesCart(t *testing.T) {
	sub, fake := newTestSubmission(t)
	before := fake.cartGetCount()

	violations, err := sub.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Empty(t, violations)

	orders := fake.placedOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, "Alex Chen", orders[0].User.Name)
	assert.Equal(t, "leave at the door", orders[0].Message)

	assert.Equal(t, models.OrderForm{}, sub.Form(), "form cleared on success")
	assert.Equal(t, before+1, fake.cartGetCount(), "an order triggers a cart refresh")
}

func TestSubmitFailureKeepsEnteredValues(t *testing.T) {
	sub, fake := newTestSubmission(t)
	fake.set(func(f *fakeOrderBackend) { f.failOrder = true })

	form := validForm()
	violations, err := sub.Submit(context.Background(), form)
	require.Error(t, err)
	assert.Empty(t, violations)

	assert.Equal(t, form, sub.Form(), "form retained for the user's retry")
	assert.Zero(t, fake.cartGetCount(), "no refresh on a failed submission")
}
