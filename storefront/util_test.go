package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	cartRequest "github.com/Alturino/grocery/cart/pkg/request"
	cartResponse "github.com/Alturino/grocery/cart/pkg/response"
	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/coupon"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/pricing"
	orderRequest "github.com/Alturino/grocery/order/pkg/request"
	orderResponse "github.com/Alturino/grocery/order/pkg/response"
	userResponse "github.com/Alturino/grocery/user/pkg/response"
)

const fakeToken = "storefront-test-token"

// fakeAPI is an in memory grocery API for one user. Prices are stored with
// two decimals and orders are repriced from the stored cart.
type fakeAPI struct {
	mu          sync.Mutex
	user        userResponse.User
	items       map[int64]cartResponse.CartItem
	orders      []orderResponse.Order
	calls       map[string]int
	failures    map[string]int
	inflight    int
	maxInflight int
	lastOrder   orderRequest.CreateOrder

	// orderEntered and orderRelease, when set, hold /orders/create open.
	orderEntered chan struct{}
	orderRelease chan struct{}
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{
		user:     userResponse.User{ID: uuid.New(), Name: "Asha", Email: "asha@grocery.test"},
		items:    map[int64]cartResponse.CartItem{},
		calls:    map[string]int{},
		failures: map[string]int{},
	}

	router := mux.NewRouter()
	router.Use(api.track)
	sub := router.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/auth/login", api.login).Methods(http.MethodPost).Name("login")
	sub.HandleFunc("/cart/add", api.addItem).Methods(http.MethodPost).Name("add")
	sub.HandleFunc("/cart/update", api.updateItem).Methods(http.MethodPut).Name("update")
	sub.HandleFunc("/cart/remove/{userId}/{productId}", api.removeItem).Methods(http.MethodDelete).Name("remove")
	sub.HandleFunc("/cart/clear/{userId}", api.clear).Methods(http.MethodDelete).Name("clear")
	sub.HandleFunc("/cart/{userId}", api.findCart).Methods(http.MethodGet).Name("cart")
	sub.HandleFunc("/orders/create", api.createOrder).Methods(http.MethodPost).Name("create")
	sub.HandleFunc("/orders/my/{userId}", api.findOrders).Methods(http.MethodGet).Name("orders")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return api, server
}

func (api *fakeAPI) failNext(route string, statusCode int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.failures[route] = statusCode
}

func (api *fakeAPI) callCount(route string) int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.calls[route]
}

func (api *fakeAPI) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r).GetName()

		api.mu.Lock()
		api.calls[route]++
		statusCode, fail := api.failures[route]
		delete(api.failures, route)
		api.inflight++
		if api.inflight > api.maxInflight {
			api.maxInflight = api.inflight
		}
		api.mu.Unlock()
		defer func() {
			api.mu.Lock()
			api.inflight--
			api.mu.Unlock()
		}()

		if fail {
			respond(w, r, statusCode, "injected failure", nil)
			return
		}
		if route != "login" && r.Header.Get(inHttp.KeyHeaderAuthorization) != "Bearer "+fakeToken {
			respond(w, r, http.StatusUnauthorized, "unauthenticated", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respond(w http.ResponseWriter, r *http.Request, statusCode int, message string, data interface{}) {
	status := constants.StatusSuccess
	if statusCode >= http.StatusBadRequest {
		status = constants.StatusFailed
	}
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
		"status":     status,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

func (api *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["password"] != "secret1" {
		respond(w, r, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	respond(w, r, http.StatusOK, "ok", userResponse.Auth{Token: fakeToken, User: api.user})
}

func (api *fakeAPI) findCart(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	items := make([]cartResponse.CartItem, 0, len(api.items))
	for _, item := range api.items {
		items = append(items, item)
	}
	respond(w, r, http.StatusOK, "ok", cartResponse.Cart{UserID: api.user.ID, Items: items})
}

func (api *fakeAPI) addItem(w http.ResponseWriter, r *http.Request) {
	body := cartRequest.AddCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	item, ok := api.items[body.ProductID]
	if !ok {
		item = cartResponse.CartItem{
			UserID:    body.UserID,
			ProductID: body.ProductID,
			Title:     body.Title,
			Price:     body.Price.Round(2),
			Image:     body.Image,
		}
	}
	item.Quantity += body.Quantity
	api.items[body.ProductID] = item
	respond(w, r, http.StatusOK, "ok", item)
}

func (api *fakeAPI) updateItem(w http.ResponseWriter, r *http.Request) {
	body := cartRequest.UpdateCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	item, ok := api.items[body.ProductID]
	if !ok {
		respond(w, r, http.StatusNotFound, "not found", nil)
		return
	}
	item.Quantity = body.Quantity
	api.items[body.ProductID] = item
	respond(w, r, http.StatusOK, "ok", item)
}

func (api *fakeAPI) removeItem(w http.ResponseWriter, r *http.Request) {
	productId, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	api.mu.Lock()
	defer api.mu.Unlock()
	delete(api.items, productId)
	respond(w, r, http.StatusOK, "ok", nil)
}

func (api *fakeAPI) clear(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.items = map[int64]cartResponse.CartItem{}
	respond(w, r, http.StatusOK, "ok", nil)
}

func (api *fakeAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	body := orderRequest.CreateOrder{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if api.orderEntered != nil {
		api.orderEntered <- struct{}{}
		<-api.orderRelease
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	activeCoupon, err := coupon.Default.Resolve(body.CouponCode)
	if err != nil {
		respond(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	items := make([]cartResponse.CartItem, 0, len(api.items))
	for _, item := range api.items {
		items = append(items, item)
	}
	totals := pricing.ComputeTotals(cartResponse.Lines(items), activeCoupon, pricing.DefaultConfig()).Rounded()
	if !body.Total.Equal(totals.GrandTotal) || !body.DiscountAmount.Equal(totals.Discount) {
		respond(w, r, http.StatusBadRequest, "order total does not match cart", nil)
		return
	}
	api.lastOrder = body
	order := orderResponse.Order{
		ID:             uuid.New(),
		UserID:         body.UserID,
		AddressID:      body.AddressID,
		PaymentMethod:  body.PaymentMethod,
		CouponCode:     body.CouponCode,
		DiscountAmount: body.DiscountAmount,
		Total:          body.Total,
		Status:         "Processing",
	}
	line := int32(0)
	for _, item := range api.items {
		line++
		order.Items = append(order.Items, orderResponse.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			LineNo:    line,
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	api.items = map[int64]cartResponse.CartItem{}
	api.orders = append([]orderResponse.Order{order}, api.orders...)
	respond(w, r, http.StatusCreated, "order placed successfully", order)
}

func (api *fakeAPI) findOrders(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	respond(w, r, http.StatusOK, "ok", api.orders)
}

// loggedInStore returns a store whose session is already established.
func loggedInStore(t *testing.T, api *fakeAPI, server *httptest.Server) *Store {
	t.Helper()
	store := NewStore(NewClient(server.URL+"/api", server.Client()), pricing.DefaultConfig(), coupon.Default)
	store.SetSession(&Session{Token: fakeToken, User: api.user})
	return store
}
