package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/application/archive"
	"github.com/turtacn/Joana-OrderBot/internal/application/conversation"
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/messaging/whatsapp"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/intelligence/order_nlu"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type mockConversation struct {
	mock.Mock
}

func (m *mockConversation) HandleTurn(ctx context.Context, in *conversation.TurnInput) (*conversation.TurnResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*conversation.TurnResult)
	return res, args.Error(1)
}

func (m *mockConversation) GetSession(ctx context.Context, id string) (*session.State, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*session.State)
	return st, args.Error(1)
}

func (m *mockConversation) ResetSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) ListBySession(ctx context.Context, sid string, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, sid, limit)
	os, _ := args.Get(0).([]*order.Order)
	return os, args.Error(1)
}

// serve routes req through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestConversationHandler_Turn(t *testing.T) {
	svc := new(mockConversation)
	h := NewConversationHandler(svc, archive.NewService(nil), logging.NewNopLogger())

	st := session.New("s1")
	svc.On("HandleTurn", mock.Anything, &conversation.TurnInput{SessionID: "s1", Text: "hi"}).
		Return(&conversation.TurnResult{
			Messages: []conversation.Message{{Text: "Welcome", Buttons: []conversation.Button{{ID: conversation.BtnLangEN, Title: "English"}}}},
			Session:  st,
			Outcome:  conversation.OutcomeHandled,
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/turns", strings.NewReader(`{"text":"hi"}`))
	w := serve(http.MethodPost, "/api/v1/sessions/{sessionID}/turns", h.Turn, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res conversation.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "Welcome", res.Messages[0].Text)
	assert.Equal(t, "lang_en", res.Messages[0].Buttons[0].ID)
	assert.Equal(t, "s1", res.Session.SessionID)
	svc.AssertExpectations(t)
}

func TestConversationHandler_TurnErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "bad json", body: `{`, code: http.StatusBadRequest},
		{name: "empty text", body: `{"text":"  "}`, code: http.StatusBadRequest},
		{name: "duplicate", body: `{"text":"hi"}`, err: errors.New(errors.ErrCodeDuplicateTurn, "duplicate message ignored"), code: http.StatusConflict},
		{name: "store down", body: `{"text":"hi"}`, err: errors.New(errors.ErrCodeCacheError, "redis: connection refused"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockConversation)
			if tt.err != nil {
				svc.On("HandleTurn", mock.Anything, mock.Anything).Return(nil, tt.err)
			}
			h := NewConversationHandler(svc, archive.NewService(nil), logging.NewNopLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/turns", strings.NewReader(tt.body))
			w := serve(http.MethodPost, "/api/v1/sessions/{sessionID}/turns", h.Turn, req)

			assert.Equal(t, tt.code, w.Code)
			resp := decodeError(t, w)
			assert.NotEmpty(t, resp.Code)
			assert.NotContains(t, resp.Message, "redis")
		})
	}
}

func TestConversationHandler_Session(t *testing.T) {
	svc := new(mockConversation)
	h := NewConversationHandler(svc, archive.NewService(nil), logging.NewNopLogger())
	svc.On("GetSession", mock.Anything, "s1").Return(session.New("s1"), nil)
	svc.On("GetSession", mock.Anything, "gone").Return(nil, errors.New(errors.ErrCodeSessionNotFound, "session not found"))
	svc.On("ResetSession", mock.Anything, "s1").Return(nil)

	w := serve(http.MethodGet, "/api/v1/sessions/{sessionID}", h.GetSession, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"session_id":"s1"`)

	w = serve(http.MethodGet, "/api/v1/sessions/{sessionID}", h.GetSession, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/gone", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(http.MethodDelete, "/api/v1/sessions/{sessionID}", h.ResetSession, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestConversationHandler_Orders(t *testing.T) {
	repo := new(mockOrderRepo)
	h := NewConversationHandler(new(mockConversation), archive.NewService(repo), logging.NewNopLogger())
	o := &order.Order{ID: "o-1", SessionID: "s1", Total: decimal.NewFromInt(19), Currency: "SAR"}
	repo.On("FindByID", mock.Anything, "o-1").Return(o, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, errors.New(errors.ErrCodeOrderNotFound, "order not found"))
	repo.On("ListBySession", mock.Anything, "s1", 5).Return([]*order.Order{o}, nil)

	w := serve(http.MethodGet, "/api/v1/orders/{orderID}", h.GetOrder, httptest.NewRequest(http.MethodGet, "/api/v1/orders/o-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"o-1"`)

	w = serve(http.MethodGet, "/api/v1/orders/{orderID}", h.GetOrder, httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(http.MethodGet, "/api/v1/sessions/{sessionID}/orders", h.ListOrders, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/orders?limit=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orders":[`)
}

func TestConversationHandler_OrdersDisabled(t *testing.T) {
	h := NewConversationHandler(new(mockConversation), archive.NewService(nil), logging.NewNopLogger())
	w := serve(http.MethodGet, "/api/v1/orders/{orderID}", h.GetOrder, httptest.NewRequest(http.MethodGet, "/api/v1/orders/o-1", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func newMenuHandler(t *testing.T) *MenuHandler {
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewMenuHandler(cat, order_nlu.New(cat, order_nlu.DefaultConfig()), "SAR", logging.NewNopLogger())
}

func TestMenuHandler_Menu(t *testing.T) {
	h := newMenuHandler(t)

	w := httptest.NewRecorder()
	h.Menu(w, httptest.NewRequest(http.MethodGet, "/api/v1/menu?lang=ar", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp MenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "مطعم جوانا", resp.Restaurant)
	assert.Equal(t, "SAR", resp.Currency)
	require.NotEmpty(t, resp.Categories)
	assert.Equal(t, "burgers", resp.Categories[0].ID)
	assert.Equal(t, "البرجر", resp.Categories[0].Title)
	assert.Equal(t, "برجر دجاج", resp.Categories[0].Items[0].Name)
	assert.Equal(t, "9.50", resp.Categories[0].Items[0].Price)

	w = httptest.NewRecorder()
	h.Menu(w, httptest.NewRequest(http.MethodGet, "/api/v1/menu?lang=fr", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuHandler_Branches(t *testing.T) {
	h := newMenuHandler(t)
	w := httptest.NewRecorder()
	h.Branches(w, httptest.NewRequest(http.MethodGet, "/api/v1/branches", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Branches []BranchView `json:"branches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Branches)
	assert.Equal(t, "Al Malqa District", resp.Branches[0].Name)
	assert.Equal(t, "503100799", resp.Branches[0].Phone)
}

func TestMenuHandler_Parse(t *testing.T) {
	h := newMenuHandler(t)
	w := httptest.NewRecorder()
	h.Parse(w, httptest.NewRequest(http.MethodPost, "/api/v1/nlu/parse", strings.NewReader(`{"text":"2 Chiken Burgerz"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Normalized string         `json:"normalized"`
		Intents    []order.Intent `json:"intents"`
		Lang       string         `json:"lang"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2 chicken burger", resp.Normalized)
	assert.Equal(t, "en", resp.Lang)
	require.Len(t, resp.Intents, 1)
	assert.Equal(t, 1, resp.Intents[0].ItemID)
	assert.Equal(t, 2, resp.Intents[0].Quantity)

	w = httptest.NewRecorder()
	h.Parse(w, httptest.NewRequest(http.MethodPost, "/api/v1/nlu/parse", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type recordingDeliverer struct {
	mu    sync.Mutex
	to    []string
	sends [][]whatsapp.Reply
}

func (d *recordingDeliverer) Deliver(_ context.Context, to string, replies []whatsapp.Reply) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.to = append(d.to, to)
	d.sends = append(d.sends, replies)
	return nil
}

func TestWhatsAppHandler_Verify(t *testing.T) {
	h := NewWhatsAppHandler(new(mockConversation), &recordingDeliverer{}, "secret", logging.NewNopLogger())

	w := httptest.NewRecorder()
	h.Verify(w, httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	w = httptest.NewRecorder()
	h.Verify(w, httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

const buttonNotification = `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{
  "messages":[{"id":"wamid.1","from":"9665","timestamp":"1700000000","type":"interactive",
  "interactive":{"type":"button_reply","button_reply":{"id":"lang_en","title":"English"}}}]}}]}]}`

func TestWhatsAppHandler_Receive(t *testing.T) {
	svc := new(mockConversation)
	d := &recordingDeliverer{}
	h := NewWhatsAppHandler(svc, d, "secret", logging.NewNopLogger())

	svc.On("HandleTurn", mock.Anything, &conversation.TurnInput{SessionID: "whatsapp:9665", Text: "lang_en"}).
		Return(&conversation.TurnResult{Messages: []conversation.Message{
			{Text: "Menu", Buttons: []conversation.Button{{ID: "group_burgers_meals", Title: "Burgers & Meals"}}},
		}}, nil)

	w := httptest.NewRecorder()
	h.Receive(w, httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(buttonNotification)))
	assert.Equal(t, http.StatusOK, w.Code)
	h.Wait()

	require.Len(t, d.sends, 1)
	assert.Equal(t, "9665", d.to[0])
	assert.Equal(t, "Menu", d.sends[0][0].Text)
	assert.Equal(t, "group_burgers_meals", d.sends[0][0].Buttons[0].ID)
	svc.AssertExpectations(t)
}

func TestWhatsAppHandler_ReceiveDuplicateNotDelivered(t *testing.T) {
	svc := new(mockConversation)
	d := &recordingDeliverer{}
	h := NewWhatsAppHandler(svc, d, "secret", logging.NewNopLogger())
	svc.On("HandleTurn", mock.Anything, mock.Anything).Return(nil, errors.New(errors.ErrCodeDuplicateTurn, "duplicate message ignored"))

	w := httptest.NewRecorder()
	h.Receive(w, httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(buttonNotification)))
	h.Wait()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, d.sends)
}

func TestWhatsAppHandler_ReceiveWithoutObject(t *testing.T) {
	h := NewWhatsAppHandler(new(mockConversation), &recordingDeliverer{}, "secret", logging.NewNopLogger())
	w := httptest.NewRecorder()
	h.Receive(w, httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(`{"entry":[]}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
