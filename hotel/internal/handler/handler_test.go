package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/handler"
	service_mocks "github.com/Astemirdum/hotel-service/hotel/internal/handler/mocks"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	adminP = auth.Principal{ID: 1, Role: auth.RoleAdmin}
	deskP  = auth.Principal{ID: 2, Role: auth.RoleFrontDesk}
	guestP = auth.Principal{ID: 10, Role: auth.RoleGuest}
)

type mocks struct {
	reservations *service_mocks.MockReservationService
	rooms        *service_mocks.MockRoomService
	users        *service_mocks.MockUserService
}

type revokedAll struct{}

func (revokedAll) Revoke(context.Context, string, time.Time) error { return nil }

func (revokedAll) IsRevoked(context.Context, string) (bool, error) { return true, nil }

func newRouter(t *testing.T, denylist auth.Denylist) (*echo.Echo, mocks, *auth.TokenManager) {
	t.Helper()
	c := gomock.NewController(t)
	m := mocks{
		reservations: service_mocks.NewMockReservationService(c),
		rooms:        service_mocks.NewMockRoomService(c),
		users:        service_mocks.NewMockUserService(c),
	}
	tokens := auth.NewTokenManager(auth.Config{Secret: "handler-test", TTL: time.Hour})
	if denylist == nil {
		denylist = auth.NopDenylist()
	}
	log := zap.NewExample().Named("test")
	h := handler.New(m.reservations, m.rooms, m.users, tokens, denylist, log)
	return h.NewRouter(), m, tokens
}

func tokenFor(t *testing.T, tokens *auth.TokenManager, p auth.Principal) string {
	t.Helper()
	token, _, err := tokens.Issue(auth.Profile{ID: p.ID, Role: p.Role, Email: "user@hotel.test", Name: "User"})
	require.NoError(t, err)
	return token
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func reservation101() model.Reservation {
	return model.Reservation{
		ID:              1,
		RoomID:          101,
		GuestUserID:     guestP.ID,
		CreatedByUserID: guestP.ID,
		StartDate:       model.NewDate(2024, time.June, 1),
		EndDate:         model.NewDate(2024, time.June, 3),
		Status:          model.StatusConfirmed,
		TotalPrice:      decimal.NewFromInt(200),
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(m mocks)

	okBody := `{"roomId":101,"startDate":"2024-06-01","endDate":"2024-06-03"}`
	req := model.CreateReservationRequest{RoomID: 101, StartDate: "2024-06-01", EndDate: "2024-06-03"}

	var tests = []struct {
		name         string
		anonymous    bool
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: okBody,
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().Create(gomock.Any(), guestP, req).Return(reservation101(), nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"roomId":101,"guestUserId":10,"createdByUserId":10,"startDate":"2024-06-01","endDate":"2024-06-03","status":"confirmed","totalPrice":"200"}`,
			},
		},
		{
			name: "err. overlap",
			body: `{"roomId":101,"startDate":"2024-06-02","endDate":"2024-06-04"}`,
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().Create(gomock.Any(), guestP, gomock.Any()).
					Return(model.Reservation{}, &errs.ConflictError{ReservationID: 1})
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"room is already booked for these dates by reservation 1","code":"CONFLICT","conflictingReservationId":1}`,
			},
		},
		{
			name: "err. bad dates",
			body: `{"roomId":101,"startDate":"2024-06-03","endDate":"2024-06-01"}`,
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().Create(gomock.Any(), guestP, gomock.Any()).
					Return(model.Reservation{}, errs.Validation("end date 2024-06-01 must be after start date 2024-06-03"))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"end date 2024-06-01 must be after start date 2024-06-03","code":"BAD_REQUEST"}`,
			},
		},
		{
			name: "err. room unavailable",
			body: okBody,
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().Create(gomock.Any(), guestP, req).
					Return(model.Reservation{}, errs.NotFound("room 101 is not available"))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"room 101 is not available","code":"NOT_FOUND"}`,
			},
		},
		{
			name:         "err. malformed body",
			body:         `{"roomId":"x"`,
			mockBehavior: func(m mocks) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid request body","code":"BAD_REQUEST"}`,
			},
		},
		{
			name:         "err. no token",
			anonymous:    true,
			body:         okBody,
			mockBehavior: func(m mocks) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"token required","code":"UNAUTHENTICATED"}`,
			},
		},
		{
			name: "err. internal",
			body: okBody,
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().Create(gomock.Any(), guestP, req).
					Return(model.Reservation{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"internal error","code":"INTERNAL"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m, tokens := newRouter(t, nil)
			token := ""
			if !tt.anonymous {
				token = tokenFor(t, tokens, guestP)
			}

			tt.mockBehavior(m)
			w := do(e, http.MethodPost, "/api/v1/reservations", token, tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListReservations(t *testing.T) {
	t.Parallel()
	roomID := int64(5)
	var tests = []struct {
		name         string
		caller       auth.Principal
		target       string
		mockBehavior func(m mocks)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "ok. filtered by room",
			caller: deskP,
			target: "/api/v1/reservations?roomId=5",
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().
					ListAll(gomock.Any(), deskP, model.ReservationFilter{RoomID: &roomID}).
					Return([]model.ReservationDetail{{
						Reservation: model.Reservation{
							ID:              4,
							RoomID:          5,
							GuestUserID:     10,
							CreatedByUserID: 2,
							StartDate:       model.NewDate(2024, time.June, 10),
							EndDate:         model.NewDate(2024, time.June, 12),
							Status:          model.StatusConfirmed,
							TotalPrice:      decimal.NewFromInt(160),
						},
						GuestName:    "Ana",
						GuestEmail:   "ana@hotel.test",
						RoomNumber:   "5",
						CreatorName:  "Desk",
						CreatorEmail: "desk@hotel.test",
					}}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"items":[{"id":4,"roomId":5,"guestUserId":10,"createdByUserId":2,"startDate":"2024-06-10","endDate":"2024-06-12","status":"confirmed","totalPrice":"160","guestName":"Ana","guestEmail":"ana@hotel.test","roomNumber":"5","creatorName":"Desk","creatorEmail":"desk@hotel.test"}]}`,
		},
		{
			name:   "ok. empty",
			caller: adminP,
			target: "/api/v1/reservations",
			mockBehavior: func(m mocks) {
				m.reservations.EXPECT().ListAll(gomock.Any(), adminP, model.ReservationFilter{}).
					Return([]model.ReservationDetail{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"items":[]}`,
		},
		{
			name:         "err. guest",
			caller:       guestP,
			target:       "/api/v1/reservations",
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"staff only","code":"FORBIDDEN"}`,
		},
		{
			name:         "err. bad filter",
			caller:       deskP,
			target:       "/api/v1/reservations?roomId=abc",
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"invalid roomId","code":"BAD_REQUEST"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m, tokens := newRouter(t, nil)
			tt.mockBehavior(m)
			w := do(e, http.MethodGet, tt.target, tokenFor(t, tokens, tt.caller), "")

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListMyReservations_Cookie(t *testing.T) {
	t.Parallel()
	e, m, tokens := newRouter(t, nil)
	m.reservations.EXPECT().ListMine(gomock.Any(), guestP.ID).Return([]model.Reservation{reservation101()}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/my", http.NoBody)
	r.AddCookie(&http.Cookie{Name: "token", Value: tokenFor(t, tokens, guestP)})
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"items":[{"id":1,"roomId":101,"guestUserId":10,"createdByUserId":10,"startDate":"2024-06-01","endDate":"2024-06-03","status":"confirmed","totalPrice":"200"}]}`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_CheckAvailability(t *testing.T) {
	t.Parallel()
	e, m, tokens := newRouter(t, nil)
	m.reservations.EXPECT().CheckAvailability(gomock.Any(), int64(101)).Return(model.Availability{
		RoomID: 101,
		Occupied: []model.OccupiedRange{{
			ID:        1,
			StartDate: model.NewDate(2024, time.June, 1),
			EndDate:   model.NewDate(2024, time.June, 3),
			Status:    model.StatusConfirmed,
		}},
	}, nil)

	w := do(e, http.MethodGet, "/api/v1/reservations/rooms/101/availability", tokenFor(t, tokens, guestP), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"roomId":101,"occupied":[{"id":1,"startDate":"2024-06-01","endDate":"2024-06-03","status":"confirmed"}]}`,
		strings.Trim(w.Body.String(), "\n"))

	w = do(e, http.MethodGet, "/api/v1/reservations/rooms/zero/availability", tokenFor(t, tokens, guestP), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateReservation(t *testing.T) {
	t.Parallel()
	body := `{"roomId":5,"startDate":"2024-06-01","endDate":"2024-06-03","status":"confirmed"}`
	req := model.UpdateReservationRequest{RoomID: 5, StartDate: "2024-06-01", EndDate: "2024-06-03", Status: model.StatusConfirmed}

	t.Run("guest forbidden", func(t *testing.T) {
		t.Parallel()
		e, _, tokens := newRouter(t, nil)
		w := do(e, http.MethodPut, "/api/v1/reservations/1", tokenFor(t, tokens, guestP), body)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("conflict", func(t *testing.T) {
		t.Parallel()
		e, m, tokens := newRouter(t, nil)
		m.reservations.EXPECT().Update(gomock.Any(), deskP, int64(1), req).
			Return(model.Reservation{}, &errs.ConflictError{ReservationID: 7})
		w := do(e, http.MethodPut, "/api/v1/reservations/1", tokenFor(t, tokens, deskP), body)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t,
			`{"message":"room is already booked for these dates by reservation 7","code":"CONFLICT","conflictingReservationId":7}`,
			strings.Trim(w.Body.String(), "\n"))
	})
	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		e, _, tokens := newRouter(t, nil)
		w := do(e, http.MethodPut, "/api/v1/reservations/1", tokenFor(t, tokens, deskP), `{"roomId":5}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), `"code":"BAD_REQUEST"`)
	})
}

func TestHandler_DeleteReservation(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		caller       auth.Principal
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "ok",
			caller:       deskP,
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "err. lead time",
			caller:       guestP,
			err:          errs.Forbidden("reservations can be cancelled only 7 days before check-in, 3 days left"),
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"reservations can be cancelled only 7 days before check-in, 3 days left","code":"FORBIDDEN"}`,
		},
		{
			name:         "err. not found",
			caller:       guestP,
			err:          errs.NotFound("reservation 1 not found"),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"reservation 1 not found","code":"NOT_FOUND"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m, tokens := newRouter(t, nil)
			m.reservations.EXPECT().Delete(gomock.Any(), tt.caller, int64(1)).Return(tt.err)

			w := do(e, http.MethodDelete, "/api/v1/reservations/1", tokenFor(t, tokens, tt.caller), "")
			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_RevokedToken(t *testing.T) {
	t.Parallel()
	e, _, tokens := newRouter(t, revokedAll{})
	w := do(e, http.MethodGet, "/api/v1/reservations/my", tokenFor(t, tokens, guestP), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"token revoked","code":"UNAUTHENTICATED"}`, strings.Trim(w.Body.String(), "\n"))

	w = do(e, http.MethodGet, "/api/v1/reservations/my", "not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"invalid or expired token","code":"UNAUTHENTICATED"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	e, _, _ := newRouter(t, nil)
	w := do(e, http.MethodGet, "/manage/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
