//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/spot"
	"smart-parking/internal/domain/user"
	"smart-parking/internal/handler"
	"smart-parking/internal/handler/api"
	"smart-parking/internal/handler/middleware"
	"smart-parking/internal/infra/memstore"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	"smart-parking/internal/pkg/jwt"
	"smart-parking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const seedPassword = "password123"

// apiFixture stands up the full router over the in-memory store, so requests
// travel the same path as production: routes, auth middleware, handlers,
// use cases.
type apiFixture struct {
	t      *testing.T
	engine *gin.Engine
	store  *memstore.Store
	clk    *clock.MockClock
	jwtSvc *jwt.Service
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig()
	clk := clock.NewMockClock(baseTime)
	store := memstore.New(clk)
	services := &booking.Services{
		Clock:           clk,
		PriceCalculator: booking.NewHourlyPriceCalculator(),
	}

	jwtSvc := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
	bookingUC := usecase.NewBookingUseCase(store, store.Spots(), services, cfg.Booking)
	spotUC := usecase.NewSpotUseCase(store.Spots())
	authUC := usecase.NewAuthUseCase(store.Users(), jwtSvc)

	engine := gin.New()
	handler.NewRouter(
		engine,
		cfg,
		nil,
		api.NewAuthHandler(authUC, cfg.JWT, cfg.Cookie),
		api.NewSpotHandler(spotUC),
		api.NewBookingHandler(bookingUC),
		middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwtSvc)),
	)

	return &apiFixture{
		t:      t,
		engine: engine,
		store:  store,
		clk:    clk,
		jwtSvc: jwtSvc,
	}
}

// seedUser inserts a user directly and mints a token for them, bypassing the
// register endpoint so tests can create admins too.
func (f *apiFixture) seedUser(name, email string, role user.Role) (uuid.UUID, string) {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	require.NoError(f.t, err)

	em, err := user.NewEmail(email)
	require.NoError(f.t, err)

	u, err := user.NewUser(name, em, string(hash), role, "", "AB-1234")
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Users().Create(context.Background(), u))

	token, err := f.jwtSvc.GenerateToken(u.ID(), role)
	require.NoError(f.t, err)
	return u.ID(), token
}

func (f *apiFixture) seedSpot(number string, rateCentsPerHour int64) uuid.UUID {
	f.t.Helper()

	sp, err := spot.NewSpot(number, 1, "A", spot.TypeRegular, rateCentsPerHour)
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Spots().Create(context.Background(), sp))
	return sp.ID()
}

func (f *apiFixture) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// errorKind pulls the machine-readable discriminator out of an error payload.
func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Kind
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
