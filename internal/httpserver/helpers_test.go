package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/agrolocal/farmstand/internal/checkout"
	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/snapshot"
	"github.com/agrolocal/farmstand/internal/store"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Catalog  *store.Catalog
	Cart     *store.Cart
	Sessions *store.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	snap, err := snapshot.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { snap.Close() })

	logger := logging.New("error")
	ctx := context.Background()

	catalog, err := store.NewCatalog(ctx, snap, logger)
	require.NoError(t, err)
	cart, err := store.NewCart(ctx, catalog, snap, logger)
	require.NoError(t, err)
	sessions, err := store.NewSession(ctx, snap, logger)
	require.NoError(t, err)

	secret := []byte("test-secret")

	e := echo.New()
	Register(e, &Deps{
		SessionHandler:  &SessionHandler{Sessions: sessions, Secret: secret},
		ProductHandler:  &ProductHandler{Catalog: catalog},
		CartHandler:     &CartHandler{Cart: cart},
		CheckoutHandler: &CheckoutHandler{Svc: &checkout.Service{Cart: cart, Session: sessions}},
		Dashboard:       &DashboardHandler{Catalog: catalog},
		Auth:            &AuthMiddleware{Secret: secret},
	})

	return &testEnv{T: t, E: e, Catalog: catalog, Cart: cart, Sessions: sessions}
}

func (env *testEnv) doJSON(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, env *testEnv, name string, role models.Role) *http.Cookie {
	t.Helper()

	rec := env.doJSON(http.MethodPost, "/api/v1/login", map[string]string{
		"name":  name,
		"email": "test@example.com",
		"role":  string(role),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "accessToken" {
			require.NotEmpty(t, ck.Value)
			return ck
		}
	}
	t.Fatal("accessToken cookie not set")
	return nil
}

func loginBuyer(t *testing.T, env *testEnv) *http.Cookie {
	return login(t, env, "Maria Lopez", models.RoleBuyer)
}

func loginSeller(t *testing.T, env *testEnv, name string) *http.Cookie {
	return login(t, env, name, models.RoleSeller)
}
