package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/snapshot"
	"github.com/agrolocal/farmstand/internal/store"
)

func validForm() Form {
	return Form{
		Name:       "Maria Lopez",
		Email:      "maria@example.com",
		Address:    "Calle 10 #4-21",
		City:       "Gacheta",
		CardNumber: "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
	}
}

func newTestService(t *testing.T) (*Service, *store.Catalog) {
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

	return &Service{Cart: cart, Session: sessions}, catalog
}

func loginBuyer(svc *Service) models.User {
	user := models.User{ID: "u-1", Name: "Maria Lopez", Email: "maria@example.com", Role: models.RoleBuyer}
	svc.Session.Login(context.Background(), user)
	return user
}

func TestFormValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{name: "missing name", mutate: func(f *Form) { f.Name = "  " }, field: "name"},
		{name: "bad email", mutate: func(f *Form) { f.Email = "not-an-email" }, field: "email"},
		{name: "missing address", mutate: func(f *Form) { f.Address = "" }, field: "address"},
		{name: "missing city", mutate: func(f *Form) { f.City = "" }, field: "city"},
		{name: "short card", mutate: func(f *Form) { f.CardNumber = "411111111111" }, field: "card_number"},
		{name: "card with spaces", mutate: func(f *Form) { f.CardNumber = "4111 1111 1111 1111" }, field: "card_number"},
		{name: "bad expiry", mutate: func(f *Form) { f.Expiry = "2027-12" }, field: "expiry"},
		{name: "short cvv", mutate: func(f *Form) { f.CVV = "12" }, field: "cvv"},
		{name: "long cvv", mutate: func(f *Form) { f.CVV = "12345" }, field: "cvv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := validForm()
			tt.mutate(&form)

			errs := form.Validate()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestFormValidate_OK(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validForm().Validate())

	// four-digit CVV is also fine
	form := validForm()
	form.CVV = "1234"
	assert.Nil(t, form.Validate())
}

func TestProcess_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	loginBuyer(svc)

	_, err := svc.Process(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestProcess_RequiresAuthentication(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Cart.AddItem(context.Background(), "1", 2))

	_, err := svc.Process(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestProcess_RequiresBuyerRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Cart.AddItem(ctx, "1", 2))
	svc.Session.Login(ctx, models.User{ID: "s-1", Name: "Pedro", Email: "pedro@example.com", Role: models.RoleSeller})

	_, err := svc.Process(ctx, validForm())
	assert.ErrorIs(t, err, ErrNotBuyer)
}

func TestProcess_InvalidFormBlocksAndKeepsCart(t *testing.T) {
	svc, catalog := newTestService(t)
	ctx := context.Background()

	loginBuyer(svc)
	require.NoError(t, svc.Cart.AddItem(ctx, "1", 10))

	form := validForm()
	form.CardNumber = "1234"

	_, err := svc.Process(ctx, form)
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "card_number")

	// nothing consumed
	require.Len(t, svc.Cart.Items(), 1)
	p, err := catalog.Get("1")
	require.NoError(t, err)
	assert.Equal(t, float64(90), p.AvailableKilos)
}

func TestProcess_Success(t *testing.T) {
	svc, catalog := newTestService(t)
	ctx := context.Background()

	user := loginBuyer(svc)
	require.NoError(t, svc.Cart.AddItem(ctx, "2", 2)) // tomatoes 3000/kg
	require.NoError(t, svc.Cart.AddItem(ctx, "3", 1)) // avocados 6300/kg

	before := time.Now().UTC()
	order, err := svc.Process(ctx, validForm())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, float64(12300), order.Total)
	assert.Equal(t, "Maria Lopez", order.Shipping.Name)
	assert.Equal(t, "Gacheta", order.Shipping.City)
	assert.False(t, order.CreatedAt.Before(before))

	// purchase finality: cart empty, stock not restored
	assert.Empty(t, svc.Cart.Items())
	p, err := catalog.Get("2")
	require.NoError(t, err)
	assert.Equal(t, float64(78), p.AvailableKilos)
	p, err = catalog.Get("3")
	require.NoError(t, err)
	assert.Equal(t, float64(149), p.AvailableKilos)
}

func TestProcess_SimulatedDelayHonorsContext(t *testing.T) {
	svc, catalog := newTestService(t)
	svc.Delay = 5 * time.Second

	loginBuyer(svc)
	require.NoError(t, svc.Cart.AddItem(context.Background(), "1", 5))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Process(ctx, validForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// cancelled checkout leaves the cart and its reservation untouched
	require.Len(t, svc.Cart.Items(), 1)
	p, err := catalog.Get("1")
	require.NoError(t, err)
	assert.Equal(t, float64(95), p.AvailableKilos)
}
