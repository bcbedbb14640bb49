package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/mreichel/MarketStall/app/models"
	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/apperrors"
)

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) Create(u *models.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) Update(u *models.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) Delete(id uint) error        { delete(f.users, id); return nil }
func (f *fakeUserRepo) Count() (int64, error)       { return int64(len(f.users)), nil }

type fakeTenantRepo struct {
	tenants map[string]*models.Tenant // keyed by slug
	byUser  map[uint]*models.Tenant
}

func (f *fakeTenantRepo) Create(t *models.Tenant) error { f.tenants[t.Slug] = t; return nil }
func (f *fakeTenantRepo) GetByID(id uint) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTenantRepo) GetBySlug(slug string) (*models.Tenant, error) {
	t, ok := f.tenants[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}
func (f *fakeTenantRepo) GetFirstForUser(userID uint) (*models.Tenant, error) {
	t, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}
func (f *fakeTenantRepo) Update(t *models.Tenant) error { f.tenants[t.Slug] = t; return nil }
func (f *fakeTenantRepo) SetDetailsSubmittedByAccountID(accountID string, submitted bool) (int64, error) {
	var rows int64
	for _, t := range f.tenants {
		if t.StripeAccountID == accountID {
			t.StripeDetailsSubmitted = submitted
			rows++
		}
	}
	return rows, nil
}

type fakeProductRepo struct {
	products []models.Product
	slugs    map[string]string // product uuid -> owning tenant slug
}

func (f *fakeProductRepo) Create(p *models.Product) error { f.products = append(f.products, *p); return nil }
func (f *fakeProductRepo) GetByUUID(uuid string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].UUID == uuid {
			return &f.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProductRepo) FindActiveByUUIDs(uuids []string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsArchived {
			continue
		}
		for _, id := range uuids {
			if p.UUID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}
func (f *fakeProductRepo) FindForCheckout(uuids []string, tenantSlug string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsArchived || f.slugs[p.UUID] != tenantSlug {
			continue
		}
		for _, id := range uuids {
			if p.UUID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}
func (f *fakeProductRepo) Update(p *models.Product) error { return nil }

type fakePaymentsClient struct {
	session     *stripe.CheckoutSession
	link        *stripe.AccountLink
	err         error
	lastParams  *stripe.CheckoutSessionParams
	lastAccount string
	lastRefresh string
	lastReturn  string
}

func (f *fakePaymentsClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams, connectedAccount string) (*stripe.CheckoutSession, error) {
	f.lastParams = params
	f.lastAccount = connectedAccount
	return f.session, f.err
}

func (f *fakePaymentsClient) GetCheckoutSession(ctx context.Context, id, connectedAccount string, expand []string) (*stripe.CheckoutSession, error) {
	return f.session, f.err
}

func (f *fakePaymentsClient) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error) {
	f.lastAccount = accountID
	f.lastRefresh = refreshURL
	f.lastReturn = returnURL
	return f.link, f.err
}

func testConfig() Config {
	return Config{
		AppURL:           "http://localhost:4000",
		RootDomain:       "marketstall.local",
		SubdomainRouting: true,
		FeePercent:       10,
		Currency:         "usd",
	}
}

func newTestService(pc *fakePaymentsClient) (*Service, *fakeUserRepo, *fakeTenantRepo, *fakeProductRepo) {
	users := &fakeUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Name: "Alice Buyer", Email: "alice@example.com", Role: models.ROLE_USER},
		2: {ID: 2, Name: "Root Admin", Email: "admin@example.com", Role: models.ROLE_SUPERADMIN},
	}}
	tenants := &fakeTenantRepo{
		tenants: map[string]*models.Tenant{
			"north-books": {ID: 10, Name: "North Books", Slug: "north-books", StripeAccountID: "acct_north", StripeDetailsSubmitted: true},
			"new-shop":    {ID: 11, Name: "New Shop", Slug: "new-shop", StripeAccountID: "acct_new", StripeDetailsSubmitted: false},
		},
		byUser: map[uint]*models.Tenant{},
	}
	products := &fakeProductRepo{
		products: []models.Product{
			{ID: 100, UUID: "prod-a", Name: "Paperback", Price: 19.99, TenantID: 10},
			{ID: 101, UUID: "prod-b", Name: "Hardcover", Price: 35.00, TenantID: 10},
			{ID: 102, UUID: "prod-c", Name: "Sticker", Price: 2.50, TenantID: 11},
			{ID: 103, UUID: "prod-g", Name: "Orphan", Price: 1.00, TenantID: 12},
		},
		slugs: map[string]string{"prod-a": "north-books", "prod-b": "north-books", "prod-c": "new-shop", "prod-g": "ghost"},
	}
	repos := &repository.Repositories{User: users, Tenant: tenants, Product: products}
	return NewService(repos, pc, testConfig()), users, tenants, products
}

func TestPurchaseConnectedAccountMode(t *testing.T) {
	pc := &fakePaymentsClient{session: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}}
	svc, _, _, _ := newTestService(pc)

	got, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		ProductIDs: []string{"prod-a", "prod-b", "prod-a", ""},
		TenantSlug: "north-books",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/cs_1", got.URL)

	// Session lands on the tenant's connected account with the platform fee.
	assert.Equal(t, "acct_north", pc.lastAccount)
	require.NotNil(t, pc.lastParams.PaymentIntentData)
	// 10% of 5499 cents, rounded half up.
	assert.Equal(t, int64(550), *pc.lastParams.PaymentIntentData.ApplicationFeeAmount)

	assert.Equal(t, "alice@example.com", *pc.lastParams.CustomerEmail)
	assert.Equal(t, "1", pc.lastParams.Metadata[MetadataKeyUserID])
	assert.Equal(t, "https://north-books.marketstall.local/checkout?success=true", *pc.lastParams.SuccessURL)

	// Duplicate and empty ids collapse to one line item per distinct product.
	require.Len(t, pc.lastParams.LineItems, 2)
	first := pc.lastParams.LineItems[0]
	assert.Equal(t, int64(1), *first.Quantity)
	assert.Equal(t, int64(1999), *first.PriceData.UnitAmount)
	meta := first.PriceData.ProductData.Metadata
	assert.Equal(t, "prod-a", meta[MetadataKeyProductID])
	assert.Equal(t, "Paperback", meta[MetadataKeyProductName])
	assert.Equal(t, "19.99", meta[MetadataKeyProductPrice])
	assert.Equal(t, "acct_north", meta[MetadataKeyStripeAccount])
}

func TestPurchaseSuperAdminUsesPlatformAccount(t *testing.T) {
	pc := &fakePaymentsClient{session: &stripe.CheckoutSession{ID: "cs_2", URL: "https://checkout.stripe.com/cs_2"}}
	svc, _, _, _ := newTestService(pc)

	// new-shop has not completed onboarding; a superadmin buyer may still
	// transact, on the platform account and without an application fee.
	got, err := svc.Purchase(context.Background(), 2, PurchaseInput{
		ProductIDs: []string{"prod-c"},
		TenantSlug: "new-shop",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.URL)
	assert.Empty(t, pc.lastAccount)
	assert.Nil(t, pc.lastParams.PaymentIntentData)
}

func TestPurchaseFailures(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		in       PurchaseInput
		wantCode string
		wantKind apperrors.Kind
	}{
		{
			name:     "no product ids",
			userID:   1,
			in:       PurchaseInput{TenantSlug: "north-books"},
			wantCode: apperrors.CodeInvalidInput,
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "missing tenant slug",
			userID:   1,
			in:       PurchaseInput{ProductIDs: []string{"prod-a"}},
			wantCode: apperrors.CodeInvalidInput,
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "unknown buyer",
			userID:   99,
			in:       PurchaseInput{ProductIDs: []string{"prod-a"}, TenantSlug: "north-books"},
			wantCode: apperrors.CodeNotFound,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:     "unknown product",
			userID:   1,
			in:       PurchaseInput{ProductIDs: []string{"prod-a", "prod-zzz"}, TenantSlug: "north-books"},
			wantCode: apperrors.CodeProductsNotFound,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:     "product from another tenant",
			userID:   1,
			in:       PurchaseInput{ProductIDs: []string{"prod-c"}, TenantSlug: "north-books"},
			wantCode: apperrors.CodeProductsNotFound,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:     "tenant record missing",
			userID:   1,
			in:       PurchaseInput{ProductIDs: []string{"prod-g"}, TenantSlug: "ghost"},
			wantCode: apperrors.CodeTenantNotFound,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:     "tenant not eligible for regular buyer",
			userID:   1,
			in:       PurchaseInput{ProductIDs: []string{"prod-c"}, TenantSlug: "new-shop"},
			wantCode: apperrors.CodeTenantNotEligible,
			wantKind: apperrors.KindAuthorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := &fakePaymentsClient{session: &stripe.CheckoutSession{URL: "https://x"}}
			svc, _, _, _ := newTestService(pc)

			_, err := svc.Purchase(context.Background(), tt.userID, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
		})
	}
}

func TestPurchaseSessionCreationFailure(t *testing.T) {
	pc := &fakePaymentsClient{err: errors.New("stripe is down")}
	svc, _, _, _ := newTestService(pc)

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		ProductIDs: []string{"prod-a"},
		TenantSlug: "north-books",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSessionCreationFailed, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindExternal, apperrors.KindOf(err))
}

func TestPurchaseSessionWithoutURL(t *testing.T) {
	pc := &fakePaymentsClient{session: &stripe.CheckoutSession{ID: "cs_3"}}
	svc, _, _, _ := newTestService(pc)

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		ProductIDs: []string{"prod-a"},
		TenantSlug: "north-books",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSessionCreationFailed, apperrors.CodeOf(err))
}

func TestVerifyIssuesOnboardingLink(t *testing.T) {
	pc := &fakePaymentsClient{link: &stripe.AccountLink{URL: "https://connect.stripe.com/setup/x"}}
	svc, _, tenants, _ := newTestService(pc)
	tenants.byUser[1] = tenants.tenants["new-shop"]

	got, err := svc.Verify(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/x", got.URL)
	assert.Equal(t, "acct_new", pc.lastAccount)
	assert.Equal(t, "http://localhost:4000/admin", pc.lastRefresh)
	assert.Equal(t, "http://localhost:4000/admin", pc.lastReturn)
}

func TestVerifyWithoutTenant(t *testing.T) {
	pc := &fakePaymentsClient{link: &stripe.AccountLink{URL: "https://x"}}
	svc, _, _, _ := newTestService(pc)

	_, err := svc.Verify(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestVerifyWithoutConnectedAccount(t *testing.T) {
	pc := &fakePaymentsClient{link: &stripe.AccountLink{URL: "https://x"}}
	svc, _, tenants, _ := newTestService(pc)
	tenants.byUser[1] = &models.Tenant{ID: 12, Name: "Bare", Slug: "bare"}

	_, err := svc.Verify(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGetProducts(t *testing.T) {
	svc, _, _, _ := newTestService(&fakePaymentsClient{})

	got, err := svc.GetProducts(context.Background(), []string{"prod-a", "prod-b"})
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)
	assert.InDelta(t, 54.99, got.TotalPrice, 0.0001)
}

func TestGetProductsMissing(t *testing.T) {
	svc, _, _, _ := newTestService(&fakePaymentsClient{})

	_, err := svc.GetProducts(context.Background(), []string{"prod-a", "prod-zzz"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProductsNotFound, apperrors.CodeOf(err))
}

func TestTenantURL(t *testing.T) {
	svc := &Service{cfg: testConfig()}
	assert.Equal(t, "https://north-books.marketstall.local", svc.TenantURL("north-books"))

	cfg := testConfig()
	cfg.SubdomainRouting = false
	svc = &Service{cfg: cfg}
	assert.Equal(t, "http://localhost:4000/tenants/north-books", svc.TenantURL("north-books"))
}
