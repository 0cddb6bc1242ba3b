package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
	"github.com/Skotchmaster/foodmarket/internal/storage"
	"github.com/Skotchmaster/foodmarket/internal/testutil"
)

type sentReset struct {
	UserID  uint
	Channel models.ResetChannel
	To      string
	Token   string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentReset
}

func (c *captureNotifier) PasswordReset(_ context.Context, userID uint, ch models.ResetChannel, to, token string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentReset{UserID: userID, Channel: ch, To: to, Token: token})
	return nil
}

func (c *captureNotifier) last() (sentReset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return sentReset{}, false
	}
	return c.sent[len(c.sent)-1], true
}

type fixture struct {
	repo     *repo.GormRepo
	events   *events.Recorder
	notifier *captureNotifier
	images   *storage.Memory
	identity *IdentityService
	catalog  *CatalogService
	carts    *CartService
	orders   *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := repo.New(testutil.NewDB(t))
	rec := &events.Recorder{}
	n := &captureNotifier{}
	img := storage.NewMemory()

	return &fixture{
		repo:     r,
		events:   rec,
		notifier: n,
		images:   img,
		identity: &IdentityService{
			Repo:          r,
			Events:        rec,
			Notifier:      n,
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			HashCost:      bcrypt.MinCost,
		},
		catalog: &CatalogService{Repo: r, Events: rec, Images: img, MediaURL: "https://cdn.test/media/"},
		carts:   &CartService{Repo: r, Events: rec},
		orders:  &OrderService{Repo: r, Events: rec},
	}
}

const strongPassword = "Sup3r-Secret"

func (f *fixture) customer(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.identity.Register(context.Background(), RegisterInput{
		FirstName: "Ayse",
		LastName:  "Yilmaz",
		Email:     email,
		Password:  strongPassword,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) menuItem(t *testing.T, name string, price float64) *models.MenuItem {
	t.Helper()
	ctx := context.Background()

	rest, err := f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "Ocakbasi", Address: "Besiktas", Phone: "2120000000"})
	require.NoError(t, err)
	item, err := f.catalog.CreateMenuItem(ctx, MenuItemInput{RestaurantID: rest.ID, Name: name, Price: models.MoneyFromFloat(price)})
	require.NoError(t, err)
	return item
}
