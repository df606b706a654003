package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/alvaro-reta/solari-market/internal/auth"
	"github.com/alvaro-reta/solari-market/internal/handler"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository/sheet"
	"github.com/alvaro-reta/solari-market/internal/service"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

// testApp wires real services over an in-memory store so handler tests
// exercise the full request path, not a mock of it.
type testApp struct {
	auth     *handler.AuthHandler
	items    *handler.ItemHandler
	offers   *handler.OfferHandler
	messages *handler.MessageHandler
	db       *sheet.DB
	store    *tabular.MemStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := tabular.NewMemStore()
	for table, header := range sheet.Tables() {
		store.Seed(table, header)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := sheet.New(store, logger)

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	authService := service.NewAuthService(db.Users, tokens, passwords, logger)
	itemService := service.NewItemService(db.Items, db.Users, db.Offers, db.Catalog, logger)
	offerService := service.NewOfferService(db.Offers, db.Items, db.Users, logger)
	messageService := service.NewMessageService(db.Messages, db.Users, logger)

	return &testApp{
		auth:     handler.NewAuthHandler(authService, logger),
		items:    handler.NewItemHandler(itemService, logger),
		offers:   handler.NewOfferHandler(offerService, logger),
		messages: handler.NewMessageHandler(messageService, logger),
		db:       db,
		store:    store,
	}
}

func (a *testApp) seedUser(t *testing.T, username string, balance int) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@arrakis.example",
		Role:     model.RoleSeller,
		Balance:  balance,
	}
	if err := a.db.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return u
}

func (a *testApp) seedItem(t *testing.T, seller *model.User, price, stock int) *model.Item {
	t.Helper()
	item := &model.Item{
		Name:     "crysknife",
		Price:    price,
		ImageURL: "https://img.example/knife.png",
		Tier:     3,
		Type:     "weapon",
		SellerID: seller.ID,
		Status:   model.ItemStatusAvailable,
		Stock:    stock,
		Region:   "Europe",
		Server:   "Arrakis-01",
	}
	if err := a.db.Items.Create(context.Background(), item); err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return item
}

// asUser attaches an authenticated user to the request context the same
// way the auth middleware does.
func asUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), user))
}
