package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alvaro-reta/solari-market/internal/auth"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository/sheet"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

// market bundles everything the service tests need: the services under
// test, the repositories for seeding, and the raw store for failure
// injection.
type market struct {
	auth     *AuthService
	items    *ItemService
	offers   *OfferService
	messages *MessageService
	db       *sheet.DB
	store    *tabular.MemStore
}

// newMarket wires the full service stack over a fresh in-memory store.
// Going through the real repository layer (rather than mocks) means every
// test also exercises the row codecs and physical-row addressing.
func newMarket(t *testing.T) *market {
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

	return &market{
		auth:     NewAuthService(db.Users, tokens, passwords, logger),
		items:    NewItemService(db.Items, db.Users, db.Offers, db.Catalog, logger),
		offers:   NewOfferService(db.Offers, db.Items, db.Users, logger),
		messages: NewMessageService(db.Messages, db.Users, logger),
		db:       db,
		store:    store,
	}
}

func (m *market) seedUser(t *testing.T, username string, balance int) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@arrakis.example",
		Role:     model.RoleSeller,
		Balance:  balance,
	}
	if err := m.db.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return u
}

func (m *market) seedItem(t *testing.T, seller *model.User, price, stock int) *model.Item {
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
	if err := m.db.Items.Create(context.Background(), item); err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return item
}

func (m *market) userBalance(t *testing.T, id string) int {
	t.Helper()
	u, _, err := m.db.Users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reading user %s: %v", id, err)
	}
	return u.Balance
}
