package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
)

const (
	MaxItemNameLength    = 100
	MaxDescriptionLength = 2000
	DefaultStock         = 1
)

// Sort orders accepted by ListItems. Anything else leaves sheet order.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// Static reference lists. These mirror the game's fixed world layout and
// change only with game updates, so they live in code rather than the
// spreadsheet.
var (
	Regions = []string{"Europe", "North America", "South America", "Oceania", "Asia"}
	Servers = []string{"Arrakis-01", "Arrakis-02", "Caladan-01", "Giedi-Prime-01", "Kaitain-01"}
)

// ItemService owns listings and the marketplace query layer.
type ItemService struct {
	items   repository.ItemRepository
	users   repository.UserRepository
	offers  repository.OfferRepository
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

func NewItemService(
	items repository.ItemRepository,
	users repository.UserRepository,
	offers repository.OfferRepository,
	catalog repository.CatalogRepository,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		items:   items,
		users:   users,
		offers:  offers,
		catalog: catalog,
		logger:  logger,
	}
}

// ItemView is an item joined with its seller's public profile.
type ItemView struct {
	model.Item
	Seller *model.Profile `json:"seller"`
}

// ListFilters narrows and orders the public item listing. Zero values mean
// "no constraint": prices are always positive, so 0 is a safe sentinel for
// both bounds, and tier 0 does not exist.
type ListFilters struct {
	Tier     int
	Type     string
	MinPrice int
	MaxPrice int
	Search   string
	SortBy   string
}

// ListItems returns available items matching the filters, each joined with
// its seller's profile.
//
// The join re-reads the Users table once and indexes it by ID, instead of
// one lookup per item — the repository has no cache, so per-item lookups
// would re-scan the whole table every time.
func (s *ItemService) ListItems(ctx context.Context, f ListFilters) ([]ItemView, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Status != model.ItemStatusAvailable {
			continue
		}
		if f.Tier != 0 && item.Tier != f.Tier {
			continue
		}
		if f.Type != "" && item.Type != f.Type {
			continue
		}
		if f.MinPrice != 0 && item.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice != 0 && item.Price > f.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		filtered = append(filtered, item)
	}

	switch f.SortBy {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortName:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	}

	profiles, err := s.sellerProfiles(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(filtered))
	for _, item := range filtered {
		views = append(views, ItemView{Item: item, Seller: profiles[item.SellerID]})
	}
	return views, nil
}

// GetItem returns one item (any status) joined with its seller.
func (s *ItemService) GetItem(ctx context.Context, id string) (*ItemView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	item, _, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &ItemView{Item: *item}
	if seller, _, err := s.users.GetByID(ctx, item.SellerID); err == nil {
		p := seller.Profile()
		view.Seller = &p
	}
	return view, nil
}

// CreateItemInput carries the caller-provided listing fields.
type CreateItemInput struct {
	Name          string
	Price         int
	ImageURL      string
	LargeImageURL string
	Description   string
	Tier          int
	Type          string
	Stock         int
	Region        string
	Server        string
}

// CreateItem validates and publishes a new listing for the seller.
func (s *ItemService) CreateItem(ctx context.Context, seller *model.User, in CreateItemInput) (*model.Item, error) {
	in.Name = strings.TrimSpace(in.Name)

	switch {
	case in.Name == "":
		return nil, apperror.ValidationFailed("name", "item name is required")
	case len(in.Name) > MaxItemNameLength:
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("item name must be %d characters or less", MaxItemNameLength))
	case in.Price <= 0:
		return nil, apperror.ValidationFailed("price", "price must be a positive whole number")
	case in.Tier <= 0:
		return nil, apperror.ValidationFailed("tier", "tier must be a positive whole number")
	case in.Type == "":
		return nil, apperror.ValidationFailed("type", "item type is required")
	case in.ImageURL == "":
		return nil, apperror.ValidationFailed("imageUrl", "image URL is required")
	case in.Region == "":
		return nil, apperror.ValidationFailed("region", "region is required")
	case in.Server == "":
		return nil, apperror.ValidationFailed("server", "server is required")
	case len(in.Description) > MaxDescriptionLength:
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	case in.Stock < 0:
		return nil, apperror.ValidationFailed("stock", "stock cannot be negative")
	}

	if in.LargeImageURL == "" {
		in.LargeImageURL = in.ImageURL
	}
	if in.Stock == 0 {
		in.Stock = DefaultStock
	}

	item := &model.Item{
		Name:          in.Name,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		LargeImageURL: in.LargeImageURL,
		Description:   strings.TrimSpace(in.Description),
		Tier:          in.Tier,
		Type:          in.Type,
		SellerID:      seller.ID,
		Status:        model.ItemStatusAvailable,
		Stock:         in.Stock,
		Region:        in.Region,
		Server:        in.Server,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service/items: creating item: %w", err)
	}

	s.logger.Info("item listed",
		slog.String("itemID", item.ID),
		slog.String("sellerID", seller.ID),
		slog.Int("price", item.Price),
	)

	return item, nil
}

// MyItems returns every listing belonging to the seller, any status.
func (s *ItemService) MyItems(ctx context.Context, sellerID string) ([]model.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing: %w", err)
	}
	mine := make([]model.Item, 0)
	for _, item := range items {
		if item.SellerID == sellerID {
			mine = append(mine, item)
		}
	}
	return mine, nil
}

// SalesStats summarizes a seller's listings and offer activity.
type SalesStats struct {
	TotalItems     int `json:"totalItems"`
	ActiveItems    int `json:"activeItems"`
	SoldItems      int `json:"soldItems"`
	PendingOffers  int `json:"pendingOffers"`
	AcceptedOffers int `json:"acceptedOffers"`
}

func (s *ItemService) SalesStats(ctx context.Context, sellerID string) (*SalesStats, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing items: %w", err)
	}
	offers, err := s.offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing offers: %w", err)
	}

	stats := &SalesStats{}
	for _, item := range items {
		if item.SellerID != sellerID {
			continue
		}
		stats.TotalItems++
		switch item.Status {
		case model.ItemStatusAvailable:
			stats.ActiveItems++
		case model.ItemStatusSold:
			stats.SoldItems++
		}
	}
	for _, offer := range offers {
		if offer.SellerID != sellerID {
			continue
		}
		switch offer.Status {
		case model.OfferStatusPending:
			stats.PendingOffers++
		case model.OfferStatusAccepted:
			stats.AcceptedOffers++
		}
	}
	return stats, nil
}

// Catalog returns the static item catalog, optionally filtered by a
// case-insensitive name substring.
func (s *ItemService) Catalog(ctx context.Context, search string) ([]model.CatalogEntry, error) {
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing catalog: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return entries, nil
	}
	matched := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), search) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// sellerProfiles reads the Users table once and indexes public profiles by
// user ID.
func (s *ItemService) sellerProfiles(ctx context.Context) (map[string]*model.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/items: listing users: %w", err)
	}
	profiles := make(map[string]*model.Profile, len(users))
	for i := range users {
		p := users[i].Profile()
		profiles[users[i].ID] = &p
	}
	return profiles, nil
}
