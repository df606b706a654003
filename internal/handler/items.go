package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alvaro-reta/solari-market/internal/service"
)

// ItemHandler exposes the public listing, item detail, listing creation,
// the seller's own views, and the static reference data.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// HandleList returns available items, filtered and sorted.
//
// HTTP: GET /api/items?tier=&type=&minPrice=&maxPrice=&search=&sortBy=
//
// Numeric filters that fail to parse are treated as absent rather than
// rejected; a garbled filter should degrade to a broader listing, not a 400.
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := service.ListFilters{
		Type:   q.Get("type"),
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
	}
	filters.Tier, _ = strconv.Atoi(q.Get("tier"))
	filters.MinPrice, _ = strconv.Atoi(q.Get("minPrice"))
	filters.MaxPrice, _ = strconv.Atoi(q.Get("maxPrice"))

	views, err := h.items.ListItems(r.Context(), filters)
	if err != nil {
		h.logger.Error("listing items failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": views,
		"count": len(views),
	})
}

// HandleGet returns one item with its seller's profile.
//
// HTTP: GET /api/items/{id}
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"item": view})
}

// HandleCreate publishes a new listing owned by the authenticated user.
//
// HTTP: POST /api/items
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in service.CreateItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid item JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	item, err := h.items.CreateItem(r.Context(), user, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"item": item})
}

// HandleMyItems returns the caller's own listings, any status.
//
// HTTP: GET /api/my-items
func (h *ItemHandler) HandleMyItems(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.items.MyItems(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// HandleSalesStats summarizes the caller's selling activity.
//
// HTTP: GET /api/sales-stats
func (h *ItemHandler) HandleSalesStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.items.SalesStats(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// HandleCatalog returns the static item catalog.
//
// HTTP: GET /api/items-catalog?search=
func (h *ItemHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.items.Catalog(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": entries,
		"count": len(entries),
	})
}

// HandleRegions returns the fixed region list.
//
// HTTP: GET /api/regions
func (h *ItemHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"regions": service.Regions})
}

// HandleServers returns the fixed server list.
//
// HTTP: GET /api/servers
func (h *ItemHandler) HandleServers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"servers": service.Servers})
}
