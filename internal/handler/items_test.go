package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandler_ListAndGet(t *testing.T) {
	app := newTestApp(t)
	seller := app.seedUser(t, "stilgar", 0)
	item := app.seedItem(t, seller, 300, 1)

	t.Run("list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.items.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/items", nil))

		require.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Items []struct {
				ID     string `json:"id"`
				Seller struct {
					Username string `json:"username"`
				} `json:"seller"`
			} `json:"items"`
			Count int `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		require.Equal(t, 1, res.Count)
		assert.Equal(t, item.ID, res.Items[0].ID)
		assert.Equal(t, "stilgar", res.Items[0].Seller.Username)
	})

	t.Run("list with unparseable filter degrades, not 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.items.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/items?minPrice=abc", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items/"+item.ID, nil)
		req.SetPathValue("id", item.ID)
		rr := httptest.NewRecorder()

		app.items.HandleGet(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), item.ID)
	})

	t.Run("get unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items/nope", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()

		app.items.HandleGet(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "not_found")
	})
}

func TestItemHandler_Create(t *testing.T) {
	app := newTestApp(t)
	seller := app.seedUser(t, "stilgar", 0)

	t.Run("valid listing", func(t *testing.T) {
		body := `{"name":"maula pistol","price":150,"imageUrl":"https://img.example/pistol.png","tier":2,"type":"weapon","region":"Europe","server":"Arrakis-01"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(body)), seller)
		rr := httptest.NewRecorder()

		app.items.HandleCreate(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var res struct {
			Item struct {
				ID       string `json:"id"`
				SellerID string `json:"sellerId"`
				Stock    int    `json:"stock"`
			} `json:"item"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Item.ID)
		assert.Equal(t, seller.ID, res.Item.SellerID)
		assert.Equal(t, 1, res.Item.Stock)
	})

	t.Run("no authenticated user", func(t *testing.T) {
		body := `{"name":"maula pistol","price":150}`
		rr := httptest.NewRecorder()

		app.items.HandleCreate(rr, httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid price", func(t *testing.T) {
		body := `{"name":"maula pistol","price":0,"imageUrl":"x","tier":2,"type":"weapon","region":"Europe","server":"Arrakis-01"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(body)), seller)
		rr := httptest.NewRecorder()

		app.items.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "price")
	})
}

func TestItemHandler_ReferenceData(t *testing.T) {
	app := newTestApp(t)

	t.Run("regions", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.items.HandleRegions(rr, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Europe")
	})

	t.Run("servers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.items.HandleServers(rr, httptest.NewRequest(http.MethodGet, "/api/servers", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Arrakis-01")
	})

	t.Run("catalog with search", func(t *testing.T) {
		app.store.Seed("ItemsCatalog",
			[]string{"name", "imageUrl", "tier", "type"},
			[]string{"Crysknife", "https://img.example/knife.png", "3", "weapon"},
			[]string{"Stillsuit", "https://img.example/suit.png", "2", "armor"},
		)

		rr := httptest.NewRecorder()
		app.items.HandleCatalog(rr, httptest.NewRequest(http.MethodGet, "/api/items-catalog?search=knife", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Crysknife")
		assert.NotContains(t, rr.Body.String(), "Stillsuit")
	})
}

func TestItemHandler_SellerViews(t *testing.T) {
	app := newTestApp(t)
	seller := app.seedUser(t, "stilgar", 0)
	other := app.seedUser(t, "gurney", 0)
	app.seedItem(t, seller, 100, 1)
	app.seedItem(t, other, 200, 1)

	t.Run("my items", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/my-items", nil), seller)
		rr := httptest.NewRecorder()

		app.items.HandleMyItems(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, 1, res.Count)
	})

	t.Run("sales stats", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/sales-stats", nil), seller)
		rr := httptest.NewRecorder()

		app.items.HandleSalesStats(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Stats struct {
				TotalItems  int `json:"totalItems"`
				ActiveItems int `json:"activeItems"`
			} `json:"stats"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, 1, res.Stats.TotalItems)
		assert.Equal(t, 1, res.Stats.ActiveItems)
	})
}
