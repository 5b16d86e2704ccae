package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"
	"gudang-backend/internal/testkit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryApp(actor scope.Actor) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	api := app.Group("/api", testkit.AsActor(actor))
	api.Get("/products", ListProductsHandler())
	api.Post("/products", CreateProductHandler())
	api.Get("/products/groups/:name", GetProductGroupHandler())
	api.Put("/products/groups/:name", ReplaceProductGroupHandler())
	api.Delete("/products/groups/:name", DeleteProductGroupHandler())
	api.Put("/products/:id", UpdateProductHandler())
	api.Delete("/products/:id", DeleteProductHandler())
	api.Post("/stock-in", CreateStockInHandler())
	api.Get("/stock-in", ListStockInHandler())
	api.Post("/stock-out", CreateStockOutHandler())
	api.Get("/stock-out", ListStockOutHandler())
	api.Get("/stock/history", StockHistoryHandler())
	api.Get("/outbound-categories", ListOutboundCategoriesHandler())
	api.Post("/admin/outbound-categories", CreateOutboundCategoryHandler())
	api.Delete("/admin/outbound-categories/:id", DeleteOutboundCategoryHandler())
	api.Get("/inbound-categories", ListInboundCategoriesHandler())
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProductEndpoints(t *testing.T) {
	db := testkit.Open(t)
	testkit.Use(t, db)
	alice := testkit.Profile(t, db, "alice@saj.id", models.RoleUser)
	admin := testkit.Profile(t, db, "admin@saj.id", models.RoleSuperAdmin)
	app := newInventoryApp(alice)

	resp := do(t, app, "POST", "/api/products", `{"name":"Kayu Jati","variants":["A","B"]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[[]ProductResponse](t, resp)
	require.Len(t, created, 2)
	assert.Empty(t, created[0].OwnerEmail)

	resp = do(t, app, "POST", "/api/products", `{"name":"","variants":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	groupURL := "/api/products/groups/" + url.PathEscape("Kayu Jati")
	resp = do(t, app, "GET", groupURL, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	g := decode[ProductGroupResponse](t, resp)
	assert.Equal(t, "Kayu Jati", g.Name)
	assert.Len(t, g.Variants, 2)

	// owner email is only shown to superadmin
	resp = do(t, newInventoryApp(admin), "GET", "/api/products?grouped=true", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	groups := decode[[]ProductGroupResponse](t, resp)
	require.Len(t, groups, 1)
	assert.Equal(t, "alice@saj.id", groups[0].OwnerEmail)

	resp = do(t, app, "GET", "/api/products", "")
	rows := decode[[]ProductResponse](t, resp)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].OwnerEmail)

	resp = do(t, app, "PUT", groupURL, `{"name":"Kayu Jati","variants":["A"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[ProductGroupResponse](t, resp).Rows, 1)

	resp = do(t, app, "DELETE", groupURL, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode[map[string]int](t, resp)["deleted"])

	resp = do(t, app, "GET", groupURL, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGroupedListingLeavesSharedGroupsUnattributed(t *testing.T) {
	f := newStockFixture(t)
	testkit.Use(t, f.db)
	_, err := CreateProductGroup(context.Background(), f.db, f.bob, "Kayu", []string{"C"})
	require.NoError(t, err)
	_, err = CreateProductGroup(context.Background(), f.db, f.bob, "Besi", nil)
	require.NoError(t, err)

	resp := do(t, newInventoryApp(f.admin), "GET", "/api/products?grouped=true", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	groups := decode[[]ProductGroupResponse](t, resp)
	byName := make(map[string]ProductGroupResponse, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
	}

	kayu := byName["Kayu"]
	require.Len(t, kayu.Rows, 3)
	assert.Empty(t, kayu.OwnerEmail)
	for _, r := range kayu.Rows {
		assert.NotEmpty(t, r.OwnerEmail)
	}
	assert.Equal(t, "bob@saj.id", byName["Besi"].OwnerEmail)
}

func TestStockEndpoints(t *testing.T) {
	f := newStockFixture(t)
	testkit.Use(t, f.db)
	app := newInventoryApp(f.alice)

	resp := do(t, app, "POST", "/api/stock-in", `{"product_id":"`+f.kayuA.ID+`","quantity":0,"source_id":"`+f.supplier.ID+`"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, "POST", "/api/stock-in", `{"product_id":"`+f.kayuA.ID+`","quantity":12,"source_id":"`+f.supplier.ID+`","date":"2024-03-01"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, app, "POST", "/api/stock-out", `{"product_id":"`+f.kayuA.ID+`","quantity":5,"destination_id":"`+f.cabang.ID+`","outbound_category_id":"`+f.jual.ID+`","date":"2024-03-02"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, app, "GET", "/api/stock-in?start_date=2024-03-01&end_date=2024-03-01", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	ins := decode[[]StockInResponse](t, resp)
	require.Len(t, ins, 1)
	assert.Equal(t, "Kayu", ins[0].ProductName)
	assert.Equal(t, models.SupplierBranchName, ins[0].SourceName)
	assert.Equal(t, "-", ins[0].InboundCategoryName)

	resp = do(t, app, "GET", "/api/stock-in?start_date=kemarin", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, "GET", "/api/stock-out", "")
	outs := decode[[]StockOutResponse](t, resp)
	require.Len(t, outs, 1)
	assert.Equal(t, "Penjualan", outs[0].OutboundCategoryName)

	resp = do(t, app, "GET", "/api/stock/history?name=Kayu", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	history := decode[[]map[string]any](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, "out", history[0]["type"])
	assert.Equal(t, f.alice.ID, history[0]["owner_id"])
	assert.NotContains(t, history[0], "owner_email")

	resp = do(t, app, "GET", "/api/stock/history", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, newInventoryApp(f.admin), "GET", "/api/stock/history?product_id="+f.kayuA.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	history = decode[[]map[string]any](t, resp)
	require.Len(t, history, 2)
	for _, m := range history {
		assert.Equal(t, "alice@saj.id", m["owner_email"])
	}
}

func TestOutboundCategoryEndpoints(t *testing.T) {
	f := newStockFixture(t)
	testkit.Use(t, f.db)
	app := newInventoryApp(f.admin)

	resp := do(t, app, "POST", "/api/admin/outbound-categories", `{"name":"Rusak","description":"  "}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[OutboundCategoryResponse](t, resp)
	assert.Nil(t, created.Description)

	resp = do(t, app, "POST", "/api/admin/outbound-categories", `{"name":"Rusak"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	f.out(t, f.alice, f.kayuA, 1, day(1))
	resp = do(t, app, "DELETE", "/api/admin/outbound-categories/"+f.jual.ID, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, "DELETE", "/api/admin/outbound-categories/"+created.ID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, "GET", "/api/inbound-categories", "")
	assert.Len(t, decode[[]models.InboundCategory](t, resp), 3)
}
