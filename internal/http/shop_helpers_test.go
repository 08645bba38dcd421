package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"autoshop/internal/config"
	"autoshop/internal/domain"
	"autoshop/internal/http/handlers"
	"autoshop/internal/i18n"
	"autoshop/internal/index"
	"autoshop/internal/repos"
	"autoshop/internal/tracking"
	"autoshop/web"
)

// recorder captures tracking events in memory.
type recorder struct {
	mu            sync.Mutex
	views         []int64
	impressions   map[string][]int64
	categoryViews []string
}

func newRecorder() *recorder { return &recorder{impressions: map[string][]int64{}} }

func (r *recorder) TrackProductView(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, p.ProductID())
	return nil
}

func (r *recorder) TrackProductImpression(_ context.Context, p domain.Product, list string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.impressions[list] = append(r.impressions[list], p.ProductID())
	return nil
}

func (r *recorder) TrackCategoryPageView(_ context.Context, category string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryViews = append(r.categoryViews, category)
	return nil
}

func (r *recorder) impressionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ids := range r.impressions {
		n += len(ids)
	}
	return n
}

type shopApp struct {
	app *fiber.App
	rec *recorder
	db  *sqlx.DB
}

// newShopApp builds the storefront over a seeded in-memory database and a relational index.
// seed runs before the index is built.
func newShopApp(t *testing.T, cfg config.Config, seed func(db *sqlx.DB)) *shopApp {
	t.Helper()
	ctx := context.Background()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if seed != nil {
		seed(db)
	}

	idx := index.NewRelational(db, repos.NewProductRepo(db), "default")
	rec := newRecorder()
	tr, err := i18n.Load(web.Files, "translations", "en")
	require.NoError(t, err)

	deps, err := handlers.NewDeps(ctx, db, cfg, idx, tracking.NewManager(rec), tr)
	require.NoError(t, err)
	_, err = deps.Catalog.Reindex(ctx, idx)
	require.NoError(t, err)

	engine, err := handlers.NewEngine(web.Files, tr, false)
	require.NoError(t, err)
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Routes(app, deps, tr)
	return &shopApp{app: app, rec: rec, db: db}
}

func (s *shopApp) get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
