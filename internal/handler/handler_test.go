package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gamecompare/internal/apperr"
	"gamecompare/internal/client/storefront"
	"gamecompare/internal/config"
	"gamecompare/internal/db"
	"gamecompare/internal/models"
	gormrepository "gamecompare/internal/repository/gorm"
	"gamecompare/internal/service"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newTestEngine(t *testing.T) (*gin.Engine, *gormrepository.Store) {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := gormrepository.New(conn.Gorm)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	comparison := &service.ComparisonService{Store: store}
	(&GameHandler{Catalog: &service.CatalogService{Store: store}, Comparison: comparison}).Register(r)
	(&SearchHandler{Service: &service.SearchService{Store: store}}).Register(r)
	(&LibraryHandler{Service: &service.LibraryService{Store: store}}).Register(r)
	(&SyncHandler{Service: &service.SyncService{Store: store}}).Register(r)
	return r, store
}

func seedGame(t *testing.T, store *gormrepository.Store, name string, prices map[string]string) uint64 {
	t.Helper()
	ctx := context.Background()
	var id uint64
	err := store.InTx(ctx, func(tx *gorm.DB) error {
		game := &models.Game{Name: name}
		if err := store.CreateGameTx(ctx, tx, game); err != nil {
			return err
		}
		id = game.ID
		for p, price := range prices {
			d := decimal.RequireFromString(price)
			offer := &models.GamePlatform{
				GameID:      game.ID,
				Platform:    p,
				PlatformID:  fmt.Sprintf("%s-%d", p, game.ID),
				Price:       &d,
				Currency:    "USD",
				IsAvailable: models.TriTrue,
				DRMFree:     models.TriUnknown,
			}
			if err := store.UpsertGamePlatformTx(ctx, tx, offer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return id
}

func do(t *testing.T, r *gin.Engine, method, target string, body any, header map[string]string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("q", "is required"), http.StatusBadRequest},
		{apperr.NotFound("game", "1"), http.StatusNotFound},
		{fmt.Errorf("search: %w", &storefront.TransportError{Platform: "gog", Attempts: 4, Err: errors.New("timeout")}), http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v)=%d want %d", tc.err, got, tc.want)
		}
	}
}

func TestCompareRoutes(t *testing.T) {
	r, store := newTestEngine(t)
	id := seedGame(t, store, "Elden Ring", map[string]string{"steam": "59.99", "gog": "49.99"})

	code, env := do(t, r, http.MethodGet, fmt.Sprintf("/api/games/%d/where-to-buy", id), nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("where-to-buy before compare: %d %s", code, env.Message)
	}

	code, env = do(t, r, http.MethodGet, "/api/compare?name=Elden%20Ring", nil, nil)
	if code != http.StatusOK || env.Meta["cached"] != false {
		t.Fatalf("compare: %d %+v", code, env)
	}
	var cmp service.ComparisonResult
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if cmp.CheapestOption == nil || cmp.CheapestOption.Platform != "gog" || cmp.Platforms["epic"] != nil {
		t.Fatalf("comparison=%+v", cmp)
	}

	code, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/games/%d/compare", id), nil, nil)
	if code != http.StatusOK || env.Meta["cached"] != true {
		t.Fatalf("second compare: %d %+v", code, env.Meta)
	}

	code, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/games/%d/where-to-buy", id), nil, nil)
	if code != http.StatusOK {
		t.Fatalf("where-to-buy: %d", code)
	}

	code, _ = do(t, r, http.MethodDelete, fmt.Sprintf("/api/games/%d/compare", id), nil, nil)
	if code != http.StatusOK {
		t.Fatalf("invalidate: %d", code)
	}
	code, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/games/%d/where-to-buy", id), nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("where-to-buy after invalidate: %d", code)
	}
	code, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/games/%d/compare", id), nil, nil)
	if code != http.StatusOK || env.Meta["cached"] != false {
		t.Fatalf("compare after invalidate: %d %+v", code, env.Meta)
	}
	code, _ = do(t, r, http.MethodGet, "/api/games/abc", nil, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", code)
	}
	code, _ = do(t, r, http.MethodGet, "/api/compare?name=Nope", nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown name: %d", code)
	}
}

func TestSearchRoutes(t *testing.T) {
	r, store := newTestEngine(t)
	seedGame(t, store, "Hades", map[string]string{"steam": "24.99", "epic": "19.99"})

	code, env := do(t, r, http.MethodGet, "/api/search?q=hades&platforms=steam,epic&max_price=30", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("search: %d %s", code, env.Message)
	}
	var res service.AdvancedSearchResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].PlatformCount != 2 || res.Results[0].LowestPrice.String() != "19.99" {
		t.Fatalf("results=%+v", res.Results)
	}

	for _, target := range []string{
		"/api/search",
		"/api/search?q=hades&sort=cheapest",
		"/api/search?q=hades&limit=500",
		"/api/search?q=hades&max_price=lots",
		"/api/search?q=hades&released_after=yesterday",
		"/api/search/trending?timeframe=year",
		"/api/search/autocomplete?q=",
	} {
		if code, env := do(t, r, http.MethodGet, target, nil, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: %d %s", target, code, env.Message)
		}
	}

	code, env = do(t, r, http.MethodGet, "/api/search/autocomplete?q=had", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("autocomplete: %d", code)
	}
	var ac service.AutoCompleteResult
	if err := json.Unmarshal(env.Data, &ac); err != nil || len(ac.Suggestions) != 2 || ac.Suggestions[0] != "Hades" || ac.Suggestions[1] != "hades" {
		t.Fatalf("autocomplete=%+v err=%v", ac, err)
	}
}

func TestLibraryRoutes(t *testing.T) {
	r, store := newTestEngine(t)
	id := seedGame(t, store, "Celeste", map[string]string{"gog": "19.99"})
	user := map[string]string{userHeader: "u1"}

	if code, _ := do(t, r, http.MethodGet, "/api/library", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("missing user: %d", code)
	}
	code, env := do(t, r, http.MethodPost, "/api/library", map[string]any{"game_id": id, "platform": "GOG"}, user)
	if code != http.StatusOK {
		t.Fatalf("add: %d %s", code, env.Message)
	}
	code, env = do(t, r, http.MethodGet, "/api/library", nil, user)
	var entries []service.LibraryEntryView
	if code != http.StatusOK || json.Unmarshal(env.Data, &entries) != nil || len(entries) != 1 || entries[0].Platform != "gog" {
		t.Fatalf("list: %d %s", code, env.Data)
	}
	if code, _ := do(t, r, http.MethodDelete, fmt.Sprintf("/api/library?game_id=%d&platform=gog", id), nil, user); code != http.StatusOK {
		t.Fatalf("remove: %d", code)
	}

	code, env = do(t, r, http.MethodPost, "/api/tracking", map[string]any{"game_id": id, "target_price": "20.00"}, user)
	if code != http.StatusOK {
		t.Fatalf("track: %d %s", code, env.Message)
	}
	code, env = do(t, r, http.MethodGet, "/api/tracking/alerts", nil, user)
	var alerts []service.PriceAlert
	if code != http.StatusOK || json.Unmarshal(env.Data, &alerts) != nil || len(alerts) != 1 || alerts[0].GameName != "Celeste" {
		t.Fatalf("alerts: %d %s", code, env.Data)
	}
	if code, _ := do(t, r, http.MethodDelete, "/api/tracking?game_id=x", nil, user); code != http.StatusBadRequest {
		t.Fatalf("bad game id: %d", code)
	}
}

func TestSyncLogsRejectsUnknownPlatform(t *testing.T) {
	r, _ := newTestEngine(t)
	if code, _ := do(t, r, http.MethodGet, "/api/sync/logs?platform=origin", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("code=%d", code)
	}
	code, env := do(t, r, http.MethodGet, "/api/sync/status", nil, nil)
	if code != http.StatusOK || len(env.Data) == 0 {
		t.Fatalf("status: %d %s", code, env.Data)
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyz(t *testing.T) {
	conn, err := db.Open(config.DBConfig{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })

	gin.SetMode(gin.TestMode)
	h := &HealthHandler{DB: conn.Gorm}
	r := gin.New()
	h.Register(r)

	probe := func() (int, readiness) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		var body readiness
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return rec.Code, body
	}
	if code, body := probe(); code != http.StatusOK || body.Checks["db"] != "ok" {
		t.Fatalf("ready=%d %+v", code, body)
	}
	h.Deps = map[string]Pinger{"redis": pingFunc(func(context.Context) error { return errors.New("refused") })}
	code, body := probe()
	if code != http.StatusServiceUnavailable || body.Status != "not_ready" {
		t.Fatalf("redis down=%d %+v", code, body)
	}
	if body.Checks["db"] != "ok" || body.Checks["redis"] != "unreachable" {
		t.Fatalf("checks=%v", body.Checks)
	}
}
