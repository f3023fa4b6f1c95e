//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	json "github.com/goccy/go-json"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	server "charter_sync/internal/adapters/http_server"
	"charter_sync/internal/adapters/nausys"
	redisad "charter_sync/internal/adapters/redis"
	"charter_sync/internal/app"
	"charter_sync/internal/domain"
	mysqlrepo "charter_sync/internal/storage/mysql"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=charter"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/charter?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeProvider answers the handful of endpoints the test syncs. Anything else
// is an OK envelope without records.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/catalogue/v6/countries":        `{"status":"OK","countries":[{"id":1,"code":"HR","name":{"textEN":"Croatia"}}]}`,
		"/catalogue/v6/charterCompanies": `{"status":"OK","companies":[{"id":10,"name":"Blue Charter"}]}`,
		"/catalogue/v6/yachtModels":      `{"status":"OK","models":[{"id":5,"name":"Bavaria 46","loa":"14.3","beam":4.35,"cabins":4}]}`,
		"/catalogue/v6/yachts/10": `{"status":"OK","yachts":[
			{"id":100,"name":"Sea Breeze","companyId":10,"yachtModelId":5,"cabins":4,"beam":"4,2"},
			{"id":101,"name":"Maestral","companyId":10,"cabins":"3","length":11.9}
		]}`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["username"] != "agency" {
			_, _ = io.WriteString(w, `{"status":"AUTHENTICATION_ERROR"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if b, ok := bodies[r.URL.Path]; ok {
			_, _ = io.WriteString(w, b)
			return
		}
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// ---------- the test ----------

func TestSyncThenServe(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	store := mysqlrepo.New(db)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	provider := fakeProvider(t)
	up, err := nausys.New(provider.URL, "agency", "secret", 50, 0)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	s := app.NewSyncService(up, store, cache, app.SyncConfig{})
	q := app.NewQueryService(store, up, cache, 0)

	for _, d := range []string{app.DomainCatalogue, app.DomainYachts} {
		r, err := s.SyncDomain(ctx, d)
		if err != nil || r.Err != nil {
			t.Fatalf("sync %s: %v %v", d, err, r.Err)
		}
	}

	srv := server.New(0)
	srv.MountHandlers(&server.Handlers{Q: q, S: s})
	api := httptest.NewServer(srv.Mux())
	defer api.Close()

	// explicit model link back-fills length, keeps upstream beam
	var y domain.Yacht
	getJSON(t, api.URL+"/v1/yachts/100", &y)
	if y.Length == nil || *y.Length != 14.3 || y.Beam == nil || *y.Beam != 4.2 {
		t.Fatalf("yacht 100 = %+v", y)
	}
	if !mr.Exists("charter:yacht:100") {
		t.Fatalf("yacht not cached after read")
	}

	var page domain.YachtsPage
	getJSON(t, api.URL+"/v1/yachts?companyId=10&minCabins=4", &page)
	if page.Total != 1 || page.Items[0].ID != 100 {
		t.Fatalf("page = %+v", page)
	}

	var run app.Report
	getJSON(t, api.URL+"/v1/sync/runs/latest", &run)
	if run.Scope != app.DomainYachts || !run.Completed {
		t.Fatalf("latest run = %+v", run)
	}

	// a second sync leaves the store unchanged in size
	n, _ := store.Count(ctx, domain.Yachts, domain.FindQuery{})
	if _, err := s.SyncDomain(ctx, app.DomainYachts); err != nil {
		t.Fatal(err)
	}
	if m, _ := store.Count(ctx, domain.Yachts, domain.FindQuery{}); m != n || n != 2 {
		t.Fatalf("yachts before=%d after=%d", n, m)
	}
}

func TestSyncRejectedCredentials(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()
	store := mysqlrepo.New(db)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	up, err := nausys.New(fakeProvider(t).URL, "intruder", "x", 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := app.NewSyncService(up, store, nil, app.SyncConfig{}).SyncAll(ctx)
	if err == nil || rep.Completed {
		t.Fatalf("expected aborted run, got %+v", rep)
	}
	if !strings.Contains(err.Error(), "AUTHENTICATION_ERROR") {
		t.Fatalf("err = %v", err)
	}
}

func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("GET %s: status %d: %s", url, res.StatusCode, b)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
