package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/importer"
	"github.com/homedash/homedash/src/internal/metrics"
	"github.com/homedash/homedash/src/internal/resolver"
)

const vhosts = `<VirtualHost *:80>
    ServerName a.local
    ProxyPass / http://localhost:3000/
</VirtualHost>

<VirtualHost *:80>
    ServerName b.local
    ProxyPass / http://localhost:4000/
</VirtualHost>`

type fakeResolver struct {
	hosts []string
	err   error
}

func (f *fakeResolver) Lookup(_ context.Context, host string) (resolver.Result, error) {
	f.hosts = append(f.hosts, host)
	if f.err != nil {
		return resolver.Result{}, f.err
	}
	return resolver.Result{Host: host, Server: "127.0.0.1:53", Resolved: true, Addresses: []string{"10.0.0.2"}, Rcode: "NOERROR"}, nil
}

type brokenPersister struct{}

func (brokenPersister) Load() (catalog.Snapshot, error) { return catalog.Snapshot{}, nil }

func (brokenPersister) Update(fn func(catalog.Snapshot) (catalog.Snapshot, error)) error {
	if _, err := fn(catalog.Snapshot{}); err != nil {
		return err
	}
	return errors.New("disk full")
}

type testEnv struct {
	store    *catalog.Store
	metrics  *metrics.Collector
	resolver *fakeResolver
	handler  http.Handler
}

func newTestEnv(t *testing.T, mutate ...func(*RouterOptions)) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    catalog.NewMemoryStore("Test Dashboard"),
		metrics:  metrics.NewCollector(),
		resolver: &fakeResolver{},
	}
	opts := RouterOptions{
		Store:          env.store,
		Importer:       importer.New(env.store, importer.WithRecorder(env.metrics)),
		Resolver:       env.resolver,
		Metrics:        env.metrics,
		MaxUploadBytes: 1 << 20,
	}
	for _, m := range mutate {
		m(&opts)
	}
	env.store = opts.Store
	env.handler = NewRouter(opts)
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) ErrorCode {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error.Code
}

func link(title, url string) catalog.Entry {
	return catalog.Entry{Title: title, URL: url, Kind: catalog.KindLink, Enabled: true}
}

func (env *testEnv) seed(t *testing.T, entries ...catalog.Entry) []catalog.Entry {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/links/batch", entries)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[[]catalog.Entry](t, rec)
}

func TestGetData(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, link("Wiki", "https://wiki.example.com"))

	rec := env.do(t, http.MethodGet, "/api/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[catalog.Snapshot](t, rec)
	assert.Equal(t, "Test Dashboard", snap.AppName)
	require.Len(t, snap.Links, 1)
	assert.Equal(t, "Wiki", snap.Links[0].Title)
	assert.NotEmpty(t, snap.Links[0].ID)
}

func TestGetData_EmptyCatalogHasLinksArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"links":[]`)
}

func TestGetLinks_Search(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, link("Wiki", "https://wiki.example.com"), link("Grafana", "https://grafana.example.com"))

	rec := env.do(t, http.MethodGet, "/api/links?q=graf", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	links := decode[[]catalog.Entry](t, rec)
	require.Len(t, links, 1)
	assert.Equal(t, "Grafana", links[0].Title)

	rec = env.do(t, http.MethodGet, "/api/links", nil)
	assert.Len(t, decode[[]catalog.Entry](t, rec), 2)
}

func TestCreateLinks(t *testing.T) {
	env := newTestEnv(t)

	added := env.seed(t, link("Wiki", "https://wiki.example.com"), link("Wiki again", "https://wiki.example.com"))
	require.Len(t, added, 1)
	assert.Equal(t, "Wiki", added[0].Title)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   ErrorCode
	}{
		{"object instead of array", map[string]string{"title": "x"}, http.StatusBadRequest, ErrCodeInvalidRequest},
		{"empty array", []catalog.Entry{}, http.StatusBadRequest, ErrCodeInvalidRequest},
		{"all duplicates", []catalog.Entry{link("Wiki", "https://wiki.example.com")}, http.StatusConflict, ErrCodeDuplicateURL},
		{"invalid entry", []catalog.Entry{{URL: "https://x.example.com", Kind: catalog.KindLink}}, http.StatusBadRequest, ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/links/batch", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
	assert.Equal(t, 1, env.store.Len())
}

func TestUpdateLink(t *testing.T) {
	env := newTestEnv(t)
	added := env.seed(t, link("Wiki", "https://wiki.example.com"), link("Git", "https://git.example.com"))
	wiki := added[0]

	wiki.Title = "Team Wiki"
	rec := env.do(t, http.MethodPut, "/api/links/"+wiki.ID, wiki)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Team Wiki", decode[catalog.Entry](t, rec).Title)

	rec = env.do(t, http.MethodPut, "/api/links/missing", wiki)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, errorCode(t, rec))

	wiki.URL = "https://git.example.com"
	rec = env.do(t, http.MethodPut, "/api/links/"+wiki.ID, wiki)
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := env.store.Get(wiki.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.com", got.URL)
}

func TestDeleteLink(t *testing.T) {
	env := newTestEnv(t)
	added := env.seed(t, link("Wiki", "https://wiki.example.com"))

	rec := env.do(t, http.MethodDelete, "/api/links/"+added[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/links/"+added[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleLink(t *testing.T) {
	env := newTestEnv(t)
	added := env.seed(t, link("Wiki", "https://wiki.example.com"))

	rec := env.do(t, http.MethodPost, "/api/links/"+added[0].ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[catalog.Entry](t, rec).Enabled)

	stats := env.store.Stats()
	assert.Equal(t, 1, stats.Offline)
}

func TestResolveLink(t *testing.T) {
	env := newTestEnv(t)
	added := env.seed(t, link("Wiki", "https://wiki.example.com:8443/path"))

	rec := env.do(t, http.MethodGet, "/api/links/"+added[0].ID+"/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[resolver.Result](t, rec)
	assert.True(t, res.Resolved)
	assert.Equal(t, []string{"wiki.example.com"}, env.resolver.hosts)

	env.resolver.err = errors.New("timeout")
	rec = env.do(t, http.MethodGet, "/api/links/"+added[0].ID+"/resolve", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/links/missing/resolve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveLink_Disabled(t *testing.T) {
	env := newTestEnv(t, func(o *RouterOptions) { o.Resolver = nil })
	added := env.seed(t, link("Wiki", "https://wiki.example.com"))

	rec := env.do(t, http.MethodGet, "/api/links/"+added[0].ID+"/resolve", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpdateAppName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/settings/appName", AppNameRequest{AppName: "Home Lab"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Home Lab", env.store.AppName())

	rec = env.do(t, http.MethodPut, "/api/settings/appName", AppNameRequest{AppName: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Home Lab", env.store.AppName())
}

func TestImport_JSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/import", ImportRequest{Text: vhosts})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[importer.Report](t, rec)
	assert.Equal(t, importer.OutcomeSuccess, report.Outcome)
	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Added, 2)
	assert.Equal(t, 2, env.store.Len())

	rec = env.do(t, http.MethodPost, "/api/import", ImportRequest{Text: vhosts})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, importer.OutcomeAllDuplicate, decode[importer.Report](t, rec).Outcome)

	rec = env.do(t, http.MethodPost, "/api/import", ImportRequest{Text: "nothing here"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, importer.OutcomeNoBlocksFound, decode[importer.Report](t, rec).Outcome)
}

func multipartBody(t *testing.T, text string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if text != "" {
		require.NoError(t, mw.WriteField("text", text))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestImport_Multipart(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, `<VirtualHost *:80>
    ServerName pasted.local
    ProxyPass / http://localhost:5000/
</VirtualHost>`, map[string]string{"sites.conf": vhosts})

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[importer.Report](t, rec)
	assert.Equal(t, 3, report.BlocksFound)
	assert.Equal(t, 3, report.Accepted)
	assert.Empty(t, report.FileErrors)
}

func TestImport_TooLarge(t *testing.T) {
	env := newTestEnv(t, func(o *RouterOptions) { o.MaxUploadBytes = 64 })

	rec := env.do(t, http.MethodPost, "/api/import", ImportRequest{Text: vhosts})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestImport_PersistenceFailure(t *testing.T) {
	store, err := catalog.NewStore(brokenPersister{}, "Broken")
	require.NoError(t, err)
	env := newTestEnv(t, func(o *RouterOptions) {
		o.Store = store
		o.Importer = importer.New(store)
	})

	rec := env.do(t, http.MethodPost, "/api/import", ImportRequest{Text: vhosts})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrCodePersistence, errorCode(t, rec))
	assert.Equal(t, 0, store.Len())
}

func TestRenderProxy(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/proxy/render", map[string]interface{}{
		"preset":     "react",
		"serverName": "app.local",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[RenderResponse](t, rec).Config
	assert.Contains(t, out, "ServerName app.local")
	assert.Contains(t, out, "ProxyPass / http://localhost:3000/")
	assert.Contains(t, out, "RewriteEngine On")
	assert.Equal(t, 0, env.store.Len())

	rec = env.do(t, http.MethodPost, "/api/proxy/render", map[string]interface{}{"target": "localhost:3000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProxy(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{
		"serverName": "grafana.lan",
		"target":     "http://10.0.0.5:3000",
		"enableSsl":  true,
	}

	rec := env.do(t, http.MethodPost, "/api/proxy", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[ProxyServiceResponse](t, rec)
	assert.Equal(t, "https://grafana.lan", resp.Entry.URL)
	assert.Equal(t, catalog.KindService, resp.Entry.Kind)
	assert.NotEmpty(t, resp.Entry.ID)
	assert.Contains(t, resp.Config, "<VirtualHost *:443>")

	rec = env.do(t, http.MethodPost, "/api/proxy", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/proxy", map[string]interface{}{"target": "http://10.0.0.5:3000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, env.store.Len())
}

func TestStatusAndHealth(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, link("Wiki", "https://wiki.example.com"))

	rec := env.do(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[StatusResponse](t, rec)
	assert.Equal(t, Version, status.Version.Version)
	assert.Equal(t, 1, status.Stats.ActiveLinks)
	assert.Equal(t, 1, status.Stats.Total)

	rec = env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthCheckResponse](t, rec)
	assert.True(t, health.Healthy)
	assert.True(t, health.Checks["catalog"].Passed)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	added := env.seed(t, link("Wiki", "https://wiki.example.com"))
	env.do(t, http.MethodPost, "/api/links/"+added[0].ID+"/toggle", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `homedash_http_requests_total{method="POST",route="/api/links/{id}/toggle",status="200"} 1`)
	assert.Contains(t, body, `homedash_catalog_entries{enabled="false",kind="link"} 1`)
	assert.False(t, strings.Contains(body, added[0].ID), "entry ids must not become label values")
}

func TestMetricsDisabled(t *testing.T) {
	env := newTestEnv(t, func(o *RouterOptions) { o.Metrics = nil })

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
