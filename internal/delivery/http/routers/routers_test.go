package routers

import (
	"bytes"
	"encoding/json"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artfolio/internal/auth"
	"artfolio/internal/infrastructure/processor"
	memrepo "artfolio/internal/infrastructure/repositories"
	"artfolio/internal/infrastructure/storage"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/net/html"
)

const (
	adminEmail    = "artist@example.com"
	adminPassword = "s3cret"
)

type testServer struct {
	app   *fiber.App
	store *storage.MemoryStorage
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Upload.MaxFileSize = 5 << 20

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	log := zap.NewNop()
	provider := auth.NewProvider(adminEmail, string(hash), time.Hour, auth.NewMemorySessionStore(), log)

	repo := memrepo.NewInMemoryRepository()
	store := storage.NewMemoryStorage("/media")
	deps := usecases.Deps{
		Portfolios: repo,
		Works:      repo,
		Storage:    store,
		Compressor: processor.NewImageCompressor(),
		Log:        log,
	}

	app := fiber.New(fiber.Config{UnescapePath: true})
	SetupAuthRoutes(app, provider, false, log)
	SetupAdminRoutes(app, cfg, provider, deps)
	SetupGalleryRoutes(app, usecases.NewGalleryService(repo, repo), log)
	SetupMediaRoutes(app, cfg, store)
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	s.token = out.Token
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(64, 48, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, target string, values [][2]string, file *formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, kv := range values {
		require.NoError(t, w.WriteField(kv[0], kv[1]))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// imageSources lists the src attribute of every <img> in an HTML page.
func imageSources(t *testing.T, page []byte) []string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	var srcs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" {
					srcs = append(srcs, a.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return srcs
}

// links lists the href of every <a> in an HTML page that starts with prefix.
func links(t *testing.T, page []byte, prefix string) []string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" && strings.HasPrefix(a.Val, prefix) {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return hrefs
}

func (s *testServer) createStudioWorks(t *testing.T) {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios",
		[][2]string{{"title", "Studio Works"}, {"parameters", "Technique"}},
		&formFile{field: "cover", name: "cover.png", data: pngImage(t)})
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func (s *testServer) addWork(t *testing.T, title, technique string) map[string]any {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios/studio-works/works",
		[][2]string{{"title", title}, {"technique", technique}},
		&formFile{field: "image", name: "work.png", data: pngImage(t)})
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode(t, body)
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/portfolios", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", decode(t, body)["error"])

	s.token = "forged"
	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/portfolios/x", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRoutes_LoginMeLogout(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"artist@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.login(t)
	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, adminEmail, decode(t, body)["email"])

	resp, _ = s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutes_PortfolioAndWorkLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.createStudioWorks(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/portfolios", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode(t, body)["count"])

	added := s.addWork(t, "Sunset", "oil")
	assert.Equal(t, "Sunset", added["id"])
	assert.Equal(t, map[string]any{"title": "Sunset", "technique": "oil"}, added["fields"])

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/portfolios/studio-works/works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode(t, body)
	assert.Equal(t, []any{"title", "technique"}, list["parameters"])
	assert.EqualValues(t, 1, list["count"])

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/portfolios/studio-works/works/Sunset",
		strings.NewReader(`{"fields":{"technique":"acrylic","price":"100"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = s.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	edited := decode(t, body)
	assert.Equal(t, map[string]any{"title": "Sunset", "technique": "acrylic"}, edited["fields"])
	assert.Equal(t, added["image_url"], edited["image_url"])

	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/portfolios/studio-works/works/Sunset", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s.addWork(t, "Dawn", "ink")
	resp, body = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/portfolios/studio-works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "deleted", decode(t, body)["status"])
	assert.Zero(t, s.store.Len())
}

func TestAdminRoutes_StateSurvivesInterleavedRequests(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.createStudioWorks(t)
	s.addWork(t, "Study #1", "charcoal")

	unrelated := func() {
		for _, path := range []string{
			"/portfolio/studio-works",
			"/portfolio/studio-works/works/Study%20%231",
			"/api/v1/portfolios",
			"/portfolio/a-much-longer-portfolio-id/works/another-work-id",
			"/about",
		} {
			s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		}
	}

	unrelated()
	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/portfolios/studio-works/works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.EqualValues(t, 1, decode(t, body)["count"])

	unrelated()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/portfolios/studio-works/works/Study%20%231",
		strings.NewReader(`{"fields":{"technique":"graphite"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = s.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Study #1", decode(t, body)["id"])

	unrelated()
	resp, body = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/portfolios/studio-works/works/Study%20%231", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	s.addWork(t, "Dawn", "ink")
	unrelated()
	resp, body = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/portfolios/studio-works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "studio-works", decode(t, body)["id"])
	assert.Zero(t, s.store.Len())

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/portfolios", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, decode(t, body)["count"])
}

func TestAdminRoutes_CreateWorkValidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.createStudioWorks(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios/studio-works/works",
		[][2]string{{"title", "Sunset"}}, nil)
	resp, body := s.do(t, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := decode(t, body)["fields"].(map[string]any)
	assert.Equal(t, "Technique is required", fields["technique"])
	assert.Contains(t, fields, "image")

	s.addWork(t, "Sunset", "oil")
	req = multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios/studio-works/works",
		[][2]string{{"title", "Sunset"}, {"technique", "oil"}},
		&formFile{field: "image", name: "again.png", data: pngImage(t)})
	resp, _ = s.do(t, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminRoutes_ShortPortfolioTitle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios",
		[][2]string{{"title", "ab"}},
		&formFile{field: "cover", name: "cover.png", data: pngImage(t)})
	resp, body := s.do(t, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, body)["fields"], "title")
	assert.Zero(t, s.store.Len())
}

func TestGalleryRoutes_PagesAndMedia(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.createStudioWorks(t)
	added := s.addWork(t, "Blue Hour", "oil")
	s.token = ""

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/portfolios/studio-works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	works := decode(t, body)["works"].([]any)
	require.Len(t, works, 1)
	card := works[0].(map[string]any)
	assert.Equal(t, "Blue Hour", card["title"])
	assert.Equal(t, []any{map[string]any{"name": "technique", "label": "Technique", "value": "oil"}}, card["fields"])

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Len(t, imageSources(t, body), 1)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/portfolio/studio-works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{added["thumbnail_url"].(string)}, imageSources(t, body))

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/portfolio/studio-works/works/Blue%20Hour", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{added["image_url"].(string)}, imageSources(t, body))

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, added["thumbnail_url"].(string), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	_, err := imaging.Decode(bytes.NewReader(body))
	assert.NoError(t, err)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/portfolio/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGalleryRoutes_CardLinksEscapeWorkIds(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.createStudioWorks(t)
	images := map[string]string{}
	for _, title := range []string{"Study #1", "What?"} {
		images[title] = s.addWork(t, title, "ink")["image_url"].(string)
	}

	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/portfolios/studio-works/works",
		[][2]string{{"title", "Dawn/Dusk"}, {"technique", "ink"}},
		&formFile{field: "image", name: "dawn.png", data: pngImage(t)})
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	assert.Equal(t, `Title cannot contain "/"`, decode(t, body)["fields"].(map[string]any)["title"])
	s.token = ""

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/portfolio/studio-works", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hrefs := links(t, body, "/portfolio/studio-works/works/")
	assert.Equal(t, []string{
		"/portfolio/studio-works/works/Study%20%231",
		"/portfolio/studio-works/works/What%3F",
	}, hrefs)

	for i, title := range []string{"Study #1", "What?"} {
		resp, body = s.do(t, httptest.NewRequest(http.MethodGet, hrefs[i], nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, hrefs[i])
		assert.Equal(t, []string{images[title]}, imageSources(t, body))
	}
}

func TestGalleryRoutes_Placeholders(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/about", "/documents", "/skills", "/socials", "/contact"} {
		resp, body := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), "Coming soon", path)
	}
}
