package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zeroends/skinhub/internal/app"
	"github.com/zeroends/skinhub/internal/config"
	"github.com/zeroends/skinhub/internal/mineskin"
	"github.com/zeroends/skinhub/internal/storage"
)

type countingGenerator struct {
	calls atomic.Int64
}

func (g *countingGenerator) Generate(ctx context.Context, name, fileName string, data []byte) (*mineskin.Skin, error) {
	n := g.calls.Add(1)
	return &mineskin.Skin{
		Name:      name,
		Texture:   fmt.Sprintf("texture-%d", n),
		Signature: fmt.Sprintf("signature-%d", n),
	}, nil
}

const adminKey = "test-admin-key"

func newTestServer(t *testing.T, gen *countingGenerator) *httptest.Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.AdminAPIKey = adminKey
	cfg.Storage.DataFile = filepath.Join(t.TempDir(), "skins.json")

	fileStore := storage.NewFileStore(cfg.Storage.DataFile)
	seed, err := fileStore.Load()
	require.NoError(t, err)

	a, err := app.New(cfg, app.Deps{
		FileStore: fileStore,
		Seed:      seed,
		Generator: gen,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, client *http.Client, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func skinPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	img.Set(3, 7, color.RGBA{R: 120, G: 80, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadSkin(t *testing.T, client *http.Client, url string, fileName string, file []byte) (*http.Response, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="skinFile"; filename=%q`, fileName))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func issuePin(t *testing.T, srvURL string, id uuid.UUID, handle string) string {
	t.Helper()
	resp, body := postJSON(t, http.DefaultClient, srvURL+"/api/internal/pin", map[string]string{
		"identity": id.String(),
		"handle":   handle,
	}, map[string]string{"X-Admin-API-Key": adminKey})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pin, _ := body["pin"].(string)
	require.Len(t, pin, 6)
	return pin
}

func login(t *testing.T, client *http.Client, srvURL, handle, code string) (*http.Response, map[string]any) {
	t.Helper()
	return postJSON(t, client, srvURL+"/api/login", map[string]string{
		"handle": handle,
		"code":   code,
	}, nil)
}

func TestFullDashboardFlow(t *testing.T) {
	gen := &countingGenerator{}
	srv := newTestServer(t, gen)
	browser := newBrowser(t)

	playerID := uuid.New()
	pin := issuePin(t, srv.URL, playerID, "Alice")

	// Login sets the session cookie.
	resp, body := login(t, browser, srv.URL, "Alice", pin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	var sawCookie bool
	for _, ck := range resp.Cookies() {
		if ck.Name == "skinhub_session" && ck.Value != "" {
			sawCookie = true
			require.True(t, ck.HttpOnly)
		}
	}
	require.True(t, sawCookie, "login must set skinhub_session")

	// Empty dashboard.
	resp, body = getJSON(t, browser, srv.URL+"/api/dashboard/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Alice", body["handle"])
	require.Empty(t, body["assets"])
	require.Equal(t, float64(5), body["maxAssets"])

	// Upload a skin.
	resp, body = uploadSkin(t, browser, srv.URL+"/api/dashboard/upload", "cool_skin.png", skinPNG(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	newAsset, ok := body["newAsset"].(map[string]any)
	require.True(t, ok, "accepted upload returns the new asset")
	require.Equal(t, "cool_skin", newAsset["name"])
	require.EqualValues(t, 1, gen.calls.Load())

	assetID := int64(newAsset["id"].(float64))
	require.NotZero(t, assetID)

	// Cooldown blocks the immediate retry without touching the upstream.
	resp, body = uploadSkin(t, browser, srv.URL+"/api/dashboard/upload", "again.png", skinPNG(t))
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, false, body["success"])
	require.EqualValues(t, 1, gen.calls.Load())

	// Apply, then delete.
	resp, body = postJSON(t, browser, srv.URL+"/api/dashboard/apply", map[string]int64{"assetId": assetID}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	resp, body = getJSON(t, browser, srv.URL+"/api/dashboard/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(assetID), body["activeSkinId"])

	resp, body = postJSON(t, browser, srv.URL+"/api/dashboard/delete", map[string]int64{"assetId": assetID}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	resp, body = getJSON(t, browser, srv.URL+"/api/dashboard/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["assets"])
	require.Nil(t, body["activeSkinId"])
}

func TestLoginRejectsBadPin(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})
	browser := newBrowser(t)

	playerID := uuid.New()
	pin := issuePin(t, srv.URL, playerID, "Bob")

	resp, body := login(t, browser, srv.URL, "Bob", "000000")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, false, body["success"])

	// A PIN is single-use: the failed attempt must not consume it.
	resp, _ = login(t, browser, srv.URL, "Bob", pin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPinIsConsumedOnLogin(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})

	playerID := uuid.New()
	pin := issuePin(t, srv.URL, playerID, "Carol")

	first := newBrowser(t)
	resp, _ := login(t, first, srv.URL, "Carol", pin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	second := newBrowser(t)
	resp, _ = login(t, second, srv.URL, "Carol", pin)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardRequiresSession(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})

	resp, err := http.Get(srv.URL + "/api/dashboard/data")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})
	browser := newBrowser(t)

	playerID := uuid.New()
	pin := issuePin(t, srv.URL, playerID, "Dave")
	resp, _ := login(t, browser, srv.URL, "Dave", pin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/logout", nil)
	require.NoError(t, err)
	logoutResp, err := browser.Do(req)
	require.NoError(t, err)
	var logoutBody map[string]any
	require.NoError(t, json.NewDecoder(logoutResp.Body).Decode(&logoutBody))
	logoutResp.Body.Close()
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)
	require.Equal(t, true, logoutBody["success"])

	dataResp, err := browser.Get(srv.URL + "/api/dashboard/data")
	require.NoError(t, err)
	defer dataResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, dataResp.StatusCode)
}

func TestInternalAPIRejectsWrongKey(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})

	resp, body := postJSON(t, http.DefaultClient, srv.URL+"/api/internal/pin", map[string]string{
		"identity": uuid.NewString(),
		"handle":   "Eve",
	}, map[string]string{"X-Admin-API-Key": "wrong"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, false, body["success"])
}

func TestHostRevokesSession(t *testing.T) {
	srv := newTestServer(t, &countingGenerator{})
	browser := newBrowser(t)

	playerID := uuid.New()
	pin := issuePin(t, srv.URL, playerID, "Frank")
	resp, _ := login(t, browser, srv.URL, "Frank", pin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	revokeResp, body := postJSON(t, http.DefaultClient, srv.URL+"/api/internal/logout", map[string]string{
		"identity": playerID.String(),
	}, map[string]string{"X-Admin-API-Key": adminKey})
	require.Equal(t, http.StatusOK, revokeResp.StatusCode)
	require.Equal(t, true, body["revoked"])

	dataResp, err := browser.Get(srv.URL + "/api/dashboard/data")
	require.NoError(t, err)
	defer dataResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, dataResp.StatusCode)
}
