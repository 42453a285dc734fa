package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "satis_session", "test-secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := testManager(t)
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	sess.SetUser("42")
	sess.Set("theme", "dark")

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, r, sess))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	cookie := cookies[0]
	require.Equal(t, "satis_session", cookie.Name)
	require.True(t, cookie.HttpOnly)

	// Replay the cookie and get the same session back.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookie)
	loaded, err := sm.Load(ctx, r2)
	require.NoError(t, err)
	require.Equal(t, "42", loaded.User())
	require.Equal(t, "dark", loaded.Get("theme"))
}

func TestSessionDestroy(t *testing.T) {
	sm := testManager(t)
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	sess.SetUser("42")

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, r, sess))
	cookie := w.Result().Cookies()[0]

	sm.Destroy(sess)
	w2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w2, r, sess))

	// The logout cookie expires immediately.
	logout := w2.Result().Cookies()[0]
	require.Equal(t, -1, logout.MaxAge)

	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.AddCookie(cookie)
	fresh, err := sm.Load(ctx, r3)
	require.NoError(t, err)
	require.Empty(t, fresh.User(), "destroyed session must not resurrect")
}

func TestSessionFlashIsOneShot(t *testing.T) {
	sm := testManager(t)

	sess := sm.newSession()
	sess.AddFlash(FlashMessage{Kind: "success", Message: "kayıt oluşturuldu"})

	msg := sess.PopFlash()
	require.NotNil(t, msg)
	require.Equal(t, "success", msg.Kind)
	require.Nil(t, sess.PopFlash())
}
