package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.JWTClaims
}

func (f fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.ErrUnauthorized
	}
	return f.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/items/:id", handlers...)
	return r
}

func serve(r *gin.Engine, auth string) int {
	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWT(t *testing.T) {
	r := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Login: "ana", Role: models.RoleProfessor}}))

	assert.Equal(t, http.StatusUnauthorized, serve(r, ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Token good"))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer bad"))
	assert.Equal(t, http.StatusNoContent, serve(r, "bearer good"))
}

func TestRequireManager(t *testing.T) {
	cases := map[models.UserRole]int{
		models.RoleProfessor:    http.StatusForbidden,
		models.RoleEstagiario:   http.StatusForbidden,
		models.RoleGestor:       http.StatusNoContent,
		models.RoleGestorMaster: http.StatusNoContent,
		models.RoleStart:        http.StatusNoContent,
	}
	for role, want := range cases {
		r := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Login: "x", Role: role}}), RequireManager())
		assert.Equal(t, want, serve(r, "Bearer good"), string(role))
	}

	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(RequireManager()), ""))
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Role: models.RoleRegente}}), RequireRoles(models.RoleRegente))
	assert.Equal(t, http.StatusNoContent, serve(r, "Bearer good"))

	r = newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Role: "regente"}}), RequireRoles(models.RoleRegente))
	assert.Equal(t, http.StatusNoContent, serve(r, "Bearer good"))

	r = newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Role: models.RoleProfessor}}), RequireRoles(models.RoleRegente))
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer good"))
}

func TestRequireManagerAcceptsLowercaseSheetRole(t *testing.T) {
	r := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{Role: "gestor"}}), RequireManager())
	assert.Equal(t, http.StatusNoContent, serve(r, "Bearer good"))
}

type recordingObserver struct {
	path   string
	status int
}

func (o *recordingObserver) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	o.path, o.status = path, status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	r := newRouter(Metrics(obs))
	assert.Equal(t, http.StatusNoContent, serve(r, ""))
	assert.Equal(t, "/items/:id", obs.path)
	assert.Equal(t, http.StatusNoContent, obs.status)
}

func TestSetCacheHit(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetCacheHit(c, true)
	assert.Equal(t, true, Meta(c)["cache_hit"])
}
