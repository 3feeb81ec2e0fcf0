package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/auth"
)

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := auth.NewJWTService("secret", 1)
	userID := uuid.New()
	token, err := svc.Generate(userID, "user@example.com")
	require.NoError(t, err)

	r := gin.New()
	var gotUser uuid.UUID
	var gotEmail string
	r.GET("/protected", JWT(svc, nil), func(c *gin.Context) {
		gotUser = c.MustGet(ContextUserID).(uuid.UUID)
		gotEmail = c.MustGet(ContextUserEmail).(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, userID, gotUser)
	require.Equal(t, "user@example.com", gotEmail)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	svc := auth.NewJWTService("secret", 1)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(svc, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
