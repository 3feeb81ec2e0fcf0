package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoogleVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"email":"ada@example.com","name":"Ada","picture":"https://example.com/a.png"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier()
	v.endpoint = srv.URL

	profile, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", profile.Email)
	require.Equal(t, "Ada", profile.Name)
	require.Equal(t, "https://example.com/a.png", profile.AvatarURL)

	_, err = v.Verify(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleVerifierRejectsMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Nobody"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier()
	v.endpoint = srv.URL

	_, err := v.Verify(context.Background(), "anything")
	require.ErrorIs(t, err, ErrInvalidToken)
}
