package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, verifyPassword("correct horse battery staple", hash))
	assert.False(t, verifyPassword("wrong password", hash))
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("test-secret")

	router := gin.New()
	router.GET("/protected", authMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": currentUserID(c)})
	})

	request := func(authHeader string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("").Code)
	})

	t.Run("Malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("Basic abc123").Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("Bearer not-a-jwt").Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		token, err := createAccessToken(7, "taro@example.com", []byte("other-secret"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, request("Bearer "+token).Code)
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := createAccessToken(7, "taro@example.com", secret)
		require.NoError(t, err)

		w := request("Bearer " + token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userID":7`)
	})
}
