package rest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	pkgErrors "github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rsaConfig(t *testing.T) (config.AuthConfig, *rsa.PrivateKey) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return config.AuthConfig{
		JWTPublicKey: base64.StdEncoding.EncodeToString(pemBytes),
		Issuer:       "barong",
		Leeway:       time.Second,
	}, key
}

func TestNewAuthenticator(t *testing.T) {
	_, err := NewAuthenticator(config.AuthConfig{})
	assert.Error(t, err)

	_, err = NewAuthenticator(config.AuthConfig{JWTPublicKey: "not base64!"})
	assert.Error(t, err)

	_, err = NewAuthenticator(config.AuthConfig{JWTPublicKey: base64.StdEncoding.EncodeToString([]byte("not a pem"))})
	assert.Error(t, err)
}

func TestAuthenticator_Owner(t *testing.T) {
	cfg, key := rsaConfig(t)
	auth, err := NewAuthenticator(cfg)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, signingKey any, claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(signingKey)
		require.NoError(t, err)
		return token
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	testCases := []struct {
		name      string
		token     string
		wantOwner string
	}{
		{
			name:      "valid token",
			token:     sign(jwt.SigningMethodRS256, key, jwt.RegisteredClaims{Subject: "UID123", Issuer: "barong", ExpiresAt: future}),
			wantOwner: "UID123",
		},
		{
			name:  "expired token",
			token: sign(jwt.SigningMethodRS256, key, jwt.RegisteredClaims{Subject: "UID123", Issuer: "barong", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}),
		},
		{
			name:  "wrong issuer",
			token: sign(jwt.SigningMethodRS256, key, jwt.RegisteredClaims{Subject: "UID123", Issuer: "someone", ExpiresAt: future}),
		},
		{
			name:  "no subject",
			token: sign(jwt.SigningMethodRS256, key, jwt.RegisteredClaims{Issuer: "barong", ExpiresAt: future}),
		},
		{
			name:  "hmac token against an rsa key",
			token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{Subject: "UID123", Issuer: "barong", ExpiresAt: future}),
		},
		{
			name:  "garbage",
			token: "a.b.c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			owner, err := auth.Owner(tc.token)
			if tc.wantOwner != "" {
				require.NoError(t, err)
				assert.Equal(t, tc.wantOwner, owner)
				return
			}

			assert.Empty(t, owner)
			assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralUnauthorizedError))
		})
	}
}
