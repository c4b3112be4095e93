package rest

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/httplib/healthcheck"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/util"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID stores the incoming request id, or a fresh one, and the client
// ip in the request context and echoes the id back.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := util.WithRequestID(c.UserContext(), c.Get(HeaderRequestID))
		ctx = util.WithClientIP(ctx, c.IP())
		c.SetUserContext(ctx)
		c.Set(HeaderRequestID, util.GetRequestID(ctx))
		return c.Next()
	}
}

// Logging writes one line per request. Health probes are not logged.
func Logging(log logger.Interface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if healthcheck.IsHealthCheckRequest(c) {
			return c.Next()
		}

		start := time.Now()
		if err := c.Next(); err != nil {
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.InfoContext(c.UserContext(), "HTTP request",
			logger.Field{Key: "action", Value: "http_request"},
			logger.Field{Key: "method", Value: c.Method()},
			logger.Field{Key: "path", Value: c.Path()},
			logger.Field{Key: "status", Value: c.Response().StatusCode()},
			logger.Field{Key: "latency_ms", Value: time.Since(start).Milliseconds()},
		)

		return nil
	}
}

// Authenticator verifies bearer tokens and extracts the owner identity
// from the subject claim.
type Authenticator struct {
	key    any
	parser *jwt.Parser
}

// NewAuthenticator creates an Authenticator. An RSA public key takes
// precedence over an HMAC secret.
func NewAuthenticator(cfg config.AuthConfig) (*Authenticator, error) {
	var (
		key     any
		methods []string
	)

	switch {
	case cfg.JWTPublicKey != "":
		pemBytes, err := base64.StdEncoding.DecodeString(cfg.JWTPublicKey)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		key = publicKey
		methods = []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}
	case cfg.JWTSecret != "":
		key = []byte(cfg.JWTSecret)
		methods = []string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}
	default:
		return nil, errors.NewTracer("either a JWT public key or a JWT secret must be configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Authenticator{
		key:    key,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Owner verifies token and returns its subject.
func (a *Authenticator) Owner(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.key, nil
	})
	if err != nil {
		return "", unauthorized("invalid token: " + err.Error())
	}
	if claims.Subject == "" {
		return "", unauthorized("token has no subject")
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// owner in the request context.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized("missing bearer token")
		}

		owner, err := a.Owner(token)
		if err != nil {
			return err
		}

		c.SetUserContext(util.WithActorID(c.UserContext(), owner))
		return c.Next()
	}
}

func ownerOf(c *fiber.Ctx) string {
	return util.GetActorID(c.UserContext())
}
