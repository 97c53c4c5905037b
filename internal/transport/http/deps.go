package http

import (
	"github.com/go-auth-dashboard/internal/config"
	"github.com/go-auth-dashboard/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-dashboard/internal/infrastructure/jwt"
	"github.com/go-auth-dashboard/internal/infrastructure/smtp"
)

// Deps bundles the infrastructure the router needs to assemble services.
type Deps struct {
	Config        *config.Config
	UserRepo      *dynamo.UserRepo
	RateLimitRepo *dynamo.RateLimitRepo
	Mailer        smtp.Mailer
	JWTProvider   *jwtinfra.Provider
}
