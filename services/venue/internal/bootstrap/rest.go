package bootstrap

import "github.com/dset/Cloud-Market/services/venue/internal/rest"

// REST is the HTTP layer of the venue service.
type REST struct {
	Authenticator *rest.Authenticator
	Handler       *rest.Handler
}

// registerREST registers the HTTP handlers.
func (b *Bootstrap) registerREST() error {
	auth, err := rest.NewAuthenticator(b.Config.Auth)
	if err != nil {
		return err
	}

	b.REST.Authenticator = auth
	b.REST.Handler = rest.NewHandler(
		b.Usecase.OrderUsecase,
		b.Usecase.TradeUsecase,
		b.Usecase.OrderbookUsecase,
		b.Config.Coordinator.SelfTradePrevention,
	)

	return nil
}
