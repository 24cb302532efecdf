package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/app"
	"github.com/polkiloo/tablepay/internal/config"
	"github.com/polkiloo/tablepay/internal/logger"
	"github.com/polkiloo/tablepay/internal/server/http/handlers"
	"github.com/polkiloo/tablepay/internal/server/http/router"
	"github.com/polkiloo/tablepay/internal/storage/postgres"
	"github.com/polkiloo/tablepay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(func(client gateway.Client) usecase.PaymentGateway { return client }),
		fx.Provide(func(facade *app.PosFacade) handlers.PosFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
