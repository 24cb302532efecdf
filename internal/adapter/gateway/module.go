package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tablepay/internal/config"
)

// Module exposes the gateway client and verifier to the fx graph.
var Module = fx.Provide(newClient, newVerifier)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayBaseURL, p.Config.GatewayServerKey, p.Logger)
}

func newVerifier(p clientParams) *Verifier {
	return NewVerifier(p.Config.GatewayServerKey, p.Config.SkipSignatureVerify, p.Logger)
}
