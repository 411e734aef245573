package openapifx

import (
	"github.com/go-core-fx/logger"
	"github.com/swaggo/swag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module serves spec through a Handler. Public overrides from Config are
// written into spec before the handler is built, since the UI reads the
// registered instance.
func Module(spec *swag.Spec) fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(func(config Config, log *zap.Logger) *swag.Spec {
			applyOverrides(spec, config)
			log.Debug("openapi document prepared",
				zap.String("host", spec.Host),
				zap.String("base_path", spec.BasePath))
			return spec
		}, fx.Private),
		fx.Provide(New),
	)
}

func applyOverrides(spec *swag.Spec, config Config) {
	if config.PublicHost != "" {
		spec.Host = config.PublicHost
	}
	if config.PublicPath != "" {
		spec.BasePath = config.PublicPath
	}
}
