package coupon

import "go.uber.org/fx"

// Module exposes the coupon repository and service via Fx.
var Module = fx.Options(
	fx.Provide(NewRepository),
	fx.Provide(NewService),
)
