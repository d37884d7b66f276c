package returns

import (
	"github.com/smallbiznis/kasira/internal/returns/service"
	"go.uber.org/fx"
)

var Module = fx.Module("returns.service",
	fx.Provide(service.NewService),
)
