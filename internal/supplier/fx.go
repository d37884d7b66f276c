package supplier

import (
	"github.com/smallbiznis/kasira/internal/supplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier.service",
	fx.Provide(service.NewService),
)
