package report

import (
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
	"github.com/smallbiznis/kasira/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) reportdomain.Service { return s }),
	fx.Invoke(service.RunInvalidation),
)
