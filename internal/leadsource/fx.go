package leadsource

import (
	"github.com/smallbiznis/gestios/internal/leadsource/repository"
	"github.com/smallbiznis/gestios/internal/leadsource/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leadsource.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
