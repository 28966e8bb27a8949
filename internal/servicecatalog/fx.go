package servicecatalog

import (
	"github.com/smallbiznis/gestios/internal/servicecatalog/repository"
	"github.com/smallbiznis/gestios/internal/servicecatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicecatalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
