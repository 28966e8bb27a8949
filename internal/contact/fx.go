package contact

import (
	"github.com/smallbiznis/gestios/internal/contact/repository"
	"github.com/smallbiznis/gestios/internal/contact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
