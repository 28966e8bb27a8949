package migration

import (
	apikeydomain "github.com/smallbiznis/gestios/internal/apikey/domain"
	catalogdomain "github.com/smallbiznis/gestios/internal/servicecatalog/domain"
	"github.com/smallbiznis/gestios/internal/config"
	contactdomain "github.com/smallbiznis/gestios/internal/contact/domain"
	leadsourcedomain "github.com/smallbiznis/gestios/internal/leadsource/domain"
	orgdomain "github.com/smallbiznis/gestios/internal/organization/domain"
	proposaldomain "github.com/smallbiznis/gestios/internal/proposal/domain"
	"github.com/smallbiznis/gestios/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		// Versioned migrations target postgres; the sqlite and mysql
		// dialects used for dev and tests derive the schema from the models.
		if cfg.DBType != "postgres" {
			err := conn.AutoMigrate(
				&orgdomain.Organization{},
				&apikeydomain.APIKey{},
				&contactdomain.Contact{},
				&leadsourcedomain.LeadSource{},
				&catalogdomain.CatalogItem{},
				&proposaldomain.Proposal{},
				&proposaldomain.ProposalSettings{},
			)
			if err != nil {
				return err
			}
		} else {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.SeedDev {
			return seed.EnsureDefaultOrg(conn, log)
		}
		return nil
	}),
)
