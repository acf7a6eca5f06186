package database

import (
	"conecta.church/configs/configslog"
	"conecta.church/database/migrations"
	"conecta.church/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and seeders inside one transaction. Either
// the whole schema setup lands or none of it does.
func Initialize(db *gorm.DB, migrate bool, seed bool) error {
	if !migrate && !seed {
		configslog.SLog.Info("no migrate/seed flag given, skipping database initialization")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if migrate {
			configslog.SLog.Info("running migrations...")
			if err := RunMigrationsInOrder(tx); err != nil {
				configslog.Log.Error("migration failed", zap.Error(err))
				return err
			}
			configslog.SLog.Info("migrations complete")
		}

		if seed {
			configslog.SLog.Info("running seeders...")
			if err := RunSeeders(tx); err != nil {
				configslog.Log.Error("seeding failed", zap.Error(err))
				return err
			}
			configslog.SLog.Info("seeders complete")
		}
		return nil
	})
}

// RunMigrationsInOrder applies the table migrations respecting foreign key
// dependencies: users first, then the form aggregate, then responses.
func RunMigrationsInOrder(db *gorm.DB) error {
	if err := migrations.MigrateUsersTable(db); err != nil {
		return err
	}
	if err := migrations.MigrateFormsTables(db); err != nil {
		return err
	}
	return migrations.MigrateResponsesTables(db)
}

// RunSeeders applies the idempotent seeders.
func RunSeeders(db *gorm.DB) error {
	if err := seeders.SeedSystemUser(db); err != nil {
		return err
	}
	return seeders.SeedWelcomeForm(db)
}
