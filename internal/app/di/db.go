package di

import (
	"gorm.io/gorm"

	"stock_insights/internal/app/config"
	symbolentity "stock_insights/internal/feature/symbollist/domain/entity"
	"stock_insights/internal/platform/db"
)

// OpenDatabase connects to the symbols database and migrates its tables.
// Driver and path come from cfg; postgres credentials come from DB_* variables.
func OpenDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	dbCfg := db.LoadConfigFromEnv()
	dbCfg.Driver = cfg.Driver
	if cfg.Path != "" {
		dbCfg.Path = cfg.Path
	}
	return db.Open(dbCfg, cfg.ConnectTimeout, &symbolentity.Symbol{})
}
