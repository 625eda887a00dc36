package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/linemk/catalog-api/internal/config"
)

// buildDSN собирает строку подключения из параметров конфигурации,
// пароль в конфиг попадает только из окружения
func buildDSN(dbCfg config.DatabaseConfig, migrationTable string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&x-migrations-table=%s",
		dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Name, migrationTable,
	)
}

func main() {
	var migrationsPathFlag string
	var down bool
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll back all migrations instead of applying them")

	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	m, err := migrate.New(
		"file://"+migrationsPath,
		buildDSN(cfg.Database, "migrations"),
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	if down {
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("No migrations to roll back")
				return
			}
			log.Fatalf("rollback failed: %v", err)
		}
		log.Println("Migrations rolled back successfully")
		return
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations applied successfully")
}
