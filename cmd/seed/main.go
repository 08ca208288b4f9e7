// main.go
//
// Community missing-persons reporting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lookout.
// lookout is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lookout is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lookout.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/lookout/data"
	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/logging"
	"github.com/localnerve/lookout/internal/services"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	flag.Parse()

	if showHelp {
		fmt.Println(`
Load the demo users, reports and notifications into an empty database.
The database is taken from the usual DB_* environment (or ENV_FILE).
Nothing is inserted when any user already exists.

Usage:

seed [-h]`)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalw("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		sugar.Fatalw("Failed to run migrations", "error", err)
	}

	result, err := services.Seed(db, data.Seed, time.Now())
	if err != nil {
		sugar.Fatalw("Failed to seed database", "error", err)
	}
	if result.Skipped {
		sugar.Infow("Database already has users, seed skipped")
	}

	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(output))
}
