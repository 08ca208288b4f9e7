// Package data embeds the demo data set loaded by cmd/seed.
package data

import (
	"embed"
)

// Seed holds users.json, reports.json and notifications.json
//
//go:embed seed/*.json
var Seed embed.FS
