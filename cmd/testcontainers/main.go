package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/lookout/internal/dbtest"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "mariadb", "database server: mariadb or postgres")
	var image string
	flag.StringVar(&image, "image", "", "container image (defaults per database)")
	flag.Parse()

	usage := `
Run a throwaway database container for local development and print the
DB_* settings that point the service at it. The container is removed on exit.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db mariadb|postgres] [-image IMAGE]

ENV_FILE_PATH: path to a .env file read before starting (for DOCKER_HOST and friends)

example
  testcontainers -db postgres -image postgres:17-alpine
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	if image == "" {
		switch dbType {
		case "postgres":
			image = os.Getenv("POSTGRES_IMAGE")
		default:
			image = os.Getenv("MARIADB_IMAGE")
		}
	}
	spec, err := dbtest.DefaultSpec(dbType, image)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	ctx := context.Background()
	log.Printf("Starting %s...\n", spec.Image)
	c, err := dbtest.StartContainer(ctx, spec)
	if err != nil {
		log.Fatalf("Failed to create test container: %v\n", err)
	}

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		c.Config.DBType, c.Config.DBHost, c.Config.DBPort, c.Config.DBDatabase, c.Config.DBUser, c.Config.DBPassword)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test container...\n", sig)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Terminate(stopCtx); err != nil {
		log.Printf("Failed to terminate container: %v\n", err)
	}
}
