// Command inkwell runs a blog site over a local content directory using the
// default view components. Configuration comes from INKWELL_* environment
// variables, optionally loaded from a .env file.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/eastshore/inkwell"
	"github.com/eastshore/inkwell/views"
)

func main() {
	// A missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := inkwell.ConfigFromEnv()
	if err != nil {
		log.Fatalf("inkwell: config: %v", err)
	}

	app := inkwell.New(cfg, views.Funcs())
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
