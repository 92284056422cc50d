package main

import (
	"log"

	"github.com/studorg/membership-service/cmd/app"
	"github.com/studorg/membership-service/internal/adapters/config"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()

	a, err := app.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	a.Start()
}
