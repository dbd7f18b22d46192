package main

import (
	"log"

	"onboarding-audit/internal/domain/entity"
	"onboarding-audit/internal/launcher"
)

func main() {
	if err := launcher.Run(entity.KindFunctional); err != nil {
		log.Fatal(err)
	}
}
