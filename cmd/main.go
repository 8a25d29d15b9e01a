package main

import (
	"liquitrace/internal/app"

	"github.com/sirupsen/logrus"
)

// @title Liquitrace API
// @version 1.0
// @description Top-gainer scanner for Base chain tokens.
// @BasePath /api
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Fatal("Application stopped")
	}
}
