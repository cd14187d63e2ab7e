package main

import (
	"os"

	"courier-booking/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}
