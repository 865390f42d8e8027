package main

import (
	"eventhub/core/logger"
	"eventhub/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
