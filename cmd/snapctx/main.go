package main

import (
	"fmt"

	"snapctx/internal/cli"
	"snapctx/internal/utils"
)

// main is the entry point for the snapctx command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal("application failed: " + applicationExecutionError.Error())
	}
}
