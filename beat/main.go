// Clockbeat — Beat на базе Elastic Beats v7 (libbeat): цикл tc-clock и одно событие на цикл.
package main

import (
	"os"

	"github.com/elastic/beats/v7/libbeat/cmd"
	"github.com/elastic/beats/v7/libbeat/cmd/instance"

	"github.com/shiwa/tc-clock/beat/beater"
)

func main() {
	rootCmd := cmd.GenRootCmdWithSettings(beater.New, instance.Settings{
		Name: "clockbeat",
	})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
