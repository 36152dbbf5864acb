// habitd - habit-tracking backend with scheduled reminders.
package main

import (
	"os"

	"github.com/manav03panchal/habitd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
