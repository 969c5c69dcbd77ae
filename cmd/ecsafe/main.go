// Command ecsafe generates keys, agrees on shared secrets and signs or
// verifies digests from the command line. All binary values are hex.
package main

import (
	"os"

	"github.com/spf13/viper"
)

func main() {
	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if newRootCmd(viper.New(), os.Stdout).Execute() != nil {
		os.Exit(1)
	}
}
