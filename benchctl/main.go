// benchctl is the operator CLI for the benchmark registry. Its derive
// command freezes a stored run's scenarios into a reusable test-set file.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
