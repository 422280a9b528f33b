// octoallure is the Octomind → Allure converter CLI.
//
// Usage:
//
//	octoallure convert --test-target-id=<id> --report-id=<id> [-o <dir>]
//	octoallure batch --test-target-id=<id> [-o <dir>] [--report-dir=<dir>] [--max-reports=N] [--environment-id=<id>]
//	octoallure snapshot --report-dir=<dir> --out=<png>
//	octoallure serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
