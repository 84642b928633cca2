// Command zonectl manages the lifecycle of Solaris zones.
package main

import "github.com/jvs-project/zonectl/internal/cli"

func main() {
	cli.Execute()
}
