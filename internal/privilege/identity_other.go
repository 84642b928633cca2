//go:build !unix

package privilege

import (
	"os"
	"runtime"
)

func hostEUID() int {
	return os.Geteuid()
}

func hostSysname() (string, error) {
	return runtime.GOOS, nil
}
