//go:build unix

package privilege

import "golang.org/x/sys/unix"

func hostEUID() int {
	return unix.Geteuid()
}

func hostSysname() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Sysname[:]), nil
}
