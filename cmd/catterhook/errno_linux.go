//go:build linux

package main

/*
#include <errno.h>
*/
import "C"
import "syscall"

func setErrno(e syscall.Errno) {
	if e != 0 {
		*C.__errno_location() = C.int(e)
	}
}

func currentTID() int {
	return syscall.Gettid()
}
