//go:build darwin

package main

/*
#include <errno.h>
#include <pthread.h>
*/
import "C"
import "syscall"

func setErrno(e syscall.Errno) {
	if e != 0 {
		*C.__error() = C.int(e)
	}
}

func currentTID() int {
	var tid C.uint64_t
	C.pthread_threadid_np(nil, &tid)
	return int(tid)
}
