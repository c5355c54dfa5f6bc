//go:build linux

package symbind

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// dlsymNext resolves name against RTLD_NEXT: the next occurrence of the
// symbol in the search order after this library, i.e. the genuine libc
// one, matching the original's dynamic_linker<T>(dlsym(RTLD_NEXT, name)).
func dlsymNext(name string) (uintptr, bool) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sym := C.dlsym(C.RTLD_NEXT, cName)
	if sym == nil {
		return 0, false
	}
	return uintptr(sym), true
}
