//go:build darwin

package symbind

/*
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// dlsymNext resolves name against RTLD_DEFAULT. Darwin has no RTLD_NEXT
// equivalent usable from an interposed image's own bookkeeping code: the
// dyld interpose table only rewrites lookups performed by the *original*
// caller, not ones this library performs on its own behalf, so
// RTLD_DEFAULT from here correctly reaches the genuine libc definition.
func dlsymNext(name string) (uintptr, bool) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sym := C.dlsym(C.RTLD_DEFAULT, cName)
	if sym == nil {
		return 0, false
	}
	return uintptr(sym), true
}
