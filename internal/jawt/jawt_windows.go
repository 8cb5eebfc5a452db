// SPDX-License-Identifier: Unlicense OR MIT

package jawt

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	defaultLibrary = "jawt.dll"
	javaLibDir     = "bin"
)

// syscallN calls a native function pointer.
var syscallN = func(fn uintptr, args ...uintptr) (r1, r2, err uintptr) {
	r1, r2, errno := syscall.SyscallN(fn, args...)
	return r1, r2, uintptr(errno)
}

func loadLibrary(path string) (uintptr, error) {
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS|windows.LOAD_LIBRARY_SEARCH_DLL_LOAD_DIR)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %v", path, err)
	}
	// JNICALL is the platform calling convention on 64 bit Windows;
	// 32 bit JVMs export the stdcall decorated name.
	for _, name := range []string{"JAWT_GetAWT", "_JAWT_GetAWT@8"} {
		if proc, err := windows.GetProcAddress(h, name); err == nil {
			return proc, nil
		}
	}
	return 0, fmt.Errorf("failed to locate JAWT_GetAWT in %s", path)
}
