//go:build !(darwin || freebsd || linux)

package native

import (
	"github.com/ZenLiuCN/modload"
)

func dlopen(string) (uintptr, error) {
	return 0, modload.ErrUnsupported
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, modload.ErrUnsupported
}

func dlclose(uintptr) error {
	return modload.ErrUnsupported
}
