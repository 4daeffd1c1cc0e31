package propbus

import "reflect"

func funcPointer(cb Callback) uintptr {
	if cb == nil {
		return 0
	}
	return reflect.ValueOf(cb).Pointer()
}
