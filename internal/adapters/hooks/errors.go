package hooks

import "fmt"

type callbackPanicError struct {
	hookID string
	value  interface{}
}

func (e *callbackPanicError) Error() string {
	return fmt.Sprintf("hook %s panicked: %v", e.hookID, e.value)
}
