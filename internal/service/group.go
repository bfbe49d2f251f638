package service

import "fmt"

// recovered converts a panic in fn into an error so that a failing
// sub-query run on an errgroup goroutine surfaces as a 500 instead of
// crashing the process.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}
