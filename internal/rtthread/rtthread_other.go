//go:build !linux

package rtthread

import "errors"

func raise() error {
	return errors.New("rtthread: priority raise not implemented on this platform")
}
