//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// openTarget opens path for --use-fd. O_NONBLOCK keeps the open of a FIFO
// or device from waiting for a peer, it has no effect on the xattr calls.
func openTarget(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
}
