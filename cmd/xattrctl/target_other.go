//go:build !unix

package main

import "os"

func openTarget(path string) (*os.File, error) {
	return os.Open(path)
}
