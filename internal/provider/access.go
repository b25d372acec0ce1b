package provider

import "golang.org/x/sys/unix"

// dirWritable reports whether dir is writable by the effective user, the
// runtime probe behind IsAbleToWrite for the filesystem-backed providers.
func dirWritable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
