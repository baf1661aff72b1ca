// SPDX-License-Identifier: EPL-2.0

//go:build linux

package shm

import "golang.org/x/sys/unix"

func mapMemory(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
}

func unmapMemory(mem []byte) error {
	return unix.Munmap(mem)
}
