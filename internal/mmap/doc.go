// Package mmap maps source images read-only into memory so decoders can work
// on the file contents without an intermediate copy.
//
//	m, err := mmap.Open("photo.png")
//	if err != nil { ... }
//	defer m.Close()
//	buf, _, err := imageio.DecodeBytes(m.Bytes())
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
package mmap
