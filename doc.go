// Package flatfs provides an embedded flat in-memory filesystem for Go.
//
// A Disk owns one fixed-size memory region formatted as a flat filesystem
// (no directories, fixed 64-entry file table, 1 KiB blocks) plus a small
// bump-allocator scratch pool. It is the Go rendition of a kernel ramdisk:
// deterministic layout, no hidden allocation, explicit failure results.
//
// # Quick Start
//
//	ctx := context.Background()
//	disk, err := flatfs.New(flatfs.WithSize(1 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer disk.Close()
//
//	_ = disk.Create(ctx, "motd.txt", []byte("welcome"))
//	data, _ := disk.Read(ctx, "motd.txt")
//
//	for _, fi := range disk.List(0) {
//	    fmt.Println(fi.Name, fi.Size)
//	}
//
// Creating over an existing name replaces the file; this is defined
// behavior, not an error.
//
// # Backing Memory
//
// By default the region lives on the Go heap. WithOffHeap places it in an
// anonymous memory mapping instead, and WithRegion binds the disk to a
// caller-supplied buffer. A resource.Controller shared across disks can cap
// their combined footprint.
//
// # Concurrency
//
// The core itself is single-threaded. Disk serializes every operation
// behind one mutex, so a Disk is safe for concurrent use at the cost of
// serialization; there is no finer-grained locking to inherit bugs from.
package flatfs
