package flatfs_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/flatfs"
)

// Example demonstrates the basic create/read/list cycle.
func Example() {
	ctx := context.Background()

	disk, err := flatfs.New(flatfs.WithSize(1 << 20))
	if err != nil {
		log.Fatal(err)
	}
	defer disk.Close()

	if err := disk.Create(ctx, "motd.txt", []byte("welcome")); err != nil {
		log.Fatal(err)
	}

	data, err := disk.Read(ctx, "motd.txt")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))

	for _, fi := range disk.List(0) {
		fmt.Println(fi.Name, fi.Size)
	}
	// Output:
	// welcome
	// motd.txt 7
}

// Example_replace shows that creating over an existing name replaces the
// file instead of failing.
func Example_replace() {
	ctx := context.Background()

	disk, err := flatfs.New()
	if err != nil {
		log.Fatal(err)
	}
	defer disk.Close()

	_ = disk.Create(ctx, "cfg", []byte("v1"))
	_ = disk.Create(ctx, "cfg", []byte("v2"))

	data, _ := disk.Read(ctx, "cfg")
	fmt.Println(string(data), disk.FileCount())
	// Output: v2 1
}

// Example_scratch demonstrates the bump-allocator scratch pool.
func Example_scratch() {
	disk, err := flatfs.New(flatfs.WithScratchSize(1024))
	if err != nil {
		log.Fatal(err)
	}
	defer disk.Close()

	buf, err := disk.AllocBytes(10)
	if err != nil {
		log.Fatal(err)
	}
	copy(buf, "scratch")

	fmt.Println(disk.ArenaUsed(), disk.ArenaTotal())
	// Output: 12 1024
}
