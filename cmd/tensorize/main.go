// Package main provides the tensorize CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/tensorize/internal/bridge"
	"github.com/born-ml/tensorize/internal/serialization"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("tensorize %s\n", version)
	case "inspect":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: tensorize inspect <file.tnzr>")
			os.Exit(2)
		}
		if err := inspect(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "tensorize: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("tensorize - dtype-preserving tensor serialization")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version          Show version")
	fmt.Println("  inspect <file>   List tensors and dtype tags in a .tnzr file")
}

func inspect(path string) error {
	r, err := serialization.NewMmapReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	header := r.Header()
	fmt.Printf("format v%d, written by tensorize %s at %s\n",
		header.FormatVersion, header.LibraryVersion, header.CreatedAt.Format("2006-01-02 15:04:05"))
	for k, v := range header.Metadata {
		fmt.Printf("  %s = %s\n", k, v)
	}
	fmt.Printf("%d tensors:\n", len(header.Tensors))
	for _, meta := range header.Tensors {
		tag := meta.DType
		if bridge.IsOpaque(meta.DType) {
			tag = fmt.Sprintf("%s (opaque, %s)", meta.DType, meta.TensorDType)
		} else if meta.TensorDType != "" {
			tag = fmt.Sprintf("%s (%s)", meta.DType, meta.TensorDType)
		}
		fmt.Printf("  %-40s %v  %s  %d bytes\n", meta.Name, meta.Shape, tag, meta.Size)
	}
	return nil
}
