//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildFlashFinder)
	mg.Deps(BuildFlashSweep)
	fmt.Println("Compilation finished")
	return nil
}

func BuildFlashFinder() error {
	fmt.Println("Building flashfinder executable...")
	return goCgo("build", "-o", "./bin/flashfinder", "./flashfinder")
}

func BuildFlashSweep() error {
	fmt.Println("Building flashsweep executable...")
	return goCgo("build", "-o", "./bin/flashsweep", "./flashsweep")
}

// Test runs the unit tests. HDF5 needs cgo.
func Test() error {
	fmt.Println("Running tests...")
	return goCgo("test", "./...")
}

func goCgo(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
