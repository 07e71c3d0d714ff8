//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod tidy and then builds the binary into bin/.
func (Build) Binary() error {
	if err := goTidy(); err != nil {
		return err
	}
	fmt.Println("Build engine...")
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/gaps", "."), withStream()); err != nil {
		return err
	}
	return nil
}
