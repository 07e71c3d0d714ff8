//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every unit test.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Regenerates the golden stage traces of the engine package.
func (Test) Golden() error {
	_, err := executeCmd("go", withArgs("test", "./engine", "-run", "Golden", "-update"), withStream())
	return err
}
