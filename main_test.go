package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Args(t *testing.T) {
	assert.NoError(t, rootCmd.Args(rootCmd, nil))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"a.material"}))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a.material", "b.material"}), "one document at a time")
}
