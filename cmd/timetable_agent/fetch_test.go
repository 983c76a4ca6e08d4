package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTermIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{name: "single", input: "303", want: []int{303}},
		{name: "multiple with spaces", input: "303, 304 ,305", want: []int{303, 304, 305}},
		{name: "non-numeric entries ignored", input: "303,May Term,304", want: []int{303, 304}},
		{name: "negative and zero ignored", input: "-1,0,42", want: []int{42}},
		{name: "empty", input: "", want: nil},
		{name: "only junk", input: "a,b,,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTermIDs(tt.input))
		})
	}
}

func TestFetchCommand_RequiresTermSelection(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "fetch", "--token", "x")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --terms or --all-terms")
}

func TestFetchCommand_TermFlagsMutuallyExclusive(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "fetch", "--token", "x", "--terms", "303", "--all-terms")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "mutually exclusive")
}

func TestFetchCommand_InvalidConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "fetch", "--config", "/nonexistent/config.json", "--all-terms")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}
