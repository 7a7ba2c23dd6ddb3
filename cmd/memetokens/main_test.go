package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/memetoken"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := filepath.Join(t.TempDir(), "missing.env")
	code := run(context.Background(), append(args[:1:1], append([]string{"-env", env}, args[1:]...)...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAddress(t *testing.T) {
	code, stdout, stderr := runCLI(t, "address", "tushar")
	require.Equal(t, 0, code, stderr)

	want, bump, err := memetoken.DeriveTokenMetadataAddress("tushar", memetokens.ProgramID)
	require.NoError(t, err)
	assert.Contains(t, stdout, want.String())
	assert.Contains(t, stdout, fmt.Sprintf("bump\t%d\n", bump))
}

func TestAddressCustomProgram(t *testing.T) {
	code, stdout, stderr := runCLI(t, "address", "-program-id", "11111111111111111111111111111111", "tushar")
	require.Equal(t, 0, code, stderr)

	defaultAddress, _, err := memetoken.DeriveTokenMetadataAddress("tushar", memetokens.ProgramID)
	require.NoError(t, err)
	assert.NotContains(t, stdout, defaultAddress.String())
}

func TestUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: memetokens")

	assert.Equal(t, 2, run(context.Background(), []string{"mint"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "mint"`)

	code, _, _ := runCLI(t, "address")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "create", "-name", "DogeMoon")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "create", "-name", "DogeMoon", "-supply", "1", "-decimals", "7")
	assert.Equal(t, 2, code)
}

func TestInvalidConfig(t *testing.T) {
	code, _, stderr := runCLI(t, "address", "-network", "moonnet", "tushar")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown network")
}
