package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prohire/resume-screener/internal/middleware"
)

func TestTokenCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "alice", "--secret", "cli-secret", "--ttl", "1h"})
	require.NoError(t, rootCmd.Execute())

	recruiter, err := middleware.NewTokenService("cli-secret", time.Hour).Recruiter(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", recruiter)
}

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0600))

	docs, err := readDocuments([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "jane.pdf", docs[0].Filename)
	assert.Equal(t, "application/pdf", docs[0].ContentType)
	assert.Equal(t, int64(9), docs[0].Size)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}
