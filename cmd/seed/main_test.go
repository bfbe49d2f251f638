package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/auth"
)

func TestPrintPasswordHashVerifiesAsAdminHash(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPasswordHash(&out, "s3cret"))

	hashed := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hashed, "$2a$"))

	creds := auth.Credentials{Username: "admin", PasswordHash: hashed}
	assert.True(t, creds.Verify("admin", "s3cret"))
	assert.False(t, creds.Verify("admin", "wrong"))
}
