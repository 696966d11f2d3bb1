package firebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitFirebaseRejectsBadCredentials(t *testing.T) {
	dir := t.TempDir()

	_, err := InitFirebase(context.Background(), "")
	assert.ErrorContains(t, err, "not provided")

	_, err = InitFirebase(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "not found")

	_, err = InitFirebase(context.Background(), dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestCheckCredentialsAcceptsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	assert.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	assert.NoError(t, checkCredentials(path))
}
