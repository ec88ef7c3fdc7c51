package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStatusLabelsDefaults(t *testing.T) {
	labels, err := loadStatusLabels("")
	require.NoError(t, err)
	assert.Equal(t, "รอดำเนินการ", labels["Pending"])
	assert.Equal(t, "สำเร็จ", labels["Success"])
}

func TestLoadStatusLabelsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Pending: queued\nCancelled: cancelled\n"), 0o644))

	labels, err := loadStatusLabels(path)
	require.NoError(t, err)
	assert.Equal(t, "queued", labels["Pending"])
	assert.Equal(t, "cancelled", labels["Cancelled"])
	// Codes missing from the override keep their defaults.
	assert.Equal(t, "กำลังจัดส่ง", labels["Shipping"])
}

func TestLoadStatusLabelsBadFile(t *testing.T) {
	_, err := loadStatusLabels(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))
	_, err = loadStatusLabels(path)
	assert.Error(t, err)
}

func TestStatusLabelPassthrough(t *testing.T) {
	fe := &frontendServer{statusLabels: defaultStatusLabels}
	assert.Equal(t, "กำลังจัดส่ง", fe.statusLabel("Shipping"))
	assert.Equal(t, "Weird", fe.statusLabel("Weird"))
}
