package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	require.NoError(t, err)
	return d
}
