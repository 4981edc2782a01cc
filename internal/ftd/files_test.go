package ftd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURLs(t *testing.T) {
	now := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("modern year first half", func(t *testing.T) {
		urls, err := FileURLs(2023, 1, now)
		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails2023a.zip", urls[0])
	})

	t.Run("modern year second half", func(t *testing.T) {
		urls, err := FileURLs(2023, 2, now)
		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails2023b.zip", urls[0])
	})

	t.Run("2009 expands to monthly archives", func(t *testing.T) {
		urls, err := FileURLs(2009, 1, now)
		require.NoError(t, err)
		require.Len(t, urls, 6)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails200901.zip", urls[0])
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails200906.zip", urls[5])

		urls, err = FileURLs(2009, 2, now)
		require.NoError(t, err)
		require.Len(t, urls, 6)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails200907.zip", urls[0])
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails200912.zip", urls[5])
	})

	t.Run("defaults to period containing now", func(t *testing.T) {
		urls, err := FileURLs(0, 0, now)
		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails2024b.zip", urls[0])

		march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		urls, err = FileURLs(0, 0, march)
		require.NoError(t, err)
		assert.Equal(t, "https://www.sec.gov/files/data/fails-deliver-data/cnsfails2024a.zip", urls[0])
	})

	t.Run("rejects out-of-range year", func(t *testing.T) {
		_, err := FileURLs(2008, 1, now)
		assert.ErrorIs(t, err, ErrInvalidPeriod)

		_, err = FileURLs(2025, 1, now)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("rejects invalid half", func(t *testing.T) {
		_, err := FileURLs(2023, 3, now)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("rejects unpublished current second half", func(t *testing.T) {
		march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		_, err := FileURLs(2024, 2, march)
		assert.ErrorIs(t, err, ErrInvalidPeriod)

		_, err = FileURLs(2024, 2, now)
		assert.NoError(t, err)
	})
}
