package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(41, 3, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 3, info.CurrentPage)

	info = NewPaginationInfo(41, 9, 20)
	assert.Equal(t, 3, info.CurrentPage)

	info = NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, info.TotalPages)
}

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  int
	}{
		{"/x?page=2", 2},
		{"/x?page=abc", 1},
		{"/x?page=-3", 1},
		{"/x", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.query, nil)
			assert.Equal(t, tt.want, ParsePage(c))
		})
	}
}

func TestParseYear(t *testing.T) {
	require.NotNil(t, ParseYear(" 2015 "))
	assert.Equal(t, 2015, *ParseYear("2015"))
	assert.Nil(t, ParseYear("15"))
	assert.Nil(t, ParseYear("20x5"))
	assert.Nil(t, ParseYear("1850"))
	assert.Nil(t, ParseYear(""))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty("   "))
	require.NotNil(t, NullIfEmpty(" CS "))
	assert.Equal(t, "CS", *NullIfEmpty(" CS "))
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2026-05-01T18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC), got)

	_, err = ParseDateTime("next friday")
	assert.Error(t, err)

	opt, err := ParseOptionalDateTime("")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, ParseDuration("30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
}
