package meals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOnly_TimezoneIndependent(t *testing.T) {
	east := time.FixedZone("UTC+10", 10*3600)
	west := time.FixedZone("UTC-8", -8*3600)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc midnight", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "2026-03-02"},
		{"east of utc midnight", time.Date(2026, 3, 2, 0, 0, 0, 0, east), "2026-03-02"},
		{"west of utc late evening", time.Date(2026, 3, 2, 23, 30, 0, 0, west), "2026-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateOnly(tt.in))
		})
	}
}
