package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTTLPolicy(t *testing.T) {
	policy := DefaultTTLPolicy()

	tests := []struct {
		key  string
		want time.Duration
	}{
		{"dashboard:stats", 2 * time.Minute},
		{`books:list:{"page":1}`, 5 * time.Minute},
		{"books:detail:42", 5 * time.Minute},
		{"users:list", 3 * time.Minute},
		{"orders:list", 1 * time.Minute},
		{"categories:list", 10 * time.Minute},
		{"authors:all", 10 * time.Minute},
		{"publishers:list", 10 * time.Minute},
		{"books", 5 * time.Minute},
		{"unknown:family", 2 * time.Minute},
		{"", 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.TTLFor(tt.key))
		})
	}
}

func TestNewTTLPolicy_CopiesInput(t *testing.T) {
	families := map[string]time.Duration{FamilyBooks: time.Minute}
	policy := NewTTLPolicy(30*time.Second, families)

	families[FamilyBooks] = time.Hour

	assert.Equal(t, time.Minute, policy.TTLFor("books:list"))
	assert.Equal(t, 30*time.Second, policy.TTLFor("orders:list"))
}

func TestTTLPolicy_ZeroValueFallsBackToDashboardTTL(t *testing.T) {
	var policy TTLPolicy

	assert.Equal(t, DefaultDashboardTTL, policy.TTLFor("books:list"))
}
