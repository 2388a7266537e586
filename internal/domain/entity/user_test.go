package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestPreference_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		pref *Preference
		want bool
	}{
		{"nil preference", nil, true},
		{"no lists", &Preference{UserID: 1}, true},
		{"empty slices", &Preference{PreferredSources: []string{}, PreferredAuthors: []string{}}, true},
		{"sources only", &Preference{PreferredSources: []string{"BBC News"}}, false},
		{"categories only", &Preference{PreferredCategories: []string{"technology"}}, false},
		{"authors only", &Preference{PreferredAuthors: []string{"Jane Doe"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pref.IsEmpty())
		})
	}
}

func TestAPILog_Failed(t *testing.T) {
	msg := "timeout"
	assert.False(t, (&APILog{StatusCode: 200}).Failed())
	assert.True(t, (&APILog{StatusCode: 429}).Failed())
	assert.True(t, (&APILog{StatusCode: 500, ErrorMessage: &msg}).Failed())
}

func TestAPIStat_SuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, APIStat{}.SuccessRate())
	assert.InDelta(t, 75.0, APIStat{TotalCalls: 4, ErrorCalls: 1}.SuccessRate(), 0.001)
}
