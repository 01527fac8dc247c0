package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"  alice  ", "alice"},
		{"a<script>b", "ascriptb"},
		{"ñandú", "and"},
		{"The machine", "The machine"},
		{"under_score 42", "under_score 42"},
		{"!@#$", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "CleanName(%q)", tt.in)
	}
}
