package filters

import "testing"

func TestGuildFilter(t *testing.T) {
	f := NewGuildFilter("guild-1")

	if !f.Allow("guild-1") {
		t.Error("configured guild must pass")
	}
	if f.Allow("guild-2") {
		t.Error("foreign guild must be denied")
	}
	if f.Allow("") {
		t.Error("DM (empty guild) must be denied")
	}
}

func TestGuildFilterUnconfigured(t *testing.T) {
	f := NewGuildFilter("")

	if f.Allow("guild-1") || f.Allow("") {
		t.Error("unconfigured filter must deny everything")
	}
}
