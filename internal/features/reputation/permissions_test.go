package reputation

import (
	"strings"
	"testing"

	"leobot.dev/discord-bot/internal/config"
)

func permConfig() *config.Config {
	return &config.Config{
		PointsName:        "points",
		RoleGiveUnlimited: "role-unlimited",
		RoleGiveMany:      "role-many",
		RoleGiveNegative:  "role-negative",
		GiveManyLimit:     10,
	}
}

func TestAuthorize(t *testing.T) {
	cfg := permConfig()

	cases := []struct {
		name      string
		roles     []string
		delta     int
		self      bool
		allowed   bool
		violation ViolationCode
	}{
		{"single point allowed without roles", nil, 1, false, true, ViolationNone},
		{"self grant denied", nil, 1, true, false, ViolationSelfGrant},
		{"self grant allowed with unlimited role", []string{"role-unlimited"}, 1, true, true, ViolationNone},
		{"bulk denied without role", nil, 2, false, false, ViolationBulkRole},
		{"bulk allowed with role", []string{"role-many"}, 2, false, true, ViolationNone},
		{"negative denied without role", nil, -1, false, false, ViolationNegativeRole},
		{"negative allowed with role", []string{"role-negative"}, -1, false, true, ViolationNone},
		{"over limit denied even with bulk role", []string{"role-many"}, 11, false, false, ViolationBatchLimit},
		{"negative over limit denied", []string{"role-negative"}, -11, false, false, ViolationBatchLimit},
		{"unlimited role bypasses the limit", []string{"role-unlimited"}, 100, false, true, ViolationNone},
		{"at the limit allowed with bulk role", []string{"role-many"}, 10, false, true, ViolationNone},
		{"bulk role does not cover negative", []string{"role-many"}, -2, false, false, ViolationNegativeRole},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := Authorize(c.roles, c.delta, c.self, cfg)
			if d.Allowed != c.allowed {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, c.allowed)
			}
			if d.Violation != c.violation {
				t.Fatalf("Violation = %q, want %q", d.Violation, c.violation)
			}
		})
	}
}

func TestAuthorizeUnconfiguredRoleNeverMatches(t *testing.T) {
	cfg := permConfig()
	cfg.RoleGiveMany = ""

	// Пустой ID роли в конфиге не должен совпадать с пустой ролью участника
	d := Authorize([]string{""}, 2, false, cfg)
	if d.Allowed {
		t.Fatal("empty configured role must never grant permission")
	}
	if d.Violation != ViolationBulkRole {
		t.Fatalf("Violation = %q, want %q", d.Violation, ViolationBulkRole)
	}
}

func TestViolationMessage(t *testing.T) {
	cfg := permConfig()

	for code, fragment := range map[ViolationCode]string{
		ViolationSelfGrant:    "yourself",
		ViolationBatchLimit:   "more than 10",
		ViolationBulkRole:     "multiple",
		ViolationNegativeRole: "negative",
	} {
		msg := ViolationMessage(code, cfg)
		if !strings.Contains(msg, fragment) {
			t.Errorf("ViolationMessage(%q) = %q, expected to contain %q", code, msg, fragment)
		}
		if !strings.Contains(msg, "points") {
			t.Errorf("ViolationMessage(%q) = %q, expected the configured points name", code, msg)
		}
	}

	if msg := ViolationMessage(ViolationNone, cfg); msg != "" {
		t.Errorf("ViolationMessage(none) = %q, want empty", msg)
	}
}
