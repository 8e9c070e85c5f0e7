package reputation

import (
	"strings"
	"testing"
)

func TestBuildGrantResponseSinglePoint(t *testing.T) {
	cfg := testConfig()
	score := &ScoreRecord{UserID: "2", Score: 5, Rank: 1}

	text := BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2", Score: score}},
		Amount:     1,
	}, cfg)

	want := "<@!1> gave **<:plusone:42>** points to <@!2> (**#1** • 5)"
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
}

func TestBuildGrantResponseSignedAmounts(t *testing.T) {
	cfg := testConfig()

	text := BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2"}},
		Amount:     3,
	}, cfg)
	if !strings.Contains(text, "**+3**") {
		t.Errorf("positive amount: %q, want +3 in bold", text)
	}

	text = BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2"}},
		Amount:     -2,
	}, cfg)
	if !strings.Contains(text, "**-2**") {
		t.Errorf("negative amount: %q, want -2 in bold", text)
	}
}

func TestBuildGrantResponseRecipientList(t *testing.T) {
	cfg := testConfig()

	two := BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2"}, {UserID: "3"}},
		Amount:     2,
	}, cfg)
	if !strings.Contains(two, "<@!2> and <@!3>") {
		t.Errorf("two recipients: %q, want 'and' join", two)
	}

	three := BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2"}, {UserID: "3"}, {UserID: "4"}},
		Amount:     3,
	}, cfg)
	if !strings.Contains(three, "<@!2>, <@!3>, and <@!4>") {
		t.Errorf("three recipients: %q, want oxford-comma join", three)
	}
}

func TestBuildGrantResponseReasonAndSystemSender(t *testing.T) {
	cfg := testConfig()

	text := BuildGrantResponse(GrantResponse{
		SenderID:   "1",
		Recipients: []Recipient{{UserID: "2"}},
		Amount:     2,
		Reason:     "for helping out",
	}, cfg)
	if !strings.HasSuffix(text, "for helping out") {
		t.Errorf("reason: %q, want trailing reason", text)
	}

	// Без отправителя — системное начисление
	text = BuildGrantResponse(GrantResponse{
		Recipients: []Recipient{{UserID: "2"}},
		Amount:     1,
	}, cfg)
	if !strings.HasPrefix(text, "Gave ") {
		t.Errorf("system grant: %q, want 'Gave' prefix", text)
	}
}

func TestBuildCheckResponse(t *testing.T) {
	cfg := testConfig()

	text := BuildCheckResponse("123", ScoreRecord{UserID: "123", Score: 5, Rank: 2}, cfg)
	want := "<@!123>: **5** points (#**2**)"
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
}

func TestBuildScoreboardTable(t *testing.T) {
	rows := []ScoreRecord{
		{UserID: "1", Score: 120, Rank: 1, DisplayTag: "alice#0001"},
		{UserID: "2", Score: 7, Rank: 2, DisplayTag: "bob#0002"},
		{UserID: "3", Score: 7, Rank: 2},
	}

	table := BuildScoreboardTable(rows)
	lines := strings.Split(table, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	if !strings.Contains(lines[0], "Rank") || !strings.Contains(lines[0], "Points") {
		t.Errorf("header = %q, want column titles", lines[0])
	}
	if !strings.Contains(lines[1], "#1") || !strings.Contains(lines[1], "120") || !strings.Contains(lines[1], "alice#0001") {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Без тега показывается ID пользователя
	if !strings.Contains(lines[3], "#2") || !strings.HasSuffix(lines[3], "3") {
		t.Errorf("row 3 = %q, want user ID as fallback tag", lines[3])
	}

	// Колонки выровнены: разделители в одной позиции на всех строках
	sep := strings.Index(lines[0], "|")
	for i, line := range lines {
		if strings.Index(line, "|") != sep {
			t.Errorf("line %d separator misaligned: %q", i, line)
		}
	}
}

func TestBuildScoreboardTableEmpty(t *testing.T) {
	if got := BuildScoreboardTable(nil); got != "No scores yet." {
		t.Fatalf("empty table = %q", got)
	}
}
