package reputation

import (
	"context"
	"fmt"
	"testing"
)

// seedScores наполняет журнал: пользователь u01 получает n очков,
// u02 — n-1 и так далее, чтобы ранги были предсказуемы.
func seedScores(t *testing.T, svc *Service, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		req := GrantRequest{
			RecipientID: fmt.Sprintf("u%02d", i+1),
			Delta:       n - i,
			GiverID:     "seed",
			Trigger:     TriggerCommand,
		}
		if _, err := svc.GiveRep(ctx, req); err != nil {
			t.Fatalf("seed grant: %v", err)
		}
	}
}

func TestRenderPageFirstAndLast(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemory(), testConfig())
	seedScores(t, svc, 12)

	page, err := svc.RenderPage(ctx, 1, 10)
	if err != nil {
		t.Fatalf("RenderPage(1): %v", err)
	}
	if len(page.Rows) != 10 {
		t.Fatalf("page 1 rows = %d, want 10", len(page.Rows))
	}
	if page.Rows[0].Rank != 1 || page.Rows[0].UserID != "u01" {
		t.Fatalf("page 1 starts with %+v, want rank 1 u01", page.Rows[0])
	}
	if page.MaxPage != 2 {
		t.Fatalf("MaxPage = %d, want 2 (12 участников по 10 на страницу)", page.MaxPage)
	}
	if page.HasPrev || !page.HasNext {
		t.Fatalf("page 1 nav: HasPrev=%v HasNext=%v, want false/true", page.HasPrev, page.HasNext)
	}

	page, err = svc.RenderPage(ctx, 2, 10)
	if err != nil {
		t.Fatalf("RenderPage(2): %v", err)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("page 2 rows = %d, want 2", len(page.Rows))
	}
	if page.Rows[0].Rank != 11 {
		t.Fatalf("page 2 starts with rank %d, want 11", page.Rows[0].Rank)
	}
	if !page.HasPrev || page.HasNext {
		t.Fatalf("page 2 nav: HasPrev=%v HasNext=%v, want true/false", page.HasPrev, page.HasNext)
	}
}

func TestRenderPageClampsOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemory(), testConfig())
	seedScores(t, svc, 12)

	page, err := svc.RenderPage(ctx, 99, 10)
	if err != nil {
		t.Fatalf("RenderPage(99): %v", err)
	}
	if page.Number != 2 {
		t.Fatalf("Number = %d, want clamped to 2", page.Number)
	}

	page, err = svc.RenderPage(ctx, 0, 10)
	if err != nil {
		t.Fatalf("RenderPage(0): %v", err)
	}
	if page.Number != 1 {
		t.Fatalf("Number = %d, want clamped to 1", page.Number)
	}
}

func TestRenderPageEmptyBoard(t *testing.T) {
	svc := NewService(NewInMemory(), testConfig())

	page, err := svc.RenderPage(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if len(page.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(page.Rows))
	}
	if page.MaxPage != 1 || page.Number != 1 {
		t.Fatalf("empty board: Number=%d MaxPage=%d, want 1/1", page.Number, page.MaxPage)
	}
	if page.HasPrev || page.HasNext {
		t.Fatal("empty board must have no navigation")
	}
}

func TestRenderPageDefaultSize(t *testing.T) {
	svc := NewService(NewInMemory(), testConfig())
	seedScores(t, svc, 3)

	page, err := svc.RenderPage(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if page.Size != 10 {
		t.Fatalf("Size = %d, want configured default 10", page.Size)
	}
}

func TestNavButtons(t *testing.T) {
	first := Page{Number: 1, MaxPage: 3, HasNext: true}
	buttons := first.NavButtons()
	if len(buttons) != 3 {
		t.Fatalf("buttons = %d, want 3", len(buttons))
	}
	if buttons[0].Kind != NavPrev || !buttons[0].Disabled {
		t.Errorf("prev on first page: %+v, want disabled", buttons[0])
	}
	if buttons[1].Kind != NavRefresh || buttons[1].Disabled || buttons[1].TargetPage != 1 {
		t.Errorf("refresh: %+v, want enabled with target 1", buttons[1])
	}
	if buttons[2].Kind != NavNext || buttons[2].Disabled || buttons[2].TargetPage != 2 {
		t.Errorf("next on first page: %+v, want enabled with target 2", buttons[2])
	}

	last := Page{Number: 3, MaxPage: 3, HasPrev: true}
	buttons = last.NavButtons()
	if buttons[0].Disabled || buttons[0].TargetPage != 2 {
		t.Errorf("prev on last page: %+v, want enabled with target 2", buttons[0])
	}
	if !buttons[2].Disabled {
		t.Errorf("next on last page: %+v, want disabled", buttons[2])
	}
}
