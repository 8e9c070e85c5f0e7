// Package reputation — paginator.go нарезает рейтинг на страницы
// и описывает кнопки навигации.
package reputation

import "context"

// Page — одна страница таблицы лидеров.
type Page struct {
	Rows    []ScoreRecord
	Number  int
	Size    int
	MaxPage int
	HasPrev bool
	HasNext bool
}

// NavKind — тип кнопки навигации.
type NavKind string

const (
	NavPrev    NavKind = "prev"
	NavRefresh NavKind = "refresh"
	NavNext    NavKind = "next"
)

// NavButton — чистый дескриптор кнопки: слой Discord переводит его
// в message component, домен про компоненты ничего не знает.
type NavButton struct {
	Kind       NavKind
	Label      string
	TargetPage int
	Disabled   bool
}

// RenderPage возвращает страницу рейтинга.
// Последняя страница вычисляется из фактического числа участников
// (ceil(count/size)), а не из константы. Номер страницы за пределами
// диапазона прижимается к границе.
func (s *Service) RenderPage(ctx context.Context, number, size int) (Page, error) {
	if size <= 0 {
		size = s.cfg.ScoreboardPageSize
	}

	total, err := s.store.CountRanked(ctx)
	if err != nil {
		return Page{}, err
	}

	maxPage := int((total + int64(size) - 1) / int64(size))
	if maxPage < 1 {
		maxPage = 1
	}

	if number < 1 {
		number = 1
	}
	if number > maxPage {
		number = maxPage
	}

	rows, err := s.store.PageScores(ctx, (number-1)*size, size)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Rows:    rows,
		Number:  number,
		Size:    size,
		MaxPage: maxPage,
		HasPrev: number > 1,
		HasNext: number < maxPage,
	}, nil
}

// NavButtons возвращает кнопки навигации для страницы:
// назад (неактивна на первой), обновить, вперёд (неактивна на последней).
func (p Page) NavButtons() []NavButton {
	return []NavButton{
		{Kind: NavPrev, Label: "◀", TargetPage: p.Number - 1, Disabled: !p.HasPrev},
		{Kind: NavRefresh, Label: "⟳", TargetPage: p.Number},
		{Kind: NavNext, Label: "▶", TargetPage: p.Number + 1, Disabled: !p.HasNext},
	}
}
