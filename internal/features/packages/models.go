// Package packages резолвит метаданные пакетов Foundry VTT.
// models.go описывает нормализованную модель чтения и структуры ответов
// каталогов: Bazaar и Foundry Hub отдают разные формы, манифест — третью;
// всё сводится к одной структуре Info.
package packages

import "slices"

// Теги ошибок по источникам. Отказ одного каталога не роняет резолв
// целиком — он записывается тегом, решение о сообщении пользователю
// принимает обработчик.
const (
	ErrTagBazaar             = "bazaar"
	ErrTagFoundryHub         = "fhub"
	ErrTagManifest           = "manifest"
	ErrTagManifestValidation = "manifest-validation"
)

// Info — нормализованная модель пакета, собранная из каталогов
// или из манифеста. Состояния нет: живёт один запрос.
type Info struct {
	Name         string
	Title        string
	Description  string
	Author       string
	Version      string
	Type         string // system | module | world
	ManifestURL  string
	DownloadURL  string
	ProjectURL   string
	Installs     float64 // процент установок (Bazaar)
	Endorsements int     // Foundry Hub
	Comments     int     // Foundry Hub

	// FromManifest — пакет загружен по прямому URL манифеста,
	// каталоги не опрашивались.
	FromManifest bool

	// Errors — теги источников, которые не удалось опросить.
	Errors []string
}

// HasError сообщает, помечен ли источник тегом ошибки.
func (i *Info) HasError(tag string) bool {
	return slices.Contains(i.Errors, tag)
}

// ManifestInvalid — манифест не прошёл структурную проверку.
func (i *Info) ManifestInvalid() bool { return i.HasError(ErrTagManifestValidation) }

// BadData — данных недостаточно, чтобы показать пакет:
// для манифестного пакета это ошибка загрузки или валидации,
// для каталожного — отказ обоих каталогов.
func (i *Info) BadData() bool {
	if i.FromManifest {
		return i.HasError(ErrTagManifest) || i.ManifestInvalid()
	}
	return i.HasError(ErrTagBazaar) && i.HasError(ErrTagFoundryHub)
}

// Manifest — манифест пакета (module.json / system.json).
type Manifest struct {
	Name        string           `json:"name"`
	ID          string           `json:"id"` // современные манифесты используют id вместо name
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Version     string           `json:"version"`
	Author      string           `json:"author"`
	Authors     []ManifestAuthor `json:"authors"`
	Manifest    string           `json:"manifest"`
	Download    string           `json:"download"`
	URL         string           `json:"url"`
}

// ManifestAuthor — автор в современном формате манифеста.
type ManifestAuthor struct {
	Name string `json:"name"`
}

// PackageName возвращает имя пакета: name в старом формате, id в новом.
func (m *Manifest) PackageName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// AuthorName возвращает имя автора независимо от формата манифеста.
func (m *Manifest) AuthorName() string {
	if m.Author != "" {
		return m.Author
	}
	if len(m.Authors) > 0 {
		return m.Authors[0].Name
	}
	return ""
}

// bazaarResponse — ответ The Bazaar (forge-vtt.com).
type bazaarResponse struct {
	Package  *bazaarPackage `json:"package"`
	Manifest *Manifest      `json:"manifest"`
}

type bazaarPackage struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	Installs    float64 `json:"installs"`
}

// hubPackage — ответ Foundry Hub.
type hubPackage struct {
	Name         string `json:"name"`
	Endorsements int    `json:"endorsements"`
	Comments     int    `json:"comments"`
	URL          string `json:"url"`
}
