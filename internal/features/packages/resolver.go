// Package packages — resolver.go опрашивает каталоги и манифесты.
// Чистый fetch-and-normalize: никакого состояния, каждая ошибка источника
// превращается в тег на Info, а не в отказ всего запроса.
package packages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/config"
)

// Resolver запрашивает метаданные пакетов.
type Resolver struct {
	client     *http.Client
	bazaarBase string
	hubBase    string
}

// NewResolver создаёт резолвер с базовыми URL из конфига.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		client:     &http.Client{Timeout: 10 * time.Second},
		bazaarBase: cfg.BazaarBaseURL,
		hubBase:    cfg.FoundryHubBaseURL,
	}
}

// Resolve опрашивает оба каталога параллельно и сводит ответы в Info.
// Отказ одного каталога даёт тег ошибки, данные берутся из второго.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Info, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя пакета")
	}

	var (
		wg        sync.WaitGroup
		bazaar    *bazaarResponse
		bazaarErr error
		hub       *hubPackage
		hubErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bazaar, bazaarErr = r.fetchBazaar(ctx, name)
	}()
	go func() {
		defer wg.Done()
		hub, hubErr = r.fetchFoundryHub(ctx, name)
	}()
	wg.Wait()

	info := &Info{Name: name}

	if bazaarErr != nil {
		log.WithError(bazaarErr).WithField("package", name).Warn("Bazaar недоступен")
		info.Errors = append(info.Errors, ErrTagBazaar)
	} else {
		applyBazaar(info, bazaar)
	}

	if hubErr != nil {
		log.WithError(hubErr).WithField("package", name).Warn("Foundry Hub недоступен")
		info.Errors = append(info.Errors, ErrTagFoundryHub)
	} else {
		info.Endorsements = hub.Endorsements
		info.Comments = hub.Comments
		if info.ProjectURL == "" {
			info.ProjectURL = hub.URL
		}
	}

	if bazaar != nil && bazaar.Manifest != nil {
		if !validateManifest(bazaar.Manifest, info.Type) {
			info.Errors = append(info.Errors, ErrTagManifestValidation)
		}
	}

	return info, nil
}

// ResolveManifest загружает пакет по прямому URL манифеста,
// минуя каталоги (self-hosted пакеты).
func (r *Resolver) ResolveManifest(ctx context.Context, name, manifestURL string) (*Info, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя пакета")
	}

	info := &Info{Name: name, FromManifest: true}

	manifest, err := r.fetchManifest(ctx, manifestURL)
	if err != nil {
		log.WithError(err).WithField("url", manifestURL).Warn("Манифест недоступен")
		info.Errors = append(info.Errors, ErrTagManifest)
		return info, nil
	}

	// Имя в манифесте обязано совпадать с запрошенным
	if manifest.PackageName() != name {
		log.WithFields(log.Fields{
			"requested": name,
			"manifest":  manifest.PackageName(),
		}).Warn("Имя пакета в манифесте не совпадает")
		info.Errors = append(info.Errors, ErrTagManifest)
		return info, nil
	}

	applyManifest(info, manifest)

	// Тип из манифеста неизвестен — проверяем универсальные поля
	if !validateManifest(manifest, "module") {
		info.Errors = append(info.Errors, ErrTagManifestValidation)
	}

	return info, nil
}

// applyBazaar переносит данные Bazaar в нормализованную модель.
func applyBazaar(info *Info, resp *bazaarResponse) {
	if resp.Package != nil {
		info.Type = resp.Package.Type
		info.Title = resp.Package.Title
		info.Description = resp.Package.Description
		info.Author = resp.Package.Author
		info.Installs = resp.Package.Installs
	}
	if resp.Manifest != nil {
		applyManifest(info, resp.Manifest)
	}
}

// applyManifest дополняет модель полями манифеста (не перетирая каталожные).
func applyManifest(info *Info, m *Manifest) {
	if info.Title == "" {
		info.Title = m.Title
	}
	if info.Description == "" {
		info.Description = m.Description
	}
	if info.Author == "" {
		info.Author = m.AuthorName()
	}
	info.Version = m.Version
	info.ManifestURL = m.Manifest
	info.DownloadURL = m.Download
	if info.ProjectURL == "" {
		info.ProjectURL = m.URL
	}
}

// validateManifest — структурная проверка манифеста по типу пакета.
// Для world валидатора нет (как и в каталоге), неизвестный тип не проходит.
func validateManifest(m *Manifest, typ string) bool {
	switch typ {
	case "system", "module":
		return m.PackageName() != "" && m.Title != "" && m.Manifest != "" && m.Download != ""
	case "world":
		return true
	default:
		return false
	}
}

func (r *Resolver) fetchBazaar(ctx context.Context, name string) (*bazaarResponse, error) {
	url := fmt.Sprintf("%s/api/bazaar/package/%s?manifest=1", r.bazaarBase, name)
	var resp bazaarResponse
	if err := r.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Package == nil || resp.Manifest == nil {
		return nil, fmt.Errorf("пакет %q не найден в Bazaar", name)
	}
	return &resp, nil
}

func (r *Resolver) fetchFoundryHub(ctx context.Context, name string) (*hubPackage, error) {
	url := fmt.Sprintf("%s/wp-json/hubapi/v1/package/%s", r.hubBase, name)
	var resp hubPackage
	if err := r.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *Resolver) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	var m Manifest
	if err := r.getJSON(ctx, url, &m); err != nil {
		return nil, err
	}
	if m.PackageName() == "" {
		return nil, fmt.Errorf("манифест без имени пакета: %s", url)
	}
	return &m, nil
}

// getJSON выполняет GET и декодирует ответ. Любой статус кроме 200 — ошибка.
func (r *Resolver) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("неожиданный статус %d от %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s: %w", url, err)
	}
	return nil
}
