package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"artfolio/internal/domain/dto"
	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/mapper"
	"artfolio/internal/domain/repositories"
	"artfolio/internal/forms"
	"artfolio/internal/infrastructure/processor"
	"artfolio/pkg/constants"
	apperrors "artfolio/pkg/errors"
	"artfolio/pkg/file"
	"artfolio/pkg/helper"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// cascadeLimit bounds concurrent per-work deletions during a portfolio delete.
const cascadeLimit = 8

// DeleteReport describes a portfolio deletion. Warnings lists image objects
// that could not be removed; they do not stop the deletion.
type DeleteReport struct {
	PortfolioID  string
	WorksDeleted int
	Warnings     []string
}

// PortfolioManager runs work CRUD for one portfolio and keeps a local list of
// its works in step with successful writes.
type PortfolioManager struct {
	id        string
	deps      Deps
	onDeleted func(id string)

	mu         sync.RWMutex
	loaded     bool
	parameters []string
	items      []dto.Work
}

func NewPortfolioManager(portfolioID string, deps Deps, onDeleted func(id string)) *PortfolioManager {
	return &PortfolioManager{
		id:        portfolioID,
		deps:      deps,
		onDeleted: onDeleted,
	}
}

func (m *PortfolioManager) PortfolioID() string { return m.id }

// LoadSchemaAndWorks reads the portfolio's parameters and all its works, and
// replaces the local list with the works projected onto those parameters.
func (m *PortfolioManager) LoadSchemaAndWorks(ctx context.Context) error {
	p, err := m.deps.Portfolios.GetPortfolio(ctx, m.id)
	if err != nil {
		return lookupError("portfolio", err)
	}
	works, err := m.deps.Works.ListWorks(ctx, m.id)
	if err != nil {
		return apperrors.ErrDatabase(err)
	}

	params := p.ParameterList()
	m.mu.Lock()
	m.parameters = append([]string(nil), params...)
	m.items = mapper.ProjectWorks(works, params)
	m.loaded = true
	m.mu.Unlock()
	return nil
}

func (m *PortfolioManager) ensureLoaded(ctx context.Context) error {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if loaded {
		return nil
	}
	return m.LoadSchemaAndWorks(ctx)
}

func (m *PortfolioManager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

func (m *PortfolioManager) Parameters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.parameters...)
}

// Works returns a copy of the local list.
func (m *PortfolioManager) Works() []dto.Work {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]dto.Work, len(m.items))
	for i, w := range m.items {
		out[i] = copyWork(w)
	}
	return out
}

// NewWorkDialog returns a work form bound to this portfolio's parameters.
func (m *PortfolioManager) NewWorkDialog(ctx context.Context) (*forms.WorkDialog, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return forms.NewWorkDialog(m.Parameters()), nil
}

// AddWork stores a new work: both image variants are compressed and uploaded
// under the portfolio folder, then the document is written keyed by title.
func (m *PortfolioManager) AddWork(ctx context.Context, fields map[string]string, image *forms.Upload) (*dto.Work, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	params := m.Parameters()

	errs := validateFields(params, fields)
	if image == nil {
		errs[forms.ImageField] = "Please select an image file"
	}
	if len(errs) > 0 {
		return nil, apperrors.ErrValidation(errs)
	}

	workID := strings.TrimSpace(fields[constants.TitleParameter])
	if workID == "" {
		return nil, apperrors.ErrValidation(map[string]string{constants.TitleParameter: "Title is required"})
	}
	if msg := forms.InvalidWorkTitle(workID); msg != "" {
		return nil, apperrors.ErrValidation(map[string]string{constants.TitleParameter: msg})
	}
	if _, err := m.deps.Works.GetWork(ctx, m.id, workID); err == nil {
		return nil, apperrors.ErrConflict("work "+workID, nil)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, apperrors.ErrDatabase(err)
	}

	imageURL, thumbURL, err := m.uploadVariants(ctx, image)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]string, len(params))
	for _, p := range params {
		stored[p] = strings.TrimSpace(fields[p])
	}
	work := &entities.Work{
		PortfolioID:  m.id,
		ID:           workID,
		ImageURL:     imageURL,
		ThumbnailURL: thumbURL,
		Fields:       datatypes.NewJSONType(stored),
	}
	if err := m.deps.Works.CreateWork(ctx, work); err != nil {
		discard(ctx, m.deps, imageURL, thumbURL)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.ErrConflict("work "+workID, err)
		}
		return nil, apperrors.ErrDatabase(err)
	}

	added := mapper.ProjectWork(work, params)
	m.mu.Lock()
	m.items = append(m.items, added)
	m.mu.Unlock()

	m.deps.Log.Info("work added", zap.String("portfolio", m.id), zap.String("work", workID))
	return &added, nil
}

// uploadVariants compresses the image into the main and thumbnail variants and
// uploads both. If either upload fails the other one is discarded.
func (m *PortfolioManager) uploadVariants(ctx context.Context, image *forms.Upload) (string, string, error) {
	var full, thumb []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		full, err = m.deps.Compressor.Compress(image.Data, processor.QualityGood)
		return err
	})
	g.Go(func() error {
		var err error
		thumb, err = m.deps.Compressor.Compress(image.Data, processor.QualityLow)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", apperrors.ErrInvalidImage(err)
	}

	imageKey, thumbKey := file.WorkKeys(m.id)
	var imageURL, thumbURL string
	var ug errgroup.Group
	ug.Go(func() error {
		var err error
		imageURL, err = m.deps.Storage.Upload(ctx, imageKey, bytes.NewReader(full), "image/jpeg")
		return err
	})
	ug.Go(func() error {
		var err error
		thumbURL, err = m.deps.Storage.Upload(ctx, thumbKey, bytes.NewReader(thumb), "image/jpeg")
		return err
	})
	if err := ug.Wait(); err != nil {
		discard(ctx, m.deps, imageURL, thumbURL)
		return "", "", apperrors.ErrStorage(err)
	}
	return imageURL, thumbURL, nil
}

// EditWork merges the submitted declared fields into the stored work. Keys
// that are not declared parameters are ignored and the images never change.
func (m *PortfolioManager) EditWork(ctx context.Context, workID string, fields map[string]string) (*dto.Work, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	params := m.Parameters()

	existing, err := m.deps.Works.GetWork(ctx, m.id, workID)
	if err != nil {
		return nil, lookupError("work "+workID, err)
	}

	current := existing.FieldMap()
	updates := make(map[string]string)
	merged := make(map[string]string, len(params))
	for _, p := range params {
		merged[p] = current[p]
		if v, ok := fields[p]; ok {
			updates[p] = strings.TrimSpace(v)
			merged[p] = v
		}
	}
	if errs := validateFields(params, merged); len(errs) > 0 {
		return nil, apperrors.ErrValidation(errs)
	}
	if len(updates) == 0 {
		w := mapper.ProjectWork(existing, params)
		return &w, nil
	}

	updated, err := m.deps.Works.UpdateWorkFields(ctx, m.id, workID, updates)
	if err != nil {
		return nil, lookupError("work "+workID, err)
	}

	edited := mapper.ProjectWork(updated, params)
	m.mu.Lock()
	replaced := false
	for i := range m.items {
		if m.items[i].ID == workID {
			m.items[i] = edited
			replaced = true
			break
		}
	}
	if !replaced {
		m.items = append(m.items, edited)
	}
	m.mu.Unlock()
	return &edited, nil
}

// DeleteWork removes the work's image and thumbnail, then its document. A
// storage failure other than a missing object stops before the document is
// touched so the delete can be retried.
func (m *PortfolioManager) DeleteWork(ctx context.Context, workID string) error {
	work, err := m.deps.Works.GetWork(ctx, m.id, workID)
	if err != nil {
		return lookupError("work "+workID, err)
	}
	if err := m.deleteImages(ctx, work); err != nil {
		return apperrors.ErrStorage(err)
	}
	if err := m.deps.Works.DeleteWork(ctx, m.id, workID); err != nil {
		return lookupError("work "+workID, err)
	}
	m.removeLocal(workID)
	m.deps.Log.Info("work deleted", zap.String("portfolio", m.id), zap.String("work", workID))
	return nil
}

func (m *PortfolioManager) deleteImages(ctx context.Context, w *entities.Work) error {
	return multierr.Append(
		deleteObject(ctx, m.deps, w.ImageURL),
		deleteObject(ctx, m.deps, w.ThumbnailURL),
	)
}

// DeletePortfolio deletes every work (images then document) concurrently and
// waits for all of them. Image failures become warnings. If any work document
// could not be deleted the portfolio record is kept and the combined error is
// returned; otherwise the cover and the portfolio record are deleted and the
// parent is notified.
func (m *PortfolioManager) DeletePortfolio(ctx context.Context) (*DeleteReport, error) {
	p, err := m.deps.Portfolios.GetPortfolio(ctx, m.id)
	if err != nil {
		return nil, lookupError("portfolio", err)
	}
	works, err := m.deps.Works.ListWorks(ctx, m.id)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	report := &DeleteReport{PortfolioID: m.id}
	var (
		mu      sync.Mutex
		docErrs error
	)
	var g errgroup.Group
	g.SetLimit(cascadeLimit)
	for i := range works {
		w := works[i]
		g.Go(func() error {
			imgErr := m.deleteImages(ctx, &w)
			docErr := m.deps.Works.DeleteWork(ctx, m.id, w.ID)
			if errors.Is(docErr, repositories.ErrRecordNotFound) {
				docErr = nil
			}

			mu.Lock()
			defer mu.Unlock()
			if imgErr != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("images of %s: %v", w.ID, imgErr))
			}
			if docErr != nil {
				docErrs = multierr.Append(docErrs, fmt.Errorf("work %s: %w", w.ID, docErr))
				return nil
			}
			if imgErr != nil {
				requeue(ctx, m.deps, w.ImageURL, w.ThumbnailURL)
			}
			report.WorksDeleted++
			m.removeLocal(w.ID)
			return nil
		})
	}
	_ = g.Wait()

	if docErrs != nil {
		m.deps.Log.Error("portfolio delete incomplete",
			zap.String("portfolio", m.id),
			zap.Int("works_deleted", report.WorksDeleted),
			zap.Error(docErrs))
		return report, apperrors.ErrPartial(docErrs)
	}

	if err := deleteObject(ctx, m.deps, p.CoverImageURL); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("cover image: %v", err))
		requeue(ctx, m.deps, p.CoverImageURL)
	}
	if err := m.deps.Portfolios.DeletePortfolio(ctx, m.id); err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return report, apperrors.ErrDatabase(err)
	}

	m.mu.Lock()
	m.items = nil
	m.loaded = false
	m.mu.Unlock()

	for _, w := range report.Warnings {
		m.deps.Log.Warn("portfolio delete warning", zap.String("portfolio", m.id), zap.String("warning", w))
	}
	m.deps.Log.Info("portfolio deleted", zap.String("portfolio", m.id), zap.Int("works_deleted", report.WorksDeleted))
	if m.onDeleted != nil {
		m.onDeleted(m.id)
	}
	return report, nil
}

func (m *PortfolioManager) removeLocal(workID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == workID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return
		}
	}
}

// validateFields reports every declared parameter whose value is blank.
func validateFields(params []string, fields map[string]string) map[string]string {
	errs := map[string]string{}
	for _, p := range params {
		if strings.TrimSpace(fields[p]) == "" {
			errs[p] = helper.Capitalize(p) + " is required"
		}
	}
	return errs
}

func lookupError(what string, err error) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return apperrors.ErrNotFound(what, err)
	}
	return apperrors.ErrDatabase(err)
}

func copyWork(w dto.Work) dto.Work {
	fields := make(map[string]string, len(w.Fields))
	for k, v := range w.Fields {
		fields[k] = v
	}
	w.Fields = fields
	return w
}
