package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"charter_sync/internal/domain"
	"charter_sync/internal/modelspec"
)

// modelIndex is the model catalogue loaded once per run.
type modelIndex struct {
	list []domain.YachtModel
	byID map[int64]int
}

func (s *SyncService) loadModels(ctx context.Context) (modelIndex, error) {
	models, err := loadAll[domain.YachtModel](ctx, s.store, domain.YachtModels, domain.FindQuery{Sort: "id"})
	if err != nil {
		return modelIndex{}, err
	}
	idx := modelIndex{list: models, byID: make(map[int64]int, len(models))}
	for i, m := range models {
		idx.byID[m.ID] = i
	}
	return idx, nil
}

func (idx modelIndex) get(id *int64) (domain.YachtModel, bool) {
	if id == nil {
		return domain.YachtModel{}, false
	}
	i, ok := idx.byID[*id]
	if !ok {
		return domain.YachtModel{}, false
	}
	return idx.list[i], true
}

// link resolves the yacht's model (explicit id first, then an earlier
// inference, then the matcher) and back-fills unset specs from it. It reports
// whether the yacht changed.
func (idx modelIndex) link(y *domain.Yacht) bool {
	m, ok := idx.get(y.ModelID)
	if !ok {
		m, ok = idx.get(y.InferredModelID)
	}
	changed := false
	if !ok {
		var score int
		m, score, ok = modelspec.Best(*y, idx.list)
		if !ok {
			return false
		}
		id := m.ID
		y.InferredModelID = &id
		changed = true
		log.Debug().Int64("yacht", y.ID).Int64("model", m.ID).Int("score", score).Msg("model inferred")
	}
	if y.BuilderID == nil && m.BuilderID != nil {
		y.BuilderID = m.BuilderID
		changed = true
	}
	if y.CategoryID == nil && m.CategoryID != nil {
		y.CategoryID = m.CategoryID
		changed = true
	}
	if filled := modelspec.Backfill(y, m); len(filled) > 0 {
		changed = true
	}
	return changed
}

// SyncYachts pulls every charter company's fleet, links models and upserts
// each yacht, then runs the model back-fill pass over the whole store.
func (s *SyncService) SyncYachts(ctx context.Context) DomainResult {
	return s.run(ctx, DomainYachts, func(ctx context.Context, res *DomainResult) error {
		companies, err := s.companyIDs(ctx)
		if err != nil {
			return err
		}
		models, err := s.loadModels(ctx)
		if err != nil {
			return err
		}

		var f fanout
		for _, cid := range companies {
			listing, err := s.up.Yachts(ctx, cid)
			if err != nil {
				if ferr := f.fail(res, fmt.Sprintf("company %d", cid), err); ferr != nil {
					return ferr
				}
				continue
			}
			f.ok++
			for _, y := range listing.Yachts {
				res.Fetched++
				if listing.Summaries {
					if y.ID == 0 {
						res.Skipped++
						log.Warn().Int64("company", cid).Msg("yacht summary without id")
						continue
					}
					full, err := s.up.Yacht(ctx, y.ID)
					if err != nil {
						if ferr := f.fail(res, fmt.Sprintf("yacht %d", y.ID), err); ferr != nil {
							return ferr
						}
						continue
					}
					if full.CompanyID == nil {
						full.CompanyID = y.CompanyID
					}
					y = full
				}
				models.link(&y)
				if s.put(ctx, res, domain.Yachts, &y) {
					s.invalidateYacht(ctx, y.ID)
				}
			}
		}
		if err := f.err(); err != nil {
			return err
		}

		n, err := s.applyModelSpecs(ctx, models)
		if err != nil {
			return fmt.Errorf("model back-fill: %w", err)
		}
		log.Info().Int("backfilled", n).Msg("model specs applied")
		return nil
	})
}

// ApplyModelSpecsToYachts back-fills specs on stored yachts that still lack
// them. It is idempotent and safe to run on its own.
func (s *SyncService) ApplyModelSpecsToYachts(ctx context.Context) DomainResult {
	return s.run(ctx, DomainModelSpecs, func(ctx context.Context, res *DomainResult) error {
		models, err := s.loadModels(ctx)
		if err != nil {
			return err
		}
		n, err := s.applyModelSpecs(ctx, models)
		res.Upserted = n
		return err
	})
}

func (s *SyncService) applyModelSpecs(ctx context.Context, models modelIndex) (int, error) {
	if len(models.list) == 0 {
		return 0, nil
	}
	yachts, err := loadAll[domain.Yacht](ctx, s.store, domain.Yachts, domain.FindQuery{})
	if err != nil {
		return 0, err
	}
	updated := 0
	var errs []error
	for i := range yachts {
		y := &yachts[i]
		if !modelspec.MissingSpecs(*y) {
			continue
		}
		if !models.link(y) {
			continue
		}
		y.Touch(s.now())
		if err := s.store.Upsert(ctx, domain.Yachts, y.DocKey(), y); err != nil {
			errs = append(errs, fmt.Errorf("yacht %d: %w", y.ID, err))
			continue
		}
		s.invalidateYacht(ctx, y.ID)
		updated++
	}
	return updated, errors.Join(errs...)
}
