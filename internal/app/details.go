package app

import (
	"context"
	"fmt"

	"charter_sync/internal/domain"
)

// equipmentNames maps equipment ids to their catalogue names.
func (s *SyncService) equipmentNames(ctx context.Context) (map[int64]domain.MultilingualText, error) {
	items, err := loadAll[domain.Equipment](ctx, s.store, domain.EquipmentItems, domain.FindQuery{})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.MultilingualText, len(items))
	for _, e := range items {
		out[e.ID] = e.Name
	}
	return out, nil
}

func (s *SyncService) serviceNames(ctx context.Context) (map[int64]domain.MultilingualText, error) {
	items, err := loadAll[domain.Service](ctx, s.store, domain.Services, domain.FindQuery{})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.MultilingualText, len(items))
	for _, e := range items {
		out[e.ID] = e.Name
	}
	return out, nil
}

// SyncYachtEquipment stores one record per (yacht, equipment) taken from the
// stored yachts, with the catalogue name resolved.
func (s *SyncService) SyncYachtEquipment(ctx context.Context) DomainResult {
	return s.run(ctx, DomainYachtEquipment, func(ctx context.Context, res *DomainResult) error {
		names, err := s.equipmentNames(ctx)
		if err != nil {
			return err
		}
		yachts, err := loadAll[domain.Yacht](ctx, s.store, domain.Yachts, domain.FindQuery{Sort: "id"})
		if err != nil {
			return err
		}
		for _, y := range yachts {
			for _, e := range y.StandardEquipment {
				res.Fetched++
				s.put(ctx, res, domain.YachtEquipmentDetails, &domain.YachtEquipment{
					YachtID: y.ID, EquipmentID: e.EquipmentID, Name: names[e.EquipmentID],
				})
			}
			for _, e := range y.OptionalEquipment {
				res.Fetched++
				s.put(ctx, res, domain.YachtEquipmentDetails, &domain.YachtEquipment{
					YachtID: y.ID, EquipmentID: e.EquipmentID, Name: names[e.EquipmentID],
					Optional: true, Price: e.Price, Currency: e.Currency,
				})
			}
		}
		return nil
	})
}

func (s *SyncService) SyncYachtServices(ctx context.Context) DomainResult {
	return s.run(ctx, DomainYachtServices, func(ctx context.Context, res *DomainResult) error {
		names, err := s.serviceNames(ctx)
		if err != nil {
			return err
		}
		yachts, err := loadAll[domain.Yacht](ctx, s.store, domain.Yachts, domain.FindQuery{Sort: "id"})
		if err != nil {
			return err
		}
		for _, y := range yachts {
			for _, sv := range y.Services {
				res.Fetched++
				s.put(ctx, res, domain.YachtServiceDetails, &domain.YachtServiceDetail{
					YachtID: y.ID, ServiceID: sv.ServiceID, Name: names[sv.ServiceID],
					Price: sv.Price, Currency: sv.Currency, Obligatory: sv.Obligatory,
				})
			}
		}
		return nil
	})
}

// SyncYachtPrices pulls price lists per charter company.
func (s *SyncService) SyncYachtPrices(ctx context.Context) DomainResult {
	return s.run(ctx, DomainYachtPrices, func(ctx context.Context, res *DomainResult) error {
		companies, err := s.companyIDs(ctx)
		if err != nil {
			return err
		}
		var f fanout
		for _, cid := range companies {
			prices, err := s.up.YachtPrices(ctx, cid)
			if err != nil {
				if ferr := f.fail(res, fmt.Sprintf("company %d", cid), err); ferr != nil {
					return ferr
				}
				continue
			}
			f.ok++
			putAll(ctx, s, res, domain.YachtPrices, prices)
		}
		return f.err()
	})
}

func (s *SyncService) SyncYachtRatings(ctx context.Context) DomainResult {
	return s.run(ctx, DomainYachtRatings, func(ctx context.Context, res *DomainResult) error {
		companies, err := s.companyIDs(ctx)
		if err != nil {
			return err
		}
		var f fanout
		for _, cid := range companies {
			ratings, err := s.up.YachtRatings(ctx, cid)
			if err != nil {
				if ferr := f.fail(res, fmt.Sprintf("company %d", cid), err); ferr != nil {
					return ferr
				}
				continue
			}
			f.ok++
			putAll(ctx, s, res, domain.YachtRatings, ratings)
		}
		return f.err()
	})
}
