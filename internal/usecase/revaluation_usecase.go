package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// RevaluationUseCase performs period-end revaluation of open
// foreign-currency balances. Each position is revalued against the
// period-end rate; gains post to the revaluation gain account, losses to
// the loss account, and zero differences are skipped. Rate lookups go
// through the cache first.
type RevaluationUseCase struct {
	txManager   TransactionManager
	fxRepo      FXPositionRepository
	rateRepo    RateRepository
	voucherRepo VoucherRepository
	journalRepo JournalRepository
	periodRepo  PeriodRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	rules       domain.AccountingRules
}

// NewRevaluationUseCase creates a new RevaluationUseCase.
func NewRevaluationUseCase(
	txManager TransactionManager,
	fxRepo FXPositionRepository,
	rateRepo RateRepository,
	voucherRepo VoucherRepository,
	journalRepo JournalRepository,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	rules domain.AccountingRules,
) *RevaluationUseCase {
	return &RevaluationUseCase{
		txManager:   txManager,
		fxRepo:      fxRepo,
		rateRepo:    rateRepo,
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
		rules:       rules,
	}
}

// SaveRate validates and persists a rate quote, then drops the cached
// entry for its currency and type.
func (uc *RevaluationUseCase) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	if err := uc.rateRepo.Save(ctx, rate); err != nil {
		return err
	}
	_ = uc.cache.Delete(ctx, rateCacheKey(rate.Currency, rate.Type, rate.ValuationDate))
	return nil
}

// LatestRate returns the most recent rate of a type on or before a date,
// cache-aside.
func (uc *RevaluationUseCase) LatestRate(ctx context.Context, currency string, rateType domain.RateType, onOrBefore time.Time) (domain.ExchangeRate, error) {
	key := rateCacheKey(currency, rateType, onOrBefore)
	if data, err := uc.cache.Get(ctx, key); err == nil && data != nil {
		var cached domain.ExchangeRate
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	rate, err := uc.rateRepo.Latest(ctx, currency, rateType, onOrBefore)
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	if data, err := json.Marshal(rate); err == nil {
		_ = uc.cache.Set(ctx, key, data, rateCacheTTL)
	}
	return rate, nil
}

// RevaluePositionsInput represents input for a period-end revaluation
// run.
type RevaluePositionsInput struct {
	Actor         Actor
	CompanyID     string
	ValuationDate time.Time
}

// PositionDiff is the revaluation outcome of one position.
type PositionDiff struct {
	AccountCode string
	Currency    string
	Diff        domain.Money
	TargetClass domain.ExchangeDiffClass
}

// RevaluePositionsResult summarizes a revaluation run. Voucher is nil
// when every position came out flat.
type RevaluePositionsResult struct {
	Diffs   []PositionDiff
	Skipped int
	Voucher *domain.Voucher
}

// RevaluePositions revalues every open foreign-currency balance at the
// period-end rate and posts the differences as one adjustment voucher.
func (uc *RevaluationUseCase) RevaluePositions(ctx context.Context, input RevaluePositionsInput) (*RevaluePositionsResult, error) {
	period, err := uc.periodRepo.GetByDate(ctx, input.CompanyID, input.ValuationDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(input.ValuationDate); err != nil {
		return nil, err
	}

	positions, err := uc.fxRepo.ListOpen(ctx, input.CompanyID, input.ValuationDate)
	if err != nil {
		return nil, err
	}

	description := "FX revaluation " + input.ValuationDate.Format("2006-01-02")
	zero := domain.ZeroMoney(uc.rules.BaseCurrency)

	var (
		diffs   []PositionDiff
		lines   []domain.JournalLine
		skipped int
	)
	for _, pos := range positions {
		current, err := uc.LatestRate(ctx, pos.Currency, domain.RatePeriodEnd, input.ValuationDate)
		if err != nil {
			return nil, err
		}

		diff, err := domain.ExchangeDiff(pos.OriginalRate, current, pos.ForeignAmount)
		if err != nil {
			return nil, err
		}
		diff = diff.Round()

		class, ok := domain.ClassifyExchangeDiff(diff, uc.rules)
		if !ok {
			skipped++
			continue
		}

		diffs = append(diffs, PositionDiff{
			AccountCode: pos.AccountCode,
			Currency:    pos.Currency,
			Diff:        diff,
			TargetClass: class,
		})

		amount := diff.Abs()
		if diff.IsPositive() {
			lines = append(lines,
				domain.JournalLine{
					AccountCode:        pos.AccountCode,
					Debit:              amount,
					Credit:             zero,
					CounterpartAccount: class.AccountCode,
					Description:        description,
					ForeignAmount:      domain.NewMoney(pos.ForeignAmount, pos.Currency),
					RateApplied:        current.Rate,
				},
				domain.JournalLine{
					AccountCode:        class.AccountCode,
					Debit:              zero,
					Credit:             amount,
					CounterpartAccount: pos.AccountCode,
					Description:        description,
					RateApplied:        current.Rate,
				},
			)
		} else {
			lines = append(lines,
				domain.JournalLine{
					AccountCode:        class.AccountCode,
					Debit:              amount,
					Credit:             zero,
					CounterpartAccount: pos.AccountCode,
					Description:        description,
					RateApplied:        current.Rate,
				},
				domain.JournalLine{
					AccountCode:        pos.AccountCode,
					Debit:              zero,
					Credit:             amount,
					CounterpartAccount: class.AccountCode,
					Description:        description,
					ForeignAmount:      domain.NewMoney(pos.ForeignAmount, pos.Currency),
					RateApplied:        current.Rate,
				},
			)
		}
	}

	if len(lines) == 0 {
		return &RevaluePositionsResult{Skipped: skipped}, nil
	}

	now := time.Now().UTC()

	entry := domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		VoucherDate: input.ValuationDate,
		PostingDate: input.ValuationDate,
		Description: description,
		CreatedBy:   input.Actor.UserID,
		Lines:       lines,
		CreatedAt:   now,
		Version:     1,
	}
	entry, err = entry.CalculateTotals()
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucherSeq, err := uc.voucherRepo.NextSequence(ctx, tx, input.ValuationDate)
	if err != nil {
		return nil, err
	}
	entrySeq, err := uc.journalRepo.NextSequence(ctx, tx, input.ValuationDate)
	if err != nil {
		return nil, err
	}

	voucher := &domain.Voucher{
		ID:            uc.idGen.Generate(),
		VoucherNumber: domain.VoucherNumberFor(input.ValuationDate, voucherSeq),
		Type:          domain.VoucherAdjustment,
		VoucherDate:   input.ValuationDate,
		Description:   description,
		CompanyID:     input.CompanyID,
		CreatedBy:     input.Actor.UserID,
		State:         domain.VoucherDraft,
		LockStatus:    domain.LockOpen,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.voucherRepo.Create(ctx, tx, voucher); err != nil {
		return nil, err
	}

	entry.EntryNumber = domain.EntryNumberFor(input.ValuationDate, entrySeq)
	entry.VoucherID = voucher.ID
	if err := uc.journalRepo.Create(ctx, tx, &entry); err != nil {
		return nil, err
	}

	rec := domain.AuditRecord{
		EntityType: "Voucher",
		EntityID:   voucher.ID,
		Action:     domain.AuditActionCreate,
		NewValue:   domain.MarshalState(voucher),
	}
	log := auditLogFrom(rec, input.Actor, input.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RevaluePositionsResult{
		Diffs:   diffs,
		Skipped: skipped,
		Voucher: voucher,
	}, nil
}

func rateCacheKey(currency string, rateType domain.RateType, date time.Time) string {
	return fmt.Sprintf("rate:%s:%s:%s", currency, rateType, date.Format("2006-01-02"))
}
