package usecase

import (
	"context"
	"time"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// ProvisionUseCase runs receivable provisioning: it ages the open
// receivables, applies the specific schedule per customer and the general
// rate over the total, and persists one calculation row per input.
type ProvisionUseCase struct {
	txManager      TransactionManager
	receivableRepo ReceivableRepository
	provisionRepo  ProvisionRepository
	periodRepo     PeriodRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	rules          domain.AccountingRules
}

// NewProvisionUseCase creates a new ProvisionUseCase.
func NewProvisionUseCase(
	txManager TransactionManager,
	receivableRepo ReceivableRepository,
	provisionRepo ProvisionRepository,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rules domain.AccountingRules,
) *ProvisionUseCase {
	return &ProvisionUseCase{
		txManager:      txManager,
		receivableRepo: receivableRepo,
		provisionRepo:  provisionRepo,
		periodRepo:     periodRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		rules:          rules,
	}
}

// RunProvisionInput represents input for a provisioning run.
type RunProvisionInput struct {
	Actor     Actor
	CompanyID string
	AsOf      time.Time
}

// RunProvisionResult summarizes a provisioning run.
type RunProvisionResult struct {
	SpecificProvision domain.Money
	GeneralProvision  domain.Money
	Calculations      []domain.ProvisionCalculation
}

// RunProvision computes and persists provisions for every open receivable
// as of a date. The run is rejected when the date falls into a locked
// period.
func (uc *ProvisionUseCase) RunProvision(ctx context.Context, input RunProvisionInput) (*RunProvisionResult, error) {
	period, err := uc.periodRepo.GetByDate(ctx, input.CompanyID, input.AsOf)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(input.AsOf); err != nil {
		return nil, err
	}

	receivables, err := uc.receivableRepo.ListOpen(ctx, input.CompanyID, input.AsOf)
	if err != nil {
		return nil, err
	}

	specific, err := domain.CalculateSpecificProvision(receivables, uc.rules)
	if err != nil {
		return nil, err
	}

	total := domain.ZeroMoney(uc.rules.BaseCurrency)
	for _, r := range receivables {
		total, err = total.Add(r.Amount)
		if err != nil {
			return nil, err
		}
	}

	general, err := domain.CalculateGeneralProvision(total, uc.rules)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	calculations := make([]domain.ProvisionCalculation, 0, len(receivables)+1)
	for _, r := range receivables {
		bucket, ok := domain.ProvisionRate(r.OverdueDays, uc.rules)
		if !ok {
			continue
		}
		calculations = append(calculations, domain.ProvisionCalculation{
			ID:              uc.idGen.Generate(),
			CompanyID:       input.CompanyID,
			CalculationDate: input.AsOf,
			CustomerCode:    r.CustomerCode,
			OriginalAmount:  r.Amount,
			OverdueDays:     r.OverdueDays,
			Rate:            bucket.Rate,
			Provision:       r.Amount.MulRate(bucket.Rate).Round(),
			Type:            domain.ProvisionSpecific,
			RulesVersion:    uc.rules.Version,
			CreatedAt:       now,
		})
	}
	calculations = append(calculations, domain.ProvisionCalculation{
		ID:              uc.idGen.Generate(),
		CompanyID:       input.CompanyID,
		CalculationDate: input.AsOf,
		OriginalAmount:  total,
		Rate:            uc.rules.GeneralProvisionRate,
		Provision:       general,
		Type:            domain.ProvisionGeneral,
		RulesVersion:    uc.rules.Version,
		CreatedAt:       now,
	})

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.provisionRepo.SaveAll(ctx, tx, calculations); err != nil {
		return nil, err
	}

	rec := domain.AuditRecord{
		EntityType: "ProvisionRun",
		EntityID:   uc.idGen.Generate(),
		Action:     domain.AuditActionCreate,
		NewValue: domain.JSON{
			"as_of":              input.AsOf.Format("2006-01-02"),
			"receivables":        len(receivables),
			"specific_provision": specific.Amount.String(),
			"general_provision":  general.Amount.String(),
			"rules_version":      uc.rules.Version,
		},
	}
	log := auditLogFrom(rec, input.Actor, input.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RunProvisionResult{
		SpecificProvision: specific,
		GeneralProvision:  general,
		Calculations:      calculations,
	}, nil
}

// ListProvisions returns the persisted calculations of the most recent
// run covering a date.
func (uc *ProvisionUseCase) ListProvisions(ctx context.Context, companyID string, asOf time.Time) ([]domain.ProvisionCalculation, error) {
	return uc.provisionRepo.ListByPeriod(ctx, companyID, asOf)
}
