package agreement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/agreement"
	"github.com/lpdp/backend/internal/domain/shared"
)

// AgreementService handles data-processing-agreement operations
type AgreementService struct {
	agreementRepo agreement.AgreementRepository
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewAgreementService creates a new AgreementService
func NewAgreementService(agreementRepo agreement.AgreementRepository, publisher shared.EventPublisher, logger *zap.Logger) *AgreementService {
	return &AgreementService{
		agreementRepo: agreementRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// Create drafts a new DPA with a processor
func (s *AgreementService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAgreementRequest) (*AgreementResponse, error) {
	ag, err := agreement.NewAgreement(tenantID, req.ProcessorName, req.Scope)
	if err != nil {
		return nil, err
	}
	ag.ContactEmail = req.ContactEmail

	if err := s.agreementRepo.Save(ctx, ag); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &ag.TenantAggregateRoot)

	s.logger.Info("processing agreement drafted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("processor", ag.ProcessorName))

	return toAgreementResponse(ag), nil
}

// Get returns one agreement
func (s *AgreementService) Get(ctx context.Context, tenantID, id uuid.UUID) (*AgreementResponse, error) {
	ag, err := s.agreementRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toAgreementResponse(ag), nil
}

// List returns all agreements for a tenant
func (s *AgreementService) List(ctx context.Context, tenantID uuid.UUID) ([]AgreementResponse, error) {
	items, err := s.agreementRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toAgreementListResponse(items), nil
}

// Sign executes a draft agreement
func (s *AgreementService) Sign(ctx context.Context, tenantID, id uuid.UUID, req SignAgreementRequest) (*AgreementResponse, error) {
	ag, err := s.agreementRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := ag.Sign(req.ValidUntil); err != nil {
		return nil, err
	}

	if err := s.agreementRepo.Update(ctx, ag); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &ag.TenantAggregateRoot)

	return toAgreementResponse(ag), nil
}

// MarkExpired transitions a signed agreement past its validity window
func (s *AgreementService) MarkExpired(ctx context.Context, tenantID, id uuid.UUID) (*AgreementResponse, error) {
	ag, err := s.agreementRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := ag.MarkExpired(); err != nil {
		return nil, err
	}

	if err := s.agreementRepo.Update(ctx, ag); err != nil {
		return nil, err
	}

	return toAgreementResponse(ag), nil
}

func (s *AgreementService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	root.ClearDomainEvents()
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
