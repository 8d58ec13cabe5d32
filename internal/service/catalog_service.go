package service

import (
	"context"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/repository"

	"github.com/google/uuid"
)

// CatalogService covers the simple reference entities: the service menu and
// the customer book.
type CatalogService interface {
	CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context) ([]dto.ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
}

type catalogService struct {
	services  repository.ServiceRepository
	customers repository.CustomerRepository
}

func NewCatalogService(services repository.ServiceRepository, customers repository.CustomerRepository) CatalogService {
	return &catalogService{services: services, customers: customers}
}

// ── Services ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	svc := &model.BarberService{
		Name:            req.Name,
		Price:           req.Price.Round(2),
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apierror.Database(err)
	}
	return toServiceResponse(svc), nil
}

func (s *catalogService) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, apierror.Database(err)
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, *toServiceResponse(&services[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service not found")
	}

	svc.Name = req.Name
	svc.Price = req.Price.Round(2)
	svc.DurationMinutes = req.DurationMinutes

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, apierror.Database(err)
	}
	return toServiceResponse(svc), nil
}

func (s *catalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "service not found")
	}
	if err := s.services.SoftDelete(ctx, id); err != nil {
		return apierror.Database(err)
	}
	return nil
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Active: true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apierror.Database(err)
	}
	return toCustomerResponse(customer), nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer not found")
	}
	return toCustomerResponse(customer), nil
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, apierror.Database(err)
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *toCustomerResponse(&customers[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer not found")
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apierror.Database(err)
	}
	return toCustomerResponse(customer), nil
}

func toServiceResponse(s *model.BarberService) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Active:          s.Active,
	}
}

func toCustomerResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:    c.ID.String(),
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
	}
}
