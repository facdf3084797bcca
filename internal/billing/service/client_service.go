package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
)

// ClientService manages a user's clients.
type ClientService struct {
	clients *repository.ClientRepository
}

func NewClientService(repos *repository.Repositories) *ClientService {
	return &ClientService{clients: repos.Client}
}

// ClientRequest carries client fields for create and update.
type ClientRequest struct {
	Name         string `json:"name" binding:"required"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	InvoiceTitle string `json:"invoice_title"`
}

func (s *ClientService) Create(ctx context.Context, userID string, req *ClientRequest) (*entity.Client, error) {
	client := &entity.Client{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         req.Name,
		Company:      req.Company,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		InvoiceTitle: req.InvoiceTitle,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, userID string, page, pageSize int, search string) ([]entity.Client, int64, error) {
	return s.clients.FindAll(ctx, userID, page, pageSize, search)
}

func (s *ClientService) Get(ctx context.Context, userID, id string) (*entity.Client, error) {
	return s.clients.FindByID(ctx, userID, id)
}

func (s *ClientService) Update(ctx context.Context, userID, id string, req *ClientRequest) (*entity.Client, error) {
	client, err := s.clients.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	client.Name = req.Name
	client.Company = req.Company
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.InvoiceTitle = req.InvoiceTitle
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, userID, id string) error {
	return s.clients.Delete(ctx, userID, id)
}
