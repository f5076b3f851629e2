package address

import (
	"context"
	"errors"
	"strings"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"

	"github.com/go-playground/validator/v10"
)

// AddressRepository contract interface
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	FindByID(ctx context.Context, id uint) (domain.Address, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]domain.Address, error)
	CountByBuyer(ctx context.Context, buyerID uint) (int64, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id uint) error
	ClearDefault(ctx context.Context, buyerID uint) error
	PromoteLatest(ctx context.Context, buyerID uint) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type addressService struct {
	addressRepo AddressRepository
	tx          Transactor
	validate    *validator.Validate
}

func NewAddressService(addressRepo AddressRepository, tx Transactor, validate *validator.Validate) *addressService {
	return &addressService{
		addressRepo: addressRepo,
		tx:          tx,
		validate:    validate,
	}
}

type AddressInput struct {
	Label         string `json:"label" validate:"omitempty,max=50"`
	RecipientName string `json:"recipient_name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Line1         string `json:"line1" validate:"required,max=200"`
	Line2         string `json:"line2" validate:"omitempty,max=200"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"omitempty,max=100"`
	Pincode       string `json:"pincode" validate:"required,max=12"`
	Country       string `json:"country" validate:"omitempty,max=60"`
	IsDefault     bool   `json:"is_default"`
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if verrs[0].Tag() == "required" {
			return serrors.With(serrors.ErrBadRequest, "%s is required", verrs[0].Field())
		}
		return serrors.With(serrors.ErrBadRequest, "invalid %s", verrs[0].Field())
	}
	return serrors.Wrap(serrors.ErrBadRequest, err, "invalid address")
}

func (in AddressInput) apply(a *domain.Address) {
	a.Label = strings.TrimSpace(in.Label)
	a.RecipientName = strings.TrimSpace(in.RecipientName)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.Pincode = strings.TrimSpace(in.Pincode)
	a.Country = strings.TrimSpace(in.Country)
}

func (s *addressService) List(ctx context.Context, buyerID uint) ([]domain.Address, error) {
	return s.addressRepo.ListByBuyer(ctx, buyerID)
}

// Get returns a buyer's own address. Other buyers' addresses read as missing.
func (s *addressService) Get(ctx context.Context, buyerID, id uint) (domain.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Address{}, err
	}
	if address.BuyerID != buyerID {
		return domain.Address{}, serrors.With(serrors.ErrNotFound, "address not found")
	}
	return address, nil
}

// Create makes the first address of a buyer the default.
func (s *addressService) Create(ctx context.Context, buyerID uint, in AddressInput) (domain.Address, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Address{}, invalid(err)
	}

	address := domain.Address{BuyerID: buyerID}
	in.apply(&address)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := s.addressRepo.CountByBuyer(ctx, buyerID)
		if err != nil {
			return err
		}

		address.IsDefault = in.IsDefault || count == 0
		if address.IsDefault && count > 0 {
			if err := s.addressRepo.ClearDefault(ctx, buyerID); err != nil {
				return err
			}
		}

		return s.addressRepo.Create(ctx, &address)
	})
	if err != nil {
		logger.Error("failed to create address", "buyer_id", buyerID, "error", err)
		return domain.Address{}, err
	}

	return address, nil
}

// Update cannot unset the default flag; set another address as default instead.
func (s *addressService) Update(ctx context.Context, buyerID, id uint, in AddressInput) (domain.Address, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Address{}, invalid(err)
	}

	var address domain.Address
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		address, err = s.Get(ctx, buyerID, id)
		if err != nil {
			return err
		}

		in.apply(&address)
		if in.IsDefault && !address.IsDefault {
			if err := s.addressRepo.ClearDefault(ctx, buyerID); err != nil {
				return err
			}
			address.IsDefault = true
		}

		return s.addressRepo.Update(ctx, &address)
	})
	if err != nil {
		return domain.Address{}, err
	}

	return address, nil
}

func (s *addressService) SetDefault(ctx context.Context, buyerID, id uint) (domain.Address, error) {
	var address domain.Address
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		address, err = s.Get(ctx, buyerID, id)
		if err != nil {
			return err
		}
		if address.IsDefault {
			return nil
		}

		if err := s.addressRepo.ClearDefault(ctx, buyerID); err != nil {
			return err
		}
		address.IsDefault = true
		return s.addressRepo.Update(ctx, &address)
	})
	if err != nil {
		return domain.Address{}, err
	}

	return address, nil
}

// Delete promotes the most recent remaining address when the default goes.
func (s *addressService) Delete(ctx context.Context, buyerID, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		address, err := s.Get(ctx, buyerID, id)
		if err != nil {
			return err
		}

		if err := s.addressRepo.Delete(ctx, id); err != nil {
			return err
		}

		if address.IsDefault {
			return s.addressRepo.PromoteLatest(ctx, buyerID)
		}
		return nil
	})
}
