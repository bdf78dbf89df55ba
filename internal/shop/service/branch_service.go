package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
)

type BranchService struct {
	repo *repository.BranchRepository
}

func NewBranchService(repo *repository.BranchRepository) *BranchService {
	return &BranchService{repo: repo}
}

type CreateBranchRequest struct {
	Name            string `json:"name" binding:"required"`
	Code            string `json:"code"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	ManagerName     string `json:"manager_name"`
	IsCentral       bool   `json:"is_central"`
	DefaultLanguage string `json:"default_language"`
}

type UpdateBranchRequest struct {
	Name            *string `json:"name"`
	Address         *string `json:"address"`
	Phone           *string `json:"phone"`
	ManagerName     *string `json:"manager_name"`
	IsCentral       *bool   `json:"is_central"`
	Status          *string `json:"status"`
	DefaultLanguage *string `json:"default_language"`
}

// GenerateCode derives a short branch code from the name: an uppercased
// letter prefix plus four random digits, retried on collision.
func GenerateCode(name string, exists func(code string) (bool, error)) (string, error) {
	prefix := codePrefix(name)
	for attempt := 0; attempt < 10; attempt++ {
		code := fmt.Sprintf("%s%04d", prefix, rand.Intn(10000))
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique branch code for %q", name)
}

func codePrefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) && r < 128 {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "BR"
	}
	return b.String()
}

func (s *BranchService) Create(ctx context.Context, req *CreateBranchRequest) (*entity.Branch, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		generated, err := GenerateCode(req.Name, func(c string) (bool, error) {
			return s.repo.CodeExists(ctx, c)
		})
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("branch code %s is already in use", code)
		}
	}

	lang := req.DefaultLanguage
	if lang == "" {
		lang = "tr"
	}

	now := time.Now()
	branch := &entity.Branch{
		ID:              newID(),
		Name:            req.Name,
		Code:            code,
		Address:         req.Address,
		Phone:           req.Phone,
		ManagerName:     req.ManagerName,
		IsCentral:       req.IsCentral,
		Status:          entity.BranchStatusActive,
		DefaultLanguage: lang,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	return branch, nil
}

func (s *BranchService) Update(ctx context.Context, id string, req *UpdateBranchRequest) (*entity.Branch, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.ManagerName != nil {
		branch.ManagerName = *req.ManagerName
	}
	if req.IsCentral != nil {
		branch.IsCentral = *req.IsCentral
	}
	if req.Status != nil {
		if *req.Status != entity.BranchStatusActive && *req.Status != entity.BranchStatusInactive {
			return nil, fmt.Errorf("invalid branch status %q", *req.Status)
		}
		branch.Status = *req.Status
	}
	if req.DefaultLanguage != nil {
		branch.DefaultLanguage = *req.DefaultLanguage
	}
	branch.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, branch); err != nil {
		return nil, fmt.Errorf("update branch: %w", err)
	}
	return branch, nil
}

// Deactivate flips the branch inactive instead of deleting it; its inventory
// table stays in place.
func (s *BranchService) Deactivate(ctx context.Context, id string) error {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	branch.Status = entity.BranchStatusInactive
	branch.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, branch); err != nil {
		return fmt.Errorf("deactivate branch: %w", err)
	}
	return nil
}

func (s *BranchService) Get(ctx context.Context, id string) (*entity.Branch, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BranchService) List(ctx context.Context) ([]entity.Branch, error) {
	return s.repo.List(ctx)
}

func (s *BranchService) ListActive(ctx context.Context) ([]entity.Branch, error) {
	return s.repo.ListActive(ctx)
}
