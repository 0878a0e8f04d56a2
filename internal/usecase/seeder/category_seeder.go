package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
)

// categoryNamespace derives stable category ids per account
var categoryNamespace = uuid.MustParse("6f1c2a4e-9b3d-4d0a-8e21-5a7c3b9d1f00")

// DefaultCategory defines one entry of the default category chart
type DefaultCategory struct {
	Name string
	Kind domain.MovementKind
}

// DefaultChart covers every income statement line the report classifier knows
var DefaultChart = []DefaultCategory{
	{Name: "Vendas de produtos", Kind: domain.MovementCredit},
	{Name: "Prestação de serviços", Kind: domain.MovementCredit},
	{Name: "Devolução de vendas", Kind: domain.MovementDebit},
	{Name: "Compra de mercadorias", Kind: domain.MovementDebit},
	{Name: "Frete", Kind: domain.MovementDebit},
	{Name: "Comissões", Kind: domain.MovementDebit},
	{Name: "Aluguel", Kind: domain.MovementDebit},
	{Name: "Salários", Kind: domain.MovementDebit},
	{Name: "Energia e internet", Kind: domain.MovementDebit},
	{Name: "Tarifa bancária", Kind: domain.MovementDebit},
	{Name: "Juros e multa", Kind: domain.MovementDebit},
	{Name: "Rendimento de aplicação", Kind: domain.MovementCredit},
	{Name: "Venda de imobilizado", Kind: domain.MovementCredit},
	{Name: "Impostos", Kind: domain.MovementDebit},
}

// CategoryID returns the id the seeder assigns to a default category of an account
func CategoryID(accountID uuid.UUID, name string) uuid.UUID {
	return uuid.NewSHA1(categoryNamespace, []byte(accountID.String()+"/"+report.Fold(name)))
}

// CategorySeeder handles seeding of the default category chart
type CategorySeeder struct {
	repo domain.CategoryRepository
}

// NewCategorySeeder creates a new CategorySeeder instance
func NewCategorySeeder(repo domain.CategoryRepository) *CategorySeeder {
	return &CategorySeeder{
		repo: repo,
	}
}

// Seed ensures the account has every default category.
// Categories are matched by folded name, so existing user categories
// with the same name are kept. Returns the number of categories created.
func (s *CategorySeeder) Seed(ctx context.Context, accountID uuid.UUID) (int, error) {
	existing, err := s.repo.List(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to list categories: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[report.Fold(c.Name)] = true
	}

	created := 0
	for _, def := range DefaultChart {
		if present[report.Fold(def.Name)] {
			continue
		}

		category := &domain.Category{
			ID:        CategoryID(accountID, def.Name),
			AccountID: accountID,
			Name:      def.Name,
			Kind:      def.Kind,
		}

		// Validate before creating
		if err := category.Validate(); err != nil {
			return created, err
		}

		if err := s.repo.Create(ctx, category); err != nil {
			return created, fmt.Errorf("failed to create category %q: %w", def.Name, err)
		}
		created++
	}

	return created, nil
}
