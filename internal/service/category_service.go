package service

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"tempowise/internal/model"
	"tempowise/internal/repository"
)

// Palette is used for seeded categories and for new ones created without a colour.
var Palette = []string{"#2563eb", "#16a34a", "#f97316", "#9333ea", "#64748b", "#e11d48", "#0891b2", "#ca8a04"}

// DefaultCategories are created once for every new user.
var DefaultCategories = []model.Category{
	{Name: "Work", Color: "#2563eb"},
	{Name: "Study", Color: "#16a34a"},
	{Name: "Exercise", Color: "#f97316"},
	{Name: "Leisure", Color: "#9333ea"},
	{Name: "Other", Color: "#64748b"},
}

const maxCategoryName = 40

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryService manages a user's categories.
type CategoryService struct {
	repo     *repository.CategoryRepository
	userRepo *repository.UserRepository
}

func NewCategoryService(repo *repository.CategoryRepository, userRepo *repository.UserRepository) *CategoryService {
	return &CategoryService{repo: repo, userRepo: userRepo}
}

func (s *CategoryService) List(ctx context.Context, user *model.User) ([]model.Category, error) {
	categories, err := s.repo.ListByUser(ctx, user.ID)
	return categories, storeErr(err)
}

func (s *CategoryService) Get(ctx context.Context, user *model.User, categoryID string) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, user.ID, categoryID)
	return category, storeErr(err)
}

// Create adds a category. An empty colour picks one from Palette.
func (s *CategoryService) Create(ctx context.Context, user *model.User, name, color string) (*model.Category, error) {
	name, color, err := normalizeCategory(name, color)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = Palette[rand.Intn(len(Palette))]
	}
	category := model.Category{UserID: user.ID, Name: name, Color: color}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, storeErr(err)
	}
	return &category, nil
}

// Update renames a category. An empty colour keeps the current one.
func (s *CategoryService) Update(ctx context.Context, user *model.User, categoryID, name, color string) (*model.Category, error) {
	name, color, err := normalizeCategory(name, color)
	if err != nil {
		return nil, err
	}
	if color == "" {
		current, err := s.repo.GetByID(ctx, user.ID, categoryID)
		if err != nil {
			return nil, storeErr(err)
		}
		color = current.Color
	}
	category, err := s.repo.Update(ctx, user.ID, categoryID, name, color)
	return category, storeErr(err)
}

// Delete removes the category; activities and goals referencing it become Uncategorized.
func (s *CategoryService) Delete(ctx context.Context, user *model.User, categoryID string) error {
	return storeErr(s.repo.Delete(ctx, user.ID, categoryID))
}

// SeedDefaults creates DefaultCategories the first time it is called for a user.
func (s *CategoryService) SeedDefaults(ctx context.Context, user *model.User) (bool, error) {
	if user.Seeded {
		return false, nil
	}
	for _, def := range DefaultCategories {
		category := model.Category{UserID: user.ID, Name: def.Name, Color: def.Color}
		if err := s.repo.Create(ctx, &category); err != nil {
			return false, storeErr(err)
		}
	}
	if err := s.userRepo.MarkSeeded(ctx, user); err != nil {
		return false, storeErr(err)
	}
	return true, nil
}

func normalizeCategory(name, color string) (string, string, error) {
	name = strings.TrimSpace(name)
	color = strings.ToLower(strings.TrimSpace(color))
	switch {
	case name == "":
		return "", "", invalid("name", "category name is required")
	case utf8.RuneCountInString(name) > maxCategoryName:
		return "", "", invalid("name", "category name is too long")
	}
	if color != "" && !colorPattern.MatchString(color) {
		return "", "", invalid("color", "colour must look like #1a2b3c")
	}
	return name, color, nil
}
