package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Provider is the read side of the catalog used by shoppers.
type Provider interface {
	List(ctx context.Context, category string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, []Product, error)
}

// ImageUploader stores a data-URL encoded image and returns its public URL.
type ImageUploader interface {
	UploadDataURL(ctx context.Context, dataURL string) (string, error)
}

type Service struct {
	repo   Repository
	images ImageUploader
	logger *log.Logger
	newID  func() string
}

func NewService(repo Repository, images ImageUploader, logger *log.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context, category string) ([]Product, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, CategoryAll) {
		category = ""
	}
	return s.repo.List(ctx, category)
}

// Get returns the product and up to four others from the same category.
func (s *Service) Get(ctx context.Context, id string) (Product, []Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, nil, err
	}
	related, err := s.repo.Related(ctx, p.Category, p.ID, relatedLimit)
	if err != nil {
		return Product{}, nil, err
	}
	return p, related, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	p, err := normalize(in)
	if err != nil {
		return Product{}, err
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if url := s.upload(ctx, in.ImageData); url != "" {
		p.Image = url
	}
	p.ID = s.newID()

	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Product, error) {
	p, err := normalize(in)
	if err != nil {
		return Product{}, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	p.ID = existing.ID
	if p.Image == "" {
		p.Image = existing.Image
	}
	if url := s.upload(ctx, in.ImageData); url != "" {
		p.Image = url
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// upload returns "" when there is nothing to upload or the upload failed.
func (s *Service) upload(ctx context.Context, dataURL string) string {
	if dataURL == "" || s.images == nil {
		return ""
	}
	url, err := s.images.UploadDataURL(ctx, dataURL)
	if err != nil {
		s.logger.Printf("image upload failed, keeping previous image: %v", err)
		return ""
	}
	return url
}

func normalize(in Input) (Product, error) {
	p := Product{
		Name:        sanitize(in.Name),
		Category:    sanitize(in.Category),
		Image:       strings.TrimSpace(in.Image),
		Description: sanitize(in.Description),
		Notes:       sanitize(in.Notes),
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	var problems []string
	if p.Name == "" {
		problems = append(problems, "name is required")
	}
	if len(in.Sizes) == 0 {
		problems = append(problems, "at least one size is required")
	}

	seen := make(map[string]bool, len(in.Sizes))
	for i, sz := range in.Sizes {
		label := sanitize(sz.Size)
		switch {
		case label == "":
			problems = append(problems, fmt.Sprintf("sizes[%d]: label is required", i))
		case seen[label]:
			problems = append(problems, fmt.Sprintf("sizes[%d]: duplicate label %q", i, label))
		}
		if sz.Price < 0 {
			problems = append(problems, fmt.Sprintf("sizes[%d]: price must not be negative", i))
		}
		seen[label] = true
		p.Sizes = append(p.Sizes, Size{Size: label, Price: sz.Price})
	}

	if len(problems) > 0 {
		return Product{}, &ValidationError{Problems: problems}
	}
	return p, nil
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}
