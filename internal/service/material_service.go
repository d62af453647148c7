package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lshigami/uteach/internal/dto"
	"github.com/lshigami/uteach/internal/model"
	"github.com/lshigami/uteach/internal/repository"
	"github.com/rs/zerolog/log"
)

const previewRunes = 500

type MaterialService interface {
	UploadPDF(ctx context.Context, owner, filename string, data []byte) (*dto.UploadResponse, error)
	UploadURL(ctx context.Context, owner string, req dto.UploadURLRequest) (*dto.UploadResponse, error)
}

type materialService struct {
	extractor    ExtractorService
	materialRepo repository.MaterialRepository
	now          func() time.Time
}

func NewMaterialService(extractor ExtractorService, materialRepo repository.MaterialRepository) MaterialService {
	return &materialService{extractor: extractor, materialRepo: materialRepo, now: time.Now}
}

func (s *materialService) UploadPDF(ctx context.Context, owner, filename string, data []byte) (*dto.UploadResponse, error) {
	text, err := s.extractor.ExtractFromDocument(data)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		filename = "document.pdf"
	}
	return s.store(ctx, &model.Material{
		Owner:      owner,
		Title:      filename,
		SourceType: model.SourcePDF,
		Content:    text,
	})
}

func (s *materialService) UploadURL(ctx context.Context, owner string, req dto.UploadURLRequest) (*dto.UploadResponse, error) {
	text, err := s.extractor.ExtractFromURL(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = titleFromURL(req.URL)
	}
	return s.store(ctx, &model.Material{
		Owner:      owner,
		Title:      title,
		SourceType: model.SourceURL,
		SourceURL:  req.URL,
		Content:    text,
	})
}

func (s *materialService) store(ctx context.Context, material *model.Material) (*dto.UploadResponse, error) {
	material.ID = uuid.NewString()
	material.CreatedAt = s.now().UTC()
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to save material: %w", err)
	}

	chars := utf8.RuneCountInString(material.Content)
	log.Info().
		Str("material_id", material.ID).
		Str("source_type", material.SourceType).
		Int("chars", chars).
		Msg("Material stored")
	return &dto.UploadResponse{
		MaterialID: material.ID,
		Chars:      chars,
		Text:       truncateRunes(material.Content, previewRunes),
	}, nil
}

// titleFromURL derives "<host> - <last path segment>" for pages uploaded without a title.
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	last := path.Base(strings.TrimSuffix(u.Path, "/"))
	if last == "." || last == "/" || last == "" {
		last = "page"
	}
	return u.Host + " - " + last
}
