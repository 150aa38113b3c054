package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
)

const defaultMaxImageWidth = 800

type PrizeRepository interface {
	Create(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	FindByID(ctx context.Context, id uint) (domain.Prize, error)
	FindByEvent(ctx context.Context, eventID uint, activeOnly, includeGeneral bool) ([]domain.Prize, error)
	Update(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	UpdateImage(ctx context.Context, id uint, image string) error
	Deactivate(ctx context.Context, id uint) error
}

type PrizeService struct {
	repo     PrizeRepository
	events   RaffleEventRepository
	auditor  Auditor
	clock    clock.Clock
	imageDir string
	maxWidth int
}

func NewPrizeService(repo PrizeRepository, events RaffleEventRepository, auditor Auditor, clk clock.Clock, imageDir string, maxWidth int) *PrizeService {
	if auditor == nil {
		auditor = noopAuditor{}
	}
	if maxWidth <= 0 {
		maxWidth = defaultMaxImageWidth
	}

	return &PrizeService{
		repo:     repo,
		events:   events,
		auditor:  auditor,
		clock:    clk,
		imageDir: imageDir,
		maxWidth: maxWidth,
	}
}

func (s *PrizeService) CreatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	if _, err := s.events.FindByID(ctx, prize.EventID); err != nil {
		return domain.Prize{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	// The general pool prize is created by the raffle service only.
	if domain.IsReservedPrizeName(prize.Name) {
		return domain.Prize{}, ErrReservedPrizeName
	}
	prize.InitialStock = prize.Stock
	prize.Active = true

	created, err := s.repo.Create(ctx, prize)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit(ctx, domain.AuditActionCreated, nil, &created)

	return created, nil
}

func (s *PrizeService) GetPrize(ctx context.Context, eventID, prizeID uint) (domain.Prize, error) {
	prize, err := s.repo.FindByID(ctx, prizeID)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if prize.EventID != eventID {
		return domain.Prize{}, ErrPrizeNotFound
	}

	return prize, nil
}

// ListPrizes hides the general pool prize unless includeGeneral is set.
func (s *PrizeService) ListPrizes(ctx context.Context, eventID uint, includeGeneral bool) ([]domain.Prize, error) {
	prizes, err := s.repo.FindByEvent(ctx, eventID, false, includeGeneral)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return prizes, nil
}

// UpdatePrize changes the descriptive fields. Stock only moves through draws and cancellations.
func (s *PrizeService) UpdatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	current, err := s.GetPrize(ctx, prize.EventID, prize.ID)
	if err != nil {
		return domain.Prize{}, err
	}
	if current.IsGeneralPool() != domain.IsReservedPrizeName(prize.Name) {
		return domain.Prize{}, ErrReservedPrizeName
	}
	if current.IsGeneralPool() {
		prize.Name = current.Name
	}

	updated, err := s.repo.Update(ctx, prize)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit(ctx, domain.AuditActionUpdated, &current, &updated)

	return updated, nil
}

func (s *PrizeService) DeactivatePrize(ctx context.Context, eventID, prizeID uint) error {
	current, err := s.GetPrize(ctx, eventID, prizeID)
	if err != nil {
		return err
	}

	if err = s.repo.Deactivate(ctx, prizeID); err != nil {
		return fmt.Errorf("s.repo.Deactivate -> %w", err)
	}

	after := current
	after.Active = false
	s.audit(ctx, domain.AuditActionDeleted, &current, &after)

	return nil
}

// UploadImage decodes the upload, shrinks it to the configured width and stores it under the image dir.
// It returns the stored path relative to that dir.
func (s *PrizeService) UploadImage(ctx context.Context, eventID, prizeID uint, filename string, r io.Reader) (string, error) {
	current, err := s.GetPrize(ctx, eventID, prizeID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, err = imaging.FormatFromExtension(ext); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidImage, ext)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}

	rel := filepath.Join("prizes", fmt.Sprintf("%d-%s%s", prizeID, uuid.NewString(), ext))
	dst := filepath.Join(s.imageDir, rel)
	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll -> %w", err)
	}
	if err = imaging.Save(img, dst); err != nil {
		return "", fmt.Errorf("imaging.Save -> %w", err)
	}

	if err = s.repo.UpdateImage(ctx, prizeID, rel); err != nil {
		return "", fmt.Errorf("s.repo.UpdateImage -> %w", err)
	}

	after := current
	after.Image = rel
	s.audit(ctx, domain.AuditActionUpdated, &current, &after)

	return rel, nil
}

func (s *PrizeService) audit(ctx context.Context, action string, before, after *domain.Prize) {
	rec := domain.ChangeRecord{
		Action:     action,
		EntityType: domain.EntityPrize,
		Actor:      ActorFromContext(ctx),
		Timestamp:  s.clock.Now(),
	}
	if before != nil {
		rec.EntityID, rec.EventID = before.ID, before.EventID
		rec.OldValues = domain.AuditValues(before)
	}
	if after != nil {
		rec.EntityID, rec.EventID = after.ID, after.EventID
		rec.NewValues = domain.AuditValues(after)
		rec.Description = after.Name
	}

	s.auditor.Record(ctx, rec)
}
