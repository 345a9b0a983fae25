package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/util"
	"sensen_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TutorialService struct {
	Repo      *repository.TutorialRepository
	Storage   *StorageService
	Validator *validator.Validate
	// Probe reads the metadata of an uploaded file before it is stored.
	Probe func(path string) (*util.VideoInfo, error)
}

func NewTutorialService(repo *repository.TutorialRepository, storage *StorageService) *TutorialService {
	return &TutorialService{
		Repo:      repo,
		Storage:   storage,
		Validator: validator.New(),
		Probe:     util.ProbeVideo,
	}
}

type TutorialRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category" validate:"required,max=100"`
	VideoURL    string `json:"videoUrl" form:"videoUrl"`
}

type TutorialView struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	VideoKind       model.VideoKind `json:"videoKind"`
	VideoURL        string          `json:"videoUrl"`
	DurationSeconds float64         `json:"durationSeconds"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// IsYouTubeURL accepts the long and the short YouTube host forms.
func IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

func (s *TutorialService) validate(req TutorialRequest) error {
	if err := s.Validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	return nil
}

func (s *TutorialService) CreateYouTube(ctx context.Context, req TutorialRequest) (*TutorialView, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	url := strings.TrimSpace(req.VideoURL)
	if !IsYouTubeURL(url) {
		return nil, fmt.Errorf("%w: %q is not a YouTube link", util.ErrUnsupportedVideo, url)
	}
	exists, err := s.Repo.ExistsByVideoURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrTutorialExists
	}

	t := &model.Tutorial{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    true,
	}
	t.SetVideo(model.YouTubeVideo{URL: url})
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	logger.Log.Info("tutorial created", zap.Uint("tutorial_id", t.ID), zap.String("kind", string(t.VideoKind)))
	return s.view(t), nil
}

// UploadLocal stores an MP4 through the configured storage provider. The
// file is spooled to disk first so ffprobe can read its duration.
func (s *TutorialService) UploadLocal(ctx context.Context, req TutorialRequest, filename string, file io.Reader) (*TutorialView, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(filename), ".mp4") {
		return nil, fmt.Errorf("%w: only .mp4 uploads are accepted", util.ErrUnsupportedVideo)
	}

	tmp, err := os.CreateTemp("", "tutorial-*.mp4")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	var duration float64
	if info, err := s.Probe(tmp.Name()); err != nil {
		logger.Log.Warn("video probe failed, duration unknown", zap.String("file", filename), zap.Error(err))
	} else {
		duration = info.Duration
	}

	key := fmt.Sprintf("tutorials/%s.mp4", uuid.New().String())
	if _, err := s.Storage.UploadFile(ctx, key, tmp.Name(), "video/mp4"); err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}

	t := &model.Tutorial{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		DurationSeconds: duration,
		IsActive:        true,
	}
	t.SetVideo(model.LocalVideo{ObjectKey: key})
	if err := s.Repo.Create(ctx, t); err != nil {
		if derr := s.Storage.Delete(ctx, key); derr != nil {
			logger.Log.Warn("orphaned tutorial object", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}
	logger.Log.Info("tutorial uploaded", zap.Uint("tutorial_id", t.ID), zap.String("key", key), zap.Float64("duration", duration))
	return s.view(t), nil
}

func (s *TutorialService) List(ctx context.Context, category string) ([]TutorialView, error) {
	ts, err := s.Repo.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	views := make([]TutorialView, 0, len(ts))
	for i := range ts {
		// Rows that do not match their kind are not playable.
		if ts[i].Video() == nil {
			continue
		}
		views = append(views, *s.view(&ts[i]))
	}
	return views, nil
}

func (s *TutorialService) Delete(ctx context.Context, id uint) error {
	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, util.ErrTutorialNotFound)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrTutorialNotFound)
	}
	if local, ok := t.Video().(model.LocalVideo); ok {
		if err := s.Storage.Delete(ctx, local.ObjectKey); err != nil {
			logger.Log.Warn("tutorial object not removed", zap.String("key", local.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

// SourceURL resolves the playable address of a tutorial.
func (s *TutorialService) SourceURL(t *model.Tutorial) string {
	switch v := t.Video().(type) {
	case model.YouTubeVideo:
		return v.URL
	case model.LocalVideo:
		return s.Storage.GetURL(v.ObjectKey)
	default:
		return ""
	}
}

func (s *TutorialService) view(t *model.Tutorial) *TutorialView {
	return &TutorialView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Category:        t.Category,
		VideoKind:       t.VideoKind,
		VideoURL:        s.SourceURL(t),
		DurationSeconds: t.DurationSeconds,
		CreatedAt:       t.CreatedAt,
	}
}
