package posting

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/liftmate/liftmate/internal/posting/capture"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/liftmate/liftmate/pkg/resilience"
	"github.com/liftmate/liftmate/pkg/storage"
	"github.com/liftmate/liftmate/pkg/validation"
	"go.uber.org/zap"
)

// RideCreator inserts a ride and emits the refresh signal
type RideCreator interface {
	CreateRide(ctx context.Context, ride *rides.RidePost) error
}

// Service drives the posting wizard
type Service struct {
	drafts   DraftStore
	captures *capture.Registry
	rides    RideCreator
	bucket   storage.Storage
	retry    resilience.RetryConfig
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a posting service. bucket may be nil, in which case
// every selfie is embedded inline.
func NewService(drafts DraftStore, captures *capture.Registry, creator RideCreator, bucket storage.Storage, ttl time.Duration) *Service {
	return &Service{
		drafts:   drafts,
		captures: captures,
		rides:    creator,
		bucket:   bucket,
		retry:    resilience.DefaultRetryConfig(),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithRetry replaces the upload retry policy
func (s *Service) WithRetry(cfg resilience.RetryConfig) *Service {
	s.retry = cfg
	return s
}

func (s *Service) load(ctx context.Context, id string) (*Draft, error) {
	if id == "" {
		return nil, notFound()
	}
	draft, err := s.drafts.Get(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, notFound()
	}
	if err != nil {
		return nil, common.NewInternalError("failed to load draft", err)
	}
	return draft, nil
}

func (s *Service) save(ctx context.Context, draft *Draft) error {
	draft.Generation++
	draft.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return common.NewInternalError("failed to save draft", err)
	}
	return nil
}

// Start opens a new draft at the category step. userName pre-fills the
// driver name when the visitor is logged in.
func (s *Service) Start(ctx context.Context, userName string) (*Draft, error) {
	draft := &Draft{
		ID:       uuid.New().String(),
		Step:     StepCategory,
		UserName: userName,
	}
	draft.Details.DriverName = userName

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Debug("posting draft started", zap.String("draft_id", draft.ID))
	return draft, nil
}

// Get returns the draft with id
func (s *Service) Get(ctx context.Context, id string) (*Draft, error) {
	return s.load(ctx, id)
}

// ChooseCategory records passengers or parcel and moves to the details step
func (s *Service) ChooseCategory(ctx context.Context, id, postType string) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepCategory {
		return nil, wrongStep(draft.Step)
	}
	if postType != string(rides.PostTypePassengers) && postType != string(rides.PostTypeParcel) {
		return nil, common.NewBadRequestError("post type must be passengers or parcel", ErrValidation)
	}

	draft.PostType = postType
	draft.Details.PostType = postType
	draft.Step = StepDetails
	draft.LastError = ""
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SubmitDetails validates the trip details. Valid details move the draft to
// the verify step and open a fresh capture stream; invalid ones are kept on
// the draft so the form can be shown again, and a *FieldErrors is returned.
func (s *Service) SubmitDetails(ctx context.Context, id string, details Details) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepDetails {
		return nil, wrongStep(draft.Step)
	}

	details.PostType = draft.PostType
	details.Clean()
	draft.Details = details

	if verr := validation.ValidateStruct(&details); verr != nil {
		if err := s.save(ctx, draft); err != nil {
			return nil, err
		}
		return draft, fieldErrors(verr)
	}

	if err := s.captures.Open(draft.ID); err != nil {
		return nil, common.NewInternalError("failed to prepare capture", err)
	}
	draft.Step = StepVerify
	draft.HasCapture = false
	draft.HumanConfirmed = false
	draft.LastError = ""
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Capture stores the selfie taken on the verify step
func (s *Service) Capture(ctx context.Context, id string, image []byte) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepVerify {
		return nil, wrongStep(draft.Step)
	}
	if _, _, err := storage.DetectImage(image); err != nil {
		return nil, submitRejected("posting.error.image")
	}

	if !s.captures.Has(draft.ID) {
		if err := s.captures.Open(draft.ID); err != nil {
			return nil, common.NewInternalError("failed to prepare capture", err)
		}
	}
	if _, err := s.captures.Write(draft.ID, bytes.NewReader(image)); err != nil {
		return nil, common.NewBadRequestError(err.Error(), ErrValidation)
	}

	draft.HasCapture = true
	draft.LastError = ""
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Retake discards the capture and opens a fresh stream
func (s *Service) Retake(ctx context.Context, id string) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepVerify {
		return nil, wrongStep(draft.Step)
	}

	if err := s.captures.Open(draft.ID); err != nil {
		return nil, common.NewInternalError("failed to prepare capture", err)
	}
	draft.HasCapture = false
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// ConfirmHuman records the "I am human" checkbox
func (s *Service) ConfirmHuman(ctx context.Context, id string, confirmed bool) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepVerify {
		return nil, wrongStep(draft.Step)
	}

	draft.HumanConfirmed = confirmed
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Preview returns the captured selfie of the draft and its content type
func (s *Service) Preview(ctx context.Context, id string) ([]byte, string, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !draft.HasCapture {
		return nil, "", common.NewNotFoundError(i18n.T("posting.error.capture"), ErrValidation)
	}
	image, err := s.captures.Read(draft.ID)
	if err != nil {
		return nil, "", common.NewNotFoundError(i18n.T("posting.error.capture"), err)
	}
	contentType, _, err := storage.DetectImage(image)
	if err != nil {
		return nil, "", submitRejected("posting.error.image")
	}
	return image, contentType, nil
}

// Back returns to the category step from any step, keeping entered details
func (s *Service) Back(ctx context.Context, id string) (*Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.captures.Release(draft.ID)
	draft.Step = StepCategory
	draft.HasCapture = false
	draft.HumanConfirmed = false
	draft.RideID = ""
	draft.LastError = ""
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Cancel closes the wizard, releasing the capture stream and the draft
func (s *Service) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.captures.Release(id)
	if err := s.drafts.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete draft", err)
	}
	return nil
}

// Submit posts the draft. Checks that need no network run first: name,
// capture, human confirmation. A failed insert leaves the draft and capture
// untouched so the visitor can retry. If the draft was cancelled or changed
// while the insert was in flight, the result is not applied to it.
func (s *Service) Submit(ctx context.Context, id string) (*rides.RidePost, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepVerify {
		return nil, wrongStep(draft.Step)
	}
	generation := draft.Generation

	if draft.Details.DriverName == "" {
		return nil, submitRejected("posting.error.name")
	}
	if !draft.HasCapture {
		return nil, submitRejected("posting.error.capture")
	}
	image, err := s.captures.Read(draft.ID)
	if err != nil {
		return nil, submitRejected("posting.error.capture")
	}
	if !draft.HumanConfirmed {
		return nil, submitRejected("posting.error.human")
	}

	ride, postErr := s.post(ctx, draft.Details, image)

	current, err := s.drafts.Get(context.WithoutCancel(ctx), draft.ID)
	if err != nil || current.Generation != generation {
		logger.WithContext(ctx).Info("late submit result ignored",
			zap.String("draft_id", draft.ID),
			zap.Bool("posted", postErr == nil),
		)
		return ride, postErr
	}

	if postErr != nil {
		current.LastError = postErr.Error()
		if appErr, ok := common.AsAppError(postErr); ok {
			current.LastError = appErr.Message
		}
		if err := s.save(ctx, current); err != nil {
			logger.WithContext(ctx).Warn("failed to record submit error", zap.Error(err))
		}
		return nil, postErr
	}

	s.captures.Release(current.ID)
	current.Step = StepDone
	current.RideID = ride.ID.String()
	current.LastError = ""
	if err := s.save(ctx, current); err != nil {
		logger.WithContext(ctx).Warn("failed to mark draft done", zap.Error(err))
	}
	return ride, nil
}

// Post validates and inserts a complete submission without a draft
func (s *Service) Post(ctx context.Context, sub Submission) (*rides.RidePost, error) {
	details := sub.Details
	details.Clean()

	if details.DriverName == "" {
		return nil, submitRejected("posting.error.name")
	}
	if len(sub.Image) == 0 {
		return nil, submitRejected("posting.error.capture")
	}
	if !sub.HumanConfirmed {
		return nil, submitRejected("posting.error.human")
	}
	if err := validation.ValidateStruct(&details); err != nil {
		return nil, fieldErrors(err)
	}

	return s.post(ctx, details, sub.Image)
}

// post stores the selfie and inserts the ride
func (s *Service) post(ctx context.Context, details Details, image []byte) (*rides.RidePost, error) {
	contentType, ext, err := storage.DetectImage(image)
	if err != nil {
		return nil, submitRejected("posting.error.image")
	}

	selfieURL := s.storeSelfie(ctx, image, contentType, ext)

	ride := details.ToRide()
	ride.SelfieURL = &selfieURL
	if err := s.rides.CreateRide(ctx, ride); err != nil {
		submissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	submissionsTotal.WithLabelValues("posted").Inc()
	return ride, nil
}

// storeSelfie uploads image to the bucket and returns its public URL. When
// the upload fails the image is embedded as a data URI instead.
func (s *Service) storeSelfie(ctx context.Context, image []byte, contentType, ext string) string {
	if s.bucket == nil {
		selfieUploadFallbacksTotal.Inc()
		return storage.DataURI(contentType, image)
	}

	key := storage.GenerateSelfieKey(s.now().UTC(), ext)
	res, err := resilience.Retry(ctx, s.retry, func(ctx context.Context) (interface{}, error) {
		return s.bucket.Upload(ctx, key, bytes.NewReader(image), int64(len(image)), contentType)
	})
	if err == nil {
		if uploaded, ok := res.(*storage.UploadResult); ok && uploaded != nil && uploaded.URL != "" {
			return uploaded.URL
		}
	}

	selfieUploadFallbacksTotal.Inc()
	logger.WithContext(ctx).Warn("selfie upload failed, embedding inline",
		zap.String("key", key),
		zap.Error(err),
	)
	return storage.DataURI(contentType, image)
}

// Sweep releases capture streams idle longer than the draft TTL, along with
// those of drafts the in-memory store expired
func (s *Service) Sweep() int {
	released := 0
	if mem, ok := s.drafts.(*MemoryDraftStore); ok {
		for _, id := range mem.Sweep() {
			if s.captures.Has(id) {
				s.captures.Release(id)
				released++
			}
		}
	}
	return released + s.captures.Sweep(s.ttl)
}

// StartJanitor runs RunJanitor in the background. The returned channel is
// closed once every capture stream has been released after ctx is done;
// callers wait on it before exiting.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.RunJanitor(ctx, interval)
	}()
	return done
}

// RunJanitor calls Sweep every interval and releases every stream once ctx is done
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.captures.ReleaseAll()
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("released idle capture streams", zap.Int("count", n))
			}
		}
	}
}
