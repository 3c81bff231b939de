package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/models"
	"github.com/jdgroup-ug/storefront/storage"
)

// CVStorage is the slice of the storage service the careers flow needs.
type CVStorage interface {
	UploadCV(ctx context.Context, key, contentType string, size int64, body io.Reader) (string, error)
	DeleteCV(ctx context.Context, key string) error
	SignedCVURL(ctx context.Context, key string) (string, error)
}

// ApplicationsClient is the slice of the platform client the careers flow
// needs.
type ApplicationsClient interface {
	InsertJobApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error)
}

// ApplicationForm carries the fields of the job application form.
type ApplicationForm struct {
	JobTitle    string `form:"job_title" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Phone       string `form:"phone" validate:"required,e164"`
	CoverLetter string `form:"cover_letter"`
}

// CVUpload describes the uploaded resume file.
type CVUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Careers submits job applications: validate, upload the CV, insert the
// application row. An insert failure deletes the uploaded file again so no
// orphaned object is left behind.
type Careers struct {
	storage  CVStorage
	client   ApplicationsClient
	validate *validator.Validate
}

func NewCareers(store CVStorage, client ApplicationsClient) *Careers {
	return &Careers{
		storage:  store,
		client:   client,
		validate: validator.New(),
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// jobSlug turns a job title into a storage/jobs key segment.
func jobSlug(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// SubmitApplication runs the full application flow. All validation is
// client-side and happens before any network call.
func (s *Careers) SubmitApplication(ctx context.Context, form ApplicationForm, cv CVUpload) (*models.JobApplication, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	if err := storage.ValidateCV(cv.Size, cv.ContentType); err != nil {
		return nil, err
	}

	slug := jobSlug(form.JobTitle)
	key := fmt.Sprintf("%s-%d%s", slug, time.Now().UnixMilli(), path.Ext(cv.Filename))

	if _, err := s.storage.UploadCV(ctx, key, cv.ContentType, cv.Size, cv.Body); err != nil {
		logger.Error(ctx, "CV upload failed", err, zap.String("job", slug))
		return nil, err
	}

	app := models.JobApplication{
		JobID:       slug,
		JobTitle:    form.JobTitle,
		Email:       form.Email,
		Phone:       form.Phone,
		CVPath:      key,
		CoverLetter: form.CoverLetter,
		Status:      models.StatusPending,
	}
	stored, err := s.client.InsertJobApplication(ctx, app)
	if err != nil {
		// Compensate: don't leave an orphaned CV object behind.
		if delErr := s.storage.DeleteCV(ctx, key); delErr != nil {
			logger.Error(ctx, "failed to clean up CV after insert failure", delErr, zap.String("key", key))
		}
		logger.Error(ctx, "application insert failed", err, zap.String("job", slug))
		return nil, err
	}
	return stored, nil
}

// CVDownloadURL returns a short-lived signed URL for a stored CV.
func (s *Careers) CVDownloadURL(ctx context.Context, cvPath string) (string, error) {
	return s.storage.SignedCVURL(ctx, cvPath)
}
