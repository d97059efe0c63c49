package gateway

import (
	"strings"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const (
	maxTitleLen      = 500
	maxAnnotationLen = 4000
)

// CreateInput holds parameters for creating a record.
type CreateInput struct {
	Type       domain.RecordType
	Title      string
	Visibility domain.Visibility
	Payload    map[string]any
}

// Validate validates the create input. An empty visibility defaults to
// PRIVATE before validation.
func (i *CreateInput) Validate() error {
	if i.Visibility == "" {
		i.Visibility = domain.VisibilityPrivate
	}

	var errs []domain.FieldError

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be 'POV' or 'TRR'"})
	}
	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}
	if !i.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be 'PRIVATE', 'TEAM' or 'ORG'"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// MutateInput holds parameters for a full-field record mutation.
type MutateInput struct {
	Title            *string
	Visibility       *domain.Visibility
	Payload          map[string]any
	ExpectedRevision int64
}

// Validate validates the mutate input.
func (i MutateInput) Validate() error {
	var errs []domain.FieldError

	if i.ExpectedRevision < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_revision", Message: "must be at least 1"})
	}
	if i.Title == nil && i.Visibility == nil && len(i.Payload) == 0 {
		errs = append(errs, domain.FieldError{Field: "patch", Message: "at least one field must change"})
	}
	if i.Title != nil {
		if strings.TrimSpace(*i.Title) == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "must not be blank"})
		} else if len(*i.Title) > maxTitleLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
		}
	}
	if i.Visibility != nil && !i.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be 'PRIVATE', 'TEAM' or 'ORG'"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// patch converts the input into a repository-level patch.
func (i MutateInput) patch() domain.RecordPatch {
	return domain.RecordPatch{
		Title:            i.Title,
		Visibility:       i.Visibility,
		Payload:          i.Payload,
		ExpectedRevision: i.ExpectedRevision,
	}
}

// AnnotateInput holds parameters for appending an annotation.
type AnnotateInput struct {
	Text             string
	ExpectedRevision int64
}

// Validate validates the annotate input.
func (i AnnotateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	} else if len(i.Text) > maxAnnotationLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long"})
	}
	if i.ExpectedRevision < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_revision", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
