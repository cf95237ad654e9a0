package usecase

import (
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/email"
	"anduber-forms-backend/pkg/security"
	"anduber-forms-backend/pkg/validation"
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type contactUsecase struct {
	validate  *validator.Validate
	spam      *security.SpamFilter
	composer  *email.Composer
	notifier  domain.Notifier
	secLogger *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(validate *validator.Validate, composer *email.Composer, notifier domain.Notifier, secLogger *security.SecurityLogger) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if secLogger == nil {
		secLogger = security.NopLogger()
	}
	return &contactUsecase{
		validate:  validate,
		spam:      security.ContactSpamFilter(),
		composer:  composer,
		notifier:  notifier,
		secLogger: secLogger,
	}
}

// Submit checks the honeypot, validates, filters spam and dispatches
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest, meta domain.SubmissionMeta) domain.Outcome {
	const form = "contact"

	if req.HoneypotFilled() {
		uc.secLogger.Log(ctx, security.SecurityEvent{
			Event:     security.EventHoneypotTriggered,
			Form:      form,
			IP:        meta.ClientID,
			UserAgent: meta.UserAgent,
			RequestID: meta.RequestID,
		})
		return domain.SilentlyDropped("honeypot")
	}

	req.Normalize()
	errs, err := uc.fieldErrors(req)
	if err != nil {
		return domain.Failed(err)
	}
	if len(errs) > 0 {
		uc.secLogger.LogSubmission(ctx, security.EventValidationFailed, form, "", meta.RequestID,
			map[string]interface{}{"fields": fieldNames(errs)})
		return domain.Rejected(errs)
	}

	if spam, reason := uc.spam.Check(req.Name, req.Subject, req.Message); spam {
		uc.secLogger.LogSubmission(ctx, security.EventSpamDetected, form, req.Email, meta.RequestID,
			map[string]interface{}{"reason": reason})
		return domain.SilentlyDropped(reason)
	}

	uc.secLogger.LogSubmission(ctx, security.EventSubmissionReceived, form, req.Email, meta.RequestID,
		map[string]interface{}{"inquiry_type": req.InquiryType})

	msg, err := uc.composer.ComposeContact(email.ContactEmailData{
		Name:         req.Name,
		Email:        req.Email,
		Subject:      req.Subject,
		Message:      req.Message,
		InquiryLabel: domain.InquiryLabel(req.InquiryType),
	})
	if err != nil {
		uc.secLogger.LogSubmission(ctx, security.EventServerError, form, req.Email, meta.RequestID,
			map[string]interface{}{"error": err.Error()})
		return domain.Failed(fmt.Errorf("compose contact email: %w", err))
	}

	return dispatch(ctx, uc.notifier, uc.secLogger, form, req.Email, meta, msg)
}

// fieldErrors validates req and reports mistyped fields as type errors in
// place of the empty-value error the validator gives them.
func (uc *contactUsecase) fieldErrors(req *domain.ContactRequest) ([]domain.FieldError, error) {
	var errs []domain.FieldError
	if err := uc.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate contact request: %w", err)
		}
		errs = validation.FormatValidationErrors(verrs)
	}

	for _, field := range req.MistypedFields {
		replaced := false
		for i := range errs {
			if errs[i].Field == field {
				errs[i] = validation.TypeMismatch(field)
				replaced = true
			}
		}
		if !replaced {
			errs = append(errs, validation.TypeMismatch(field))
		}
	}
	return errs, nil
}

// dispatch sends msg and records the result on the audit log.
func dispatch(ctx context.Context, notifier domain.Notifier, secLogger *security.SecurityLogger, form, submitter string, meta domain.SubmissionMeta, msg email.Message) domain.Outcome {
	res := notifier.Send(ctx, msg)
	if !res.Success {
		secLogger.LogSubmission(ctx, security.EventDispatchFailed, form, submitter, meta.RequestID,
			map[string]interface{}{
				"error":          res.Error,
				"attempts":       res.Attempts,
				"not_configured": res.NotConfigured,
			})
		return domain.DispatchFailed(res)
	}

	secLogger.LogSubmission(ctx, security.EventDispatchSucceeded, form, submitter, meta.RequestID,
		map[string]interface{}{"id": res.ID, "attempts": res.Attempts})
	return domain.Delivered(res)
}

func fieldNames(errs []domain.FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}
