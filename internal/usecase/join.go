package usecase

import (
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/email"
	"anduber-forms-backend/pkg/security"
	"anduber-forms-backend/pkg/validation"
	"context"
	"fmt"
	"strings"
)

type joinUsecase struct {
	validator *validation.SchemaValidator
	spam      *security.SpamFilter
	composer  *email.Composer
	notifier  domain.Notifier
	secLogger *security.SecurityLogger
}

// NewJoinUsecase creates a new join application usecase
func NewJoinUsecase(sv *validation.SchemaValidator, composer *email.Composer, notifier domain.Notifier, secLogger *security.SecurityLogger) domain.JoinUsecase {
	if sv == nil {
		sv = validation.NewSchemaValidator(nil)
	}
	if secLogger == nil {
		secLogger = security.NopLogger()
	}
	return &joinUsecase{
		validator: sv,
		spam:      security.JoinSpamFilter(),
		composer:  composer,
		notifier:  notifier,
		secLogger: secLogger,
	}
}

// Submit resolves the category, validates against its schema, filters spam
// and dispatches. Fields outside the schema never reach the email.
func (uc *joinUsecase) Submit(ctx context.Context, req domain.JoinRequest, meta domain.SubmissionMeta) domain.Outcome {
	const form = "join"

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

	categoryID := strings.TrimSpace(req.CategoryID())
	category, known := domain.FindJoinCategory(categoryID)

	schema := domain.BaseJoinSchema()
	if known {
		schema = category.Schema()
	}

	values, errs := uc.validator.Validate(schema, req)
	if !known && categoryID != "" {
		errs = append(errs, domain.FieldError{Field: "categoryId", Message: "Unknown category"})
	}
	if len(errs) > 0 {
		uc.secLogger.LogSubmission(ctx, security.EventValidationFailed, form, "", meta.RequestID,
			map[string]interface{}{"category_id": categoryID, "fields": fieldNames(errs)})
		return domain.Rejected(errs)
	}

	submitter := values.String("email")

	prose, links := textValues(schema, values)
	if spam, reason := uc.spam.CheckWithLinks(prose, links); spam {
		uc.secLogger.LogSubmission(ctx, security.EventSpamDetected, form, submitter, meta.RequestID,
			map[string]interface{}{"reason": reason, "category_id": category.ID})
		return domain.SilentlyDropped(reason)
	}

	uc.secLogger.LogSubmission(ctx, security.EventSubmissionReceived, form, submitter, meta.RequestID,
		map[string]interface{}{"category_id": category.ID})

	msg, err := uc.composer.ComposeJoin(email.JoinEmailData{
		Category: category.Title,
		Name:     values.String("name"),
		Email:    submitter,
		Fields:   emailFields(schema, values),
	})
	if err != nil {
		uc.secLogger.LogSubmission(ctx, security.EventServerError, form, submitter, meta.RequestID,
			map[string]interface{}{"error": err.Error()})
		return domain.Failed(fmt.Errorf("compose join email: %w", err))
	}

	return dispatch(ctx, uc.notifier, uc.secLogger, form, submitter, meta, msg)
}

// textValues flattens every validated value in schema order. Textarea
// answers are prose; single-line fields and selections mostly carry names,
// options and links.
func textValues(schema validation.Schema, values validation.Values) (prose, other []string) {
	for _, f := range schema.Fields {
		switch f.Kind {
		case validation.KindMultiselect:
			other = append(other, values.Strings(f.Name)...)
		case validation.KindTextarea:
			if s := values.String(f.Name); s != "" {
				prose = append(prose, s)
			}
		default:
			if s := values.String(f.Name); s != "" {
				other = append(other, s)
			}
		}
	}
	return prose, other
}

// emailFields lists the labelled rows of the application email.
func emailFields(schema validation.Schema, values validation.Values) []email.Field {
	var rows []email.Field
	for _, f := range schema.Fields {
		switch f.Name {
		case "category", "categoryId":
			continue
		}
		if f.Kind == validation.KindHoneypot {
			continue
		}

		var value string
		if f.Kind == validation.KindMultiselect {
			value = strings.Join(values.Strings(f.Name), ", ")
		} else {
			value = values.String(f.Name)
		}
		if value == "" {
			continue
		}

		label := f.Label
		if label == "" {
			label = f.Name
		}
		rows = append(rows, email.Field{Label: label, Value: value})
	}
	return rows
}
