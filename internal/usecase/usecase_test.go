package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/internal/usecase"
	"anduber-forms-backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) Send(ctx context.Context, msg email.Message) email.DispatchResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(email.DispatchResult)
}

func (m *MockNotifier) sent(t *testing.T) email.Message {
	t.Helper()
	require.Len(t, m.Calls, 1)
	return m.Calls[0].Arguments.Get(1).(email.Message)
}

var meta = domain.SubmissionMeta{ClientID: "203.0.113.7", RequestID: "req-1", UserAgent: "test"}

func newComposer() *email.Composer {
	return email.NewComposer("AnduBer <noreply@anduber.org>", "info@anduberinnovate.org")
}

func validContact() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Subject:     "Research collaboration",
		Message:     "We would like to explore a joint study with AnduBer Labs.",
		InquiryType: "labs",
	}
}

func TestContactSubmit(t *testing.T) {
	t.Run("Should dispatch once with reply-to and escaped body", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Success: true, ID: "msg_1", Attempts: 1})
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		req := validContact()
		req.Email = "  ada@example.com "
		req.InquiryType = "general"
		req.Message = "<script>alert(1)</script> please reply"

		out := uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeDelivered, out.Kind)
		assert.Equal(t, "msg_1", out.Dispatch.ID)
		msg := notifier.sent(t)
		assert.Equal(t, "ada@example.com", msg.ReplyTo)
		assert.Equal(t, "info@anduberinnovate.org", msg.To)
		assert.Equal(t, "[Contact Form] Research collaboration", msg.Subject)
		assert.Contains(t, msg.HTML, "&lt;script&gt;")
		assert.NotContains(t, msg.HTML, "<script>")
		assert.Contains(t, msg.HTML, "General Inquiry")
	})

	t.Run("Should silently drop when a honeypot is filled", func(t *testing.T) {
		for _, fill := range []func(*domain.ContactRequest){
			func(r *domain.ContactRequest) { r.Website = "http://bot.example" },
			func(r *domain.ContactRequest) { r.URL = "x" },
			func(r *domain.ContactRequest) { r.PhoneNumber = "555-0100" },
			func(r *domain.ContactRequest) { r.Website = float64(1) },
			func(r *domain.ContactRequest) { r.URL = true },
		} {
			notifier := new(MockNotifier)
			uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

			req := validContact()
			fill(req)
			out := uc.Submit(context.Background(), req, meta)

			assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
			assert.Equal(t, "honeypot", out.Reason)
			notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		}
	})

	t.Run("Should drop a bot before reporting field errors", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), &domain.ContactRequest{Website: "filled"}, meta)
		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
	})

	t.Run("Should silently drop spam", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		req := validContact()
		req.Message = "Act now and double your bitcoin in one week!"
		out := uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
		assert.Equal(t, "spam_vocabulary", out.Reason)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should report one error per offending field", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), &domain.ContactRequest{
			Name:        "X",
			Email:       "not-an-email",
			Subject:     "Hi",
			Message:     "short",
			InquiryType: "sales",
		}, meta)

		require.Equal(t, domain.OutcomeRejected, out.Kind)
		assert.Equal(t, []domain.FieldError{
			{Field: "name", Message: "Name must be at least 2 characters"},
			{Field: "email", Message: "Please enter a valid email address"},
			{Field: "subject", Message: "Subject must be at least 5 characters"},
			{Field: "message", Message: "Message must be at least 20 characters"},
			{Field: "inquiryType", Message: "Please select a valid inquiry type"},
		}, out.Errors)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should report a mistyped field once as a type error", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		req := validContact()
		req.Name = ""
		req.MistypedFields = []string{"name"}
		out := uc.Submit(context.Background(), req, meta)

		require.Equal(t, domain.OutcomeRejected, out.Kind)
		assert.Equal(t, []domain.FieldError{{Field: "name", Message: "Name must be text"}}, out.Errors)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should drop suspicious content instead of rejecting it", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		req := validContact()
		req.Message = "Free " + strings.Repeat("!", 15) + " winner winner chicken dinner"
		out := uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
	})

	t.Run("Should surface dispatch failure", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Error: "boom", Attempts: 2})
		uc := usecase.NewContactUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), validContact(), meta)

		assert.Equal(t, domain.OutcomeDispatchFailed, out.Kind)
		assert.Equal(t, 2, out.Dispatch.Attempts)
		notifier.AssertNumberOfCalls(t, "Send", 1)
	})
}

func careersApplication() domain.JoinRequest {
	return domain.JoinRequest{
		"category":     "Join Our Team",
		"categoryId":   "careers",
		"name":         "Amara Okafor",
		"email":        "amara@example.org",
		"roleInterest": "Programs",
		"cvLink":       "https://drive.example/cv",
		"whyAnduber":   "I have run community programmes for ten years.",
		"interests":    []any{"Education", "Health"},
		"website":      "",
		"isAdmin":      "true",
	}
}

func TestJoinSubmit(t *testing.T) {
	t.Run("Should dispatch only schema fields in order", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Success: true, ID: "msg_2", Attempts: 1})
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), careersApplication(), meta)

		require.Equal(t, domain.OutcomeDelivered, out.Kind)
		msg := notifier.sent(t)
		assert.Equal(t, "[Join Our Team] New Application from Amara Okafor", msg.Subject)
		assert.Equal(t, "amara@example.org", msg.ReplyTo)
		assert.Contains(t, msg.HTML, "Role of Interest")
		assert.Contains(t, msg.HTML, "Education, Health")
		assert.NotContains(t, msg.HTML, "isAdmin")
		assert.Less(t, strings.Index(msg.HTML, "Role of Interest"), strings.Index(msg.HTML, "Why AnduBer?"))
	})

	t.Run("Should use the catalog title", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Success: true})
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		req := careersApplication()
		req["category"] = "<b>Anything</b>"
		uc.Submit(context.Background(), req, meta)

		assert.True(t, strings.HasPrefix(notifier.sent(t).Subject, "[Join Our Team]"))
	})

	t.Run("Should reject an unknown category", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		req := careersApplication()
		req["categoryId"] = "astronauts"
		out := uc.Submit(context.Background(), req, meta)

		require.Equal(t, domain.OutcomeRejected, out.Kind)
		assert.Equal(t, []domain.FieldError{{Field: "categoryId", Message: "Unknown category"}}, out.Errors)
	})

	t.Run("Should report missing category fields", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		req := careersApplication()
		delete(req, "cvLink")
		req["roleInterest"] = "Astronaut"
		req["whyAnduber"] = "Because"
		out := uc.Submit(context.Background(), req, meta)

		require.Equal(t, domain.OutcomeRejected, out.Kind)
		assert.Equal(t, []domain.FieldError{
			{Field: "roleInterest", Message: "Please select a valid option for Role of Interest"},
			{Field: "cvLink", Message: "CV/Resume Link (Google Drive, Dropbox, LinkedIn) is required"},
			{Field: "whyAnduber", Message: "Please provide more detail"},
		}, out.Errors)
	})

	t.Run("Should silently drop when the honeypot is filled", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		req := careersApplication()
		req["website"] = "http://bot.example"
		out := uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should silently drop spam", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		req := careersApplication()
		req["whyAnduber"] = `Read more <a href="http://x.example">here</a> about it`
		out := uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
		assert.Equal(t, "link_markup", out.Reason)
	})

	t.Run("Should cap URLs in free text but not in link fields", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Success: true})
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), domain.JoinRequest{
			"category":       "Expert Consultants",
			"categoryId":     "consultants",
			"name":           "Kofi Mensah",
			"email":          "kofi@example.org",
			"expertiseAreas": []any{"Strategy"},
			"portfolioLink":  "https://portfolio.example https://linkedin.example/in/kofi https://github.example/kofi https://blog.example",
			"availability":   "Immediate",
		}, meta)
		require.Equal(t, domain.OutcomeDelivered, out.Kind)

		req := careersApplication()
		req["message"] = "see https://a.example https://b.example https://c.example https://d.example"
		out = uc.Submit(context.Background(), req, meta)

		assert.Equal(t, domain.OutcomeSilentlyDropped, out.Kind)
		assert.Equal(t, "too_many_urls", out.Reason)
		notifier.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Should accept impact investment from financial partners", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Send", mock.Anything, mock.Anything).Return(email.DispatchResult{Success: true})
		uc := usecase.NewJoinUsecase(nil, newComposer(), notifier, nil)

		out := uc.Submit(context.Background(), domain.JoinRequest{
			"category":     "Invest in Change",
			"categoryId":   "financial",
			"name":         "Kofi Mensah",
			"email":        "kofi@example.org",
			"organization": "Mensah Capital",
			"supportType":  "Impact Investment",
			"fundingRange": "$10,000 - $50,000",
			"impactAreas":  "Youth employment and climate resilience.",
		}, meta)

		assert.Equal(t, domain.OutcomeDelivered, out.Kind)
		assert.Contains(t, notifier.sent(t).HTML, "Organization (if applicable)")
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Should report memory store and ready email", func(t *testing.T) {
		status := usecase.NewHealthUsecase("resend", true, nil).Check(context.Background())

		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "resend", status["email"])
		assert.Equal(t, "memory", status["rate_limit_store"])
		assert.NotContains(t, status, "redis")
	})

	t.Run("Should degrade when redis is unreachable", func(t *testing.T) {
		ping := func(context.Context) error { return errors.New("dial tcp: connection refused") }
		status := usecase.NewHealthUsecase("resend", true, ping).Check(context.Background())

		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "redis", status["rate_limit_store"])
		assert.Equal(t, "unreachable", status["redis"])
	})

	t.Run("Should degrade without an email provider", func(t *testing.T) {
		status := usecase.NewHealthUsecase("none", false, func(context.Context) error { return nil }).Check(context.Background())

		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "ok", status["redis"])
	})
}
