package domain

import (
	"anduber-forms-backend/pkg/validation"
	"context"
)

// JoinHoneypotField is hidden from human visitors of the join form.
const JoinHoneypotField = "website"

// JoinRequest is the raw application payload: base fields, category
// specific fields and the honeypot, keyed by their JSON names.
type JoinRequest map[string]any

// CategoryID returns the submitted categoryId, or "" if absent or not text.
func (r JoinRequest) CategoryID() string {
	id, _ := r["categoryId"].(string)
	return id
}

// HoneypotFilled reports whether any hidden field carries a value.
func (r JoinRequest) HoneypotFilled() bool {
	for _, name := range joinHoneypots {
		if honeypotSet(r[name]) {
			return true
		}
	}
	return false
}

// JoinCategory is one way to get involved, with the fields its form collects.
type JoinCategory struct {
	ID       string
	Title    string
	Subtitle string
	Fields   []validation.FieldDescriptor
}

// Schema is the full validation schema for the category: base fields, the
// category's own fields, the common optional extras and the honeypot.
func (c JoinCategory) Schema() validation.Schema {
	return BaseJoinSchema().
		With(c.Fields...).
		With(commonJoinFields...).
		WithHoneypot(JoinHoneypotField)
}

// BaseJoinSchema holds the fields every application carries.
func BaseJoinSchema() validation.Schema {
	return validation.NewSchema(
		validation.FieldDescriptor{Name: "category", Label: "Category", Kind: validation.KindText, Required: true, MaxLength: 100},
		validation.FieldDescriptor{Name: "categoryId", Label: "Category", Kind: validation.KindText, Required: true, MaxLength: 100},
		validation.FieldDescriptor{Name: "name", Label: "Full Name", Kind: validation.KindText, Required: true, MinLength: 2, MaxLength: 100},
		validation.FieldDescriptor{Name: "email", Label: "Email Address", Kind: validation.KindEmail, Required: true, MaxLength: 254},
	).WithHoneypot(JoinHoneypotField)
}

var joinHoneypots = BaseJoinSchema().HoneypotFields()

// FindJoinCategory looks a category up by id.
func FindJoinCategory(id string) (JoinCategory, bool) {
	for _, c := range JoinCategories {
		if c.ID == id {
			return c, true
		}
	}
	return JoinCategory{}, false
}

// JoinUsecase defines the interface for join application operations
type JoinUsecase interface {
	Submit(ctx context.Context, req JoinRequest, meta SubmissionMeta) Outcome
}

var commonJoinFields = []validation.FieldDescriptor{
	{Name: "organization", Label: "Organization", Kind: validation.KindText},
	{Name: "expertise", Label: "Expertise", Kind: validation.KindText},
	{Name: "message", Label: "Message", Kind: validation.KindTextarea},
	{Name: "linkedIn", Label: "LinkedIn", Kind: validation.KindText},
	{Name: "portfolio", Label: "Portfolio", Kind: validation.KindText},
	{Name: "interests", Label: "Interests", Kind: validation.KindMultiselect},
}

var (
	nameField  = validation.FieldDescriptor{Name: "name", Label: "Full Name", Kind: validation.KindText, Required: true}
	emailField = validation.FieldDescriptor{Name: "email", Label: "Email Address", Kind: validation.KindEmail, Required: true}

	availabilityOptions = []string{"Immediate", "Within 2 weeks", "Within a month", "Flexible"}
)

// JoinCategories is the catalog offered on the "join the movement" page.
var JoinCategories = []JoinCategory{
	{
		ID:       "careers",
		Title:    "Join Our Team",
		Subtitle: "Careers",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "roleInterest", Label: "Role of Interest", Kind: validation.KindSelect, Required: true,
				Options: []string{"Operations", "Programs", "Communications", "Finance", "Other"}},
			{Name: "cvLink", Label: "CV/Resume Link (Google Drive, Dropbox, LinkedIn)", Kind: validation.KindText, Required: true},
			{Name: "whyAnduber", Label: "Why AnduBer?", Kind: validation.KindTextarea, Required: true},
		},
	},
	{
		ID:       "consultants",
		Title:    "Expert Consultants",
		Subtitle: "Consultant Roster",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "expertiseAreas", Label: "Expertise Areas", Kind: validation.KindMultiselect, Required: true,
				Options: []string{"Strategy", "M&E", "Communications", "Legal", "Finance", "Technology", "Research", "Policy"}},
			{Name: "dayRate", Label: "Day Rate (USD) or 'Open to discussion'", Kind: validation.KindText},
			{Name: "portfolioLink", Label: "Portfolio / LinkedIn", Kind: validation.KindText, Required: true},
			{Name: "availability", Label: "Availability", Kind: validation.KindSelect, Required: true, Options: availabilityOptions},
		},
	},
	{
		ID:       "expert-volunteers",
		Title:    "Share Your Expertise",
		Subtitle: "Expert Volunteers",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "expertiseArea", Label: "Area of Expertise", Kind: validation.KindText, Required: true},
			{Name: "hoursPerMonth", Label: "Hours Available per Month", Kind: validation.KindSelect, Required: true,
				Options: []string{"1-5 hours", "5-10 hours", "10-20 hours", "20+ hours", "Flexible"}},
			{Name: "contribution", Label: "What You'd Like to Contribute", Kind: validation.KindTextarea, Required: true},
		},
	},
	{
		ID:       "learning-volunteers",
		Title:    "Learn With Us",
		Subtitle: "Interns & Fellows",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "background", Label: "Current Studies / Background", Kind: validation.KindText, Required: true},
			{Name: "areaOfInterest", Label: "Area of Interest", Kind: validation.KindSelect, Required: true,
				Options: []string{"Research", "Communications", "Design", "Data", "Programs", "Other"}},
			{Name: "learningGoals", Label: "What You Hope to Learn", Kind: validation.KindTextarea, Required: true},
			{Name: "availability", Label: "Availability", Kind: validation.KindSelect, Required: true,
				Options: []string{"Full-time (40+ hrs/week)", "Part-time (20-40 hrs/week)", "Limited (10-20 hrs/week)", "Flexible"}},
		},
	},
	{
		ID:       "ideas",
		Title:    "Bring Your Ideas",
		Subtitle: "Ideas & Innovators",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "ideaDescription", Label: "Your Idea (Brief Description)", Kind: validation.KindTextarea, Required: true},
			{Name: "problemSolved", Label: "Problem It Solves", Kind: validation.KindTextarea, Required: true},
			{Name: "background", Label: "Your Background", Kind: validation.KindText, Required: true},
			{Name: "supportNeeded", Label: "What Support You Need", Kind: validation.KindTextarea, Required: true},
		},
	},
	{
		ID:       "connectors",
		Title:    "Open Doors",
		Subtitle: "Community Connectors",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "network", Label: "Your Network / Connections", Kind: validation.KindTextarea, Required: true},
			{Name: "howToHelp", Label: "How You'd Like to Help", Kind: validation.KindTextarea, Required: true},
		},
	},
	{
		ID:       "financial",
		Title:    "Invest in Change",
		Subtitle: "Financial Partners",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "organization", Label: "Organization (if applicable)", Kind: validation.KindText},
			{Name: "supportType", Label: "Type of Support Interested In", Kind: validation.KindSelect, Required: true,
				Options: []string{"One-time Donation", "Monthly Giving", "Grant Funding", "Impact Investment", "Other"}},
			{Name: "fundingRange", Label: "Funding Range (Optional)", Kind: validation.KindSelect,
				Options: []string{"Under $1,000", "$1,000 - $10,000", "$10,000 - $50,000", "$50,000 - $100,000", "$100,000+", "Prefer not to say"}},
			{Name: "impactAreas", Label: "What Impact Areas Interest You", Kind: validation.KindTextarea, Required: true},
		},
	},
	{
		ID:       "ambassadors",
		Title:    "Spread the Word",
		Subtitle: "Ambassadors",
		Fields: []validation.FieldDescriptor{
			nameField,
			emailField,
			{Name: "location", Label: "Location", Kind: validation.KindText, Required: true},
			{Name: "howToSpreadWord", Label: "How You'd Like to Help Spread the Word", Kind: validation.KindTextarea, Required: true},
			{Name: "platform", Label: "Your Platform / Reach", Kind: validation.KindTextarea, Required: true},
		},
	},
}
