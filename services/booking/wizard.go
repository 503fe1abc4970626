package booking

import (
	"strings"

	"barberbook/models"
)

// StepReason explains why a wizard transition was rejected.
type StepReason string

const (
	ReasonMissingService     StepReason = "missingService"
	ReasonMissingDate        StepReason = "missingDate"
	ReasonMissingTime        StepReason = "missingTime"
	ReasonMissingSubject     StepReason = "missingSubject"
	ReasonInvalidContactInfo StepReason = "invalidContactInfo"
	ReasonInvalidStep        StepReason = "invalidStep"
)

// StepResult is the outcome of a transition attempt. Precondition failures
// are values, not errors: the wizard itself has no fatal path.
type StepResult struct {
	OK          bool              `json:"ok"`
	Step        models.WizardStep `json:"step"`
	Reason      StepReason        `json:"reason,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// Wizard enforces the booking flow's legal transitions over a
// BookingSelection. It owns no I/O; availability fetching belongs to the
// session service.
//
//	ServiceSelect → DateSelect → TimeSelect → SubjectSelect (authenticated)
//	                                        ↘ ContactInfo   (guest)
//	SubjectSelect | ContactInfo → Confirm → Completed
type Wizard struct {
	Step          models.WizardStep
	Authenticated bool
	Selection     *models.BookingSelection
}

// NewWizard starts a wizard at service selection.
func NewWizard(authenticated bool, selection *models.BookingSelection) *Wizard {
	return &Wizard{
		Step:          models.StepServiceSelect,
		Authenticated: authenticated,
		Selection:     selection,
	}
}

// NextStep derives the step after `step` for the given auth state:
// authenticated users pick who the appointment is for, guests leave
// contact details.
func NextStep(step models.WizardStep, authenticated bool) models.WizardStep {
	switch step {
	case models.StepServiceSelect:
		return models.StepDateSelect
	case models.StepDateSelect:
		return models.StepTimeSelect
	case models.StepTimeSelect:
		if authenticated {
			return models.StepSubjectSelect
		}
		return models.StepContactInfo
	case models.StepSubjectSelect, models.StepContactInfo:
		return models.StepConfirm
	case models.StepConfirm:
		return models.StepCompleted
	}
	return step
}

func (w *Wizard) ok() StepResult {
	return StepResult{OK: true, Step: w.Step}
}

func (w *Wizard) reject(reason StepReason) StepResult {
	return StepResult{OK: false, Step: w.Step, Reason: reason}
}

// SelectService records the chosen service and moves to date selection.
// Permitted from any non-terminal step; re-picking the service clears a
// previously chosen time, since the grid depends on the service's duration.
func (w *Wizard) SelectService(svc models.Service) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if svc.ID == "" || svc.Duration <= 0 {
		return w.reject(ReasonMissingService)
	}
	w.Selection.Service = &svc
	w.Selection.Start = nil
	w.Step = NextStep(models.StepServiceSelect, w.Authenticated)
	return w.ok()
}

// SelectDate records the chosen date and moves to time selection, clearing
// any previously chosen time.
func (w *Wizard) SelectDate(date string) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Service == nil {
		return w.reject(ReasonMissingService)
	}
	if date == "" {
		return w.reject(ReasonMissingDate)
	}
	w.Selection.Date = date
	w.Selection.Start = nil
	w.Step = NextStep(models.StepDateSelect, w.Authenticated)
	return w.ok()
}

// SelectTime records the chosen start time (minutes from midnight) and
// branches on auth state.
func (w *Wizard) SelectTime(start int) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Service == nil {
		return w.reject(ReasonMissingService)
	}
	if w.Selection.Date == "" {
		return w.reject(ReasonMissingDate)
	}
	w.Selection.Start = &start
	w.Step = NextStep(models.StepTimeSelect, w.Authenticated)
	return w.ok()
}

// ChooseSelf books the appointment for the signed-in user.
func (w *Wizard) ChooseSelf() StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Start == nil {
		return w.reject(ReasonMissingTime)
	}
	w.Selection.BookForSelf = true
	w.Selection.FamilyMember = nil
	w.Selection.ContactInfo = nil
	w.Step = models.StepConfirm
	return w.ok()
}

// ChooseFamilyMember books the appointment for a family member.
func (w *Wizard) ChooseFamilyMember(member models.FamilyMember) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Start == nil {
		return w.reject(ReasonMissingTime)
	}
	w.Selection.FamilyMember = &member
	w.Selection.BookForSelf = false
	w.Selection.ContactInfo = nil
	w.Step = models.StepConfirm
	return w.ok()
}

// SetContactInfo records guest contact details. Invalid fields reject the
// transition with per-field errors; the wizard stays on ContactInfo.
func (w *Wizard) SetContactInfo(info models.ContactInfo) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Start == nil {
		return w.reject(ReasonMissingTime)
	}
	if errs := ValidateContactInfo(info); len(errs) > 0 {
		return StepResult{
			OK:          false,
			Step:        w.Step,
			Reason:      ReasonInvalidContactInfo,
			FieldErrors: errs,
		}
	}
	w.Selection.ContactInfo = &info
	w.Selection.BookForSelf = false
	w.Selection.FamilyMember = nil
	w.Step = models.StepConfirm
	return w.ok()
}

// Back re-enters an earlier step. Forward jumps and terminal sessions are
// rejected; field invalidation happens when the re-entered step's selection
// is overwritten.
func (w *Wizard) Back(to models.WizardStep) StepResult {
	if w.Step == models.StepCompleted {
		return w.reject(ReasonInvalidStep)
	}
	if to >= w.Step || to < models.StepServiceSelect {
		return w.reject(ReasonInvalidStep)
	}
	// The subject/contact step depends on auth state.
	if to == models.StepSubjectSelect && !w.Authenticated {
		return w.reject(ReasonInvalidStep)
	}
	if to == models.StepContactInfo && w.Authenticated {
		return w.reject(ReasonInvalidStep)
	}
	w.Step = to
	return w.ok()
}

// ValidateConfirm checks that the selection is complete: service, date and
// time present, and exactly one subject representation set.
func (w *Wizard) ValidateConfirm() StepResult {
	if w.Step != models.StepConfirm {
		return w.reject(ReasonInvalidStep)
	}
	if w.Selection.Service == nil {
		return w.reject(ReasonMissingService)
	}
	if w.Selection.Date == "" {
		return w.reject(ReasonMissingDate)
	}
	if w.Selection.Start == nil {
		return w.reject(ReasonMissingTime)
	}

	subjects := 0
	if w.Selection.BookForSelf {
		subjects++
	}
	if w.Selection.FamilyMember != nil {
		subjects++
	}
	if w.Selection.ContactInfo != nil {
		subjects++
	}
	if subjects != 1 {
		return w.reject(ReasonMissingSubject)
	}
	if !w.Authenticated && w.Selection.ContactInfo == nil {
		return w.reject(ReasonMissingSubject)
	}
	return w.ok()
}

// Complete moves a confirmed wizard to the terminal state.
func (w *Wizard) Complete() {
	w.Step = models.StepCompleted
}

// ValidateContactInfo returns per-field validation errors for guest contact
// details. Email needs an "@" and a dotted domain; name and phone must be
// non-empty.
func ValidateContactInfo(info models.ContactInfo) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(info.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(info.Phone) == "" {
		errs["phone"] = "phone number is required"
	}
	if !validEmail(strings.TrimSpace(info.Email)) {
		errs["email"] = "a valid email address is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
