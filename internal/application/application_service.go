package application

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/pkg/apperr"
	"github.com/khelsetu/academy/pkg/validator"
)

// TrialGateway is what the draft manager needs from the trial package,
// defined here to keep the package dependency one-way (trial -> application).
type TrialGateway interface {
	// CreatePending creates the application's trial inside the given
	// transaction and returns its id.
	CreatePending(tx *gorm.DB, applicationID uint) (uint, error)
	SummaryForApplication(applicationID uint) (*TrialSummary, error)
}

// TrialSummary is the read-side view of a trial shown to the applicant.
type TrialSummary struct {
	ID              uint       `json:"id"`
	Status          string     `json:"status"`
	Outcome         string     `json:"outcome,omitempty"`
	ScheduledDate   string     `json:"scheduled_date,omitempty"`
	ScheduledTime   string     `json:"scheduled_time,omitempty"`
	Venue           string     `json:"venue,omitempty"`
	AssignedCoachID *uint      `json:"assigned_coach_id,omitempty"`
	EvaluatedAt     *time.Time `json:"evaluated_at,omitempty"`
}

// TeamNameResolver resolves team references for display only; the write path
// never validates them.
type TeamNameResolver interface {
	ResolveNames(refs []string) (map[string]string, error)
}

// DraftInput is the owner-editable application payload.
type DraftInput struct {
	FullName              string   `json:"full_name"`
	DateOfBirth           string   `json:"date_of_birth"` // YYYY-MM-DD
	Gender                string   `json:"gender"`
	Nationality           string   `json:"nationality"`
	Sport                 string   `json:"sport"`
	Position              string   `json:"position"`
	DominantSide          string   `json:"dominant_side"`
	Address               string   `json:"address"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	Pincode               string   `json:"pincode"`
	PlayerPhone           string   `json:"player_phone"`
	EmergencyContactName  string   `json:"emergency_contact_name"`
	EmergencyContactPhone string   `json:"emergency_contact_phone"`
	PreferredTeamIDs      []string `json:"preferred_team_ids"`
}

// StatusSnapshot combines application, trial and document state for the owner.
type StatusSnapshot struct {
	Application        *PlayerApplication  `json:"application"`
	Trial              *TrialSummary       `json:"trial,omitempty"`
	Documents          []DocTypeStatus     `json:"documents"`
	PreferredTeamNames map[string]string   `json:"preferred_team_names,omitempty"`
}

type DocTypeStatus struct {
	DocumentType       string `json:"document_type"`
	VerificationStatus string `json:"verification_status"`
}

const (
	minAge = 5
	maxAge = 100
)

// Service is the application draft manager: owner-side draft editing,
// submission and the status snapshot.
type Service struct {
	repo              ApplicationRepository
	docs              document.DocumentRepository
	trials            TrialGateway
	teams             TeamNameResolver
	notifier          notification.Notifier
	allowResubmission bool
}

func NewService(repo ApplicationRepository, docs document.DocumentRepository, trials TrialGateway, teams TeamNameResolver, notifier notification.Notifier, allowResubmission bool) *Service {
	return &Service{
		repo:              repo,
		docs:              docs,
		trials:            trials,
		teams:             teams,
		notifier:          notifier,
		allowResubmission: allowResubmission,
	}
}

func parseDOB(s string) (time.Time, error) {
	dob, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation("date_of_birth must be in YYYY-MM-DD format")
	}
	return dob, nil
}

func validateDOB(dob time.Time, now time.Time) error {
	if !dob.Before(now) {
		return apperr.Validation("date_of_birth must be in the past")
	}
	years := now.Year() - dob.Year()
	if dob.AddDate(years, 0, 0).After(now) {
		years--
	}
	if years < minAge || years > maxAge {
		return apperr.Newf(apperr.KindValidation, "age must be between %d and %d years", minAge, maxAge)
	}
	return nil
}

// CreateOrUpdateDraft validates and persists the owner's draft. A rejected
// application reopens as a draft here when resubmission is enabled; any other
// non-draft state is immutable to the owner.
func (s *Service) CreateOrUpdateDraft(userID uint, input DraftInput) (*PlayerApplication, error) {
	if input.FullName == "" {
		return nil, apperr.Validation("full_name is required")
	}
	if input.DateOfBirth == "" {
		return nil, apperr.Validation("date_of_birth is required")
	}
	if input.Gender == "" {
		return nil, apperr.Validation("gender is required")
	}
	if input.EmergencyContactName == "" {
		return nil, apperr.Validation("emergency_contact_name is required")
	}

	dob, err := parseDOB(input.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := validateDOB(dob, time.Now()); err != nil {
		return nil, err
	}

	playerPhone, err := validator.NormalizeMobile(input.PlayerPhone)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "player_phone: %v", err)
	}
	emergencyPhone, err := validator.NormalizeMobile(input.EmergencyContactPhone)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "emergency_contact_phone: %v", err)
	}
	if input.Pincode != "" && !validator.ValidPincode(input.Pincode) {
		return nil, apperr.Validation("pincode must be exactly 6 digits")
	}

	app, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, apperr.Internal("application lookup failed", err)
	}

	reopening := false
	if app != nil && app.Status != StatusDraft {
		if app.Status == StatusRejected && s.allowResubmission {
			reopening = true
		} else {
			return nil, apperr.Conflict("application has already been submitted and can no longer be edited")
		}
	}

	dup, err := s.repo.HasDuplicateCandidate(input.FullName, dob, userID)
	if err != nil {
		return nil, apperr.Internal("duplicate check failed", err)
	}
	if dup {
		return nil, apperr.Conflict("an application with the same name and date of birth already exists")
	}

	if app == nil {
		app = &PlayerApplication{UserID: userID, Status: StatusDraft}
	}

	app.FullName = input.FullName
	app.DateOfBirth = dob
	app.Gender = input.Gender
	app.Nationality = input.Nationality
	app.Sport = input.Sport
	app.Position = input.Position
	app.DominantSide = input.DominantSide
	app.Address = input.Address
	app.City = input.City
	app.State = input.State
	app.Pincode = input.Pincode
	app.PlayerPhone = playerPhone
	app.EmergencyContactName = input.EmergencyContactName
	app.EmergencyContactPhone = emergencyPhone
	app.PreferredTeamIDs = TeamIDList(input.PreferredTeamIDs)

	if reopening {
		now := time.Now()
		app.Status = StatusDraft
		app.TrialStatus = ""
		app.RejectionReason = ""
		app.LastResubmissionAt = &now
	}

	if app.ID == 0 {
		err = s.repo.Create(app)
	} else {
		err = s.repo.Save(app)
	}
	if err != nil {
		return nil, apperr.Internal("failed to save application", err)
	}
	return app, nil
}

// Submit moves a draft to SUBMITTED and spawns its trial. The DRAFT-only
// guard is what makes a second submit fail rather than double-creating trials.
func (s *Service) Submit(userID uint) (*PlayerApplication, uint, error) {
	app, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, 0, apperr.Internal("application lookup failed", err)
	}
	if app == nil {
		return nil, 0, apperr.NotFound("application not found")
	}
	if app.Status != StatusDraft {
		return nil, 0, apperr.Conflict("application has already been submitted")
	}

	// Field-level revalidation: drafts predating a rule change must not
	// slip through submission.
	if err := validateDOB(app.DateOfBirth, time.Now()); err != nil {
		return nil, 0, err
	}

	missing := func(item string) error {
		return apperr.Newf(apperr.KindPrecondition, "application incomplete: %s", item)
	}
	if app.FullName == "" || app.Gender == "" || app.PlayerPhone == "" ||
		app.EmergencyContactName == "" || app.EmergencyContactPhone == "" {
		return nil, 0, missing("required personal and contact fields must be filled")
	}
	if app.Nationality == "" {
		return nil, 0, missing("nationality is required")
	}
	if !validator.ValidPincode(app.Pincode) {
		return nil, 0, missing("a valid 6-digit pincode is required")
	}
	if len(app.PreferredTeamIDs) == 0 {
		return nil, 0, missing("at least one preferred team must be selected")
	}

	idProofs, err := s.docs.CountForOwnerByType(document.ApplicationOwner(app.ID), document.TypeIDProof)
	if err != nil {
		return nil, 0, apperr.Internal("document lookup failed", err)
	}
	if idProofs == 0 {
		return nil, 0, missing("an ID proof document must be uploaded")
	}

	var trialID uint
	err = s.repo.WithTransaction(func(tx *gorm.DB, txRepo ApplicationRepository) error {
		id, err := s.trials.CreatePending(tx, app.ID)
		if err != nil {
			return fmt.Errorf("create trial: %w", err)
		}
		trialID = id
		now := time.Now()
		app.Status = StatusSubmitted
		app.TrialStatus = TrialStatusPending
		app.TrialID = &trialID
		app.SubmittedAt = &now
		return txRepo.Save(app)
	})
	if err != nil {
		return nil, 0, apperr.Internal("failed to submit application", err)
	}

	s.notifier.Emit(userID, notification.EventApplicationSubmitted, notification.Payload{
		"application_id": app.ID,
		"trial_id":       trialID,
	})
	return app, trialID, nil
}

// GetStatus returns the owner's combined snapshot. Read-only.
func (s *Service) GetStatus(userID uint) (*StatusSnapshot, error) {
	app, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, apperr.Internal("application lookup failed", err)
	}
	if app == nil {
		return nil, apperr.NotFound("application not found")
	}

	snapshot := &StatusSnapshot{Application: app, Documents: []DocTypeStatus{}}

	docs, err := s.docs.ListForOwner(document.ApplicationOwner(app.ID))
	if err != nil {
		return nil, apperr.Internal("document lookup failed", err)
	}
	for _, d := range docs {
		snapshot.Documents = append(snapshot.Documents, DocTypeStatus{
			DocumentType:       d.DocumentType,
			VerificationStatus: d.VerificationStatus,
		})
	}

	summary, err := s.trials.SummaryForApplication(app.ID)
	if err != nil {
		return nil, apperr.Internal("trial lookup failed", err)
	}
	snapshot.Trial = summary

	if len(app.PreferredTeamIDs) > 0 {
		names, err := s.teams.ResolveNames(app.PreferredTeamIDs)
		if err != nil {
			// Display-only; a resolver failure must not break the snapshot.
			names = nil
		}
		snapshot.PreferredTeamNames = names
	}
	return snapshot, nil
}
