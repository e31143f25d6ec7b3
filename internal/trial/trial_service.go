package trial

import (
	"time"

	"gorm.io/gorm"

	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/pkg/apperr"
)

// CoachDirectory is the slice of the user repository the state machine needs.
type CoachDirectory interface {
	IsActiveCoach(id uint) (bool, error)
}

// MedicalReportStore is the document-registry operation the trial delegates
// report uploads to.
type MedicalReportStore interface {
	ReplaceOrCreateMedicalReport(applicationID uint, file document.FileInput, uploadedBy uint, preferredDocID *uint) (*document.Document, error)
}

// ScheduleInput is the optional schedule an admin sets while assigning.
type ScheduleInput struct {
	Date  string `json:"scheduled_date"`
	Time  string `json:"scheduled_time"`
	Venue string `json:"venue"`
}

// Service is the trial state machine: assignment, medical checklist,
// evaluation and coach work queues.
type Service struct {
	repo     TrialRepository
	apps     application.ApplicationRepository
	coaches  CoachDirectory
	medical  MedicalReportStore
	notifier notification.Notifier
}

func NewService(repo TrialRepository, apps application.ApplicationRepository, coaches CoachDirectory, medical MedicalReportStore, notifier notification.Notifier) *Service {
	return &Service{repo: repo, apps: apps, coaches: coaches, medical: medical, notifier: notifier}
}

func (s *Service) getTrial(trialID uint) (*Trial, error) {
	t, err := s.repo.GetByID(trialID)
	if err != nil {
		return nil, apperr.Internal("trial lookup failed", err)
	}
	if t == nil {
		return nil, apperr.NotFound("trial not found")
	}
	return t, nil
}

// Assign pre-assigns a coach and optional schedule. Admin only; assignment
// alone never completes a trial.
func (s *Service) Assign(trialID, coachID uint, schedule *ScheduleInput) (*Trial, error) {
	t, err := s.getTrial(trialID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusPending {
		return nil, apperr.Precondition("trial has already been completed")
	}
	active, err := s.coaches.IsActiveCoach(coachID)
	if err != nil {
		return nil, apperr.Internal("coach lookup failed", err)
	}
	if !active {
		return nil, apperr.Precondition("coach is not active")
	}

	t.AssignedCoachID = &coachID
	if schedule != nil {
		t.ScheduledDate = schedule.Date
		t.ScheduledTime = schedule.Time
		t.Venue = schedule.Venue
	}
	if err := s.repo.Save(t); err != nil {
		return nil, apperr.Internal("failed to assign trial", err)
	}

	if app, lookupErr := s.apps.GetByID(t.ApplicationID); lookupErr == nil && app != nil {
		payload := notification.Payload{"trial_id": t.ID}
		if t.ScheduledDate != "" {
			payload["scheduled_date"] = t.ScheduledDate
			payload["scheduled_time"] = t.ScheduledTime
			payload["venue"] = t.Venue
		}
		s.notifier.Emit(app.UserID, notification.EventTrialAssigned, payload)
	}
	return t, nil
}

// ensureCoachOwnership enforces the claim policy: a trial assigned to another
// coach is off-limits; an unassigned trial is claimed for this coach via a
// compare-and-set, so the first writer wins. The race window between two
// simultaneous claimers is narrowed, not eliminated.
func (s *Service) ensureCoachOwnership(t *Trial, coachID uint) error {
	if t.AssignedCoachID != nil {
		if *t.AssignedCoachID != coachID {
			return apperr.Forbidden("trial is assigned to another coach")
		}
		return nil
	}
	claimed, err := s.repo.ClaimIfUnassigned(t.ID, coachID)
	if err != nil {
		return apperr.Internal("failed to claim trial", err)
	}
	if !claimed {
		// Lost the race; re-read to see who holds it now.
		current, err := s.repo.GetByID(t.ID)
		if err != nil || current == nil {
			return apperr.Internal("trial lookup failed", err)
		}
		if current.AssignedCoachID == nil || *current.AssignedCoachID != coachID {
			return apperr.Forbidden("trial is assigned to another coach")
		}
	}
	t.AssignedCoachID = &coachID
	return nil
}

// SubmitMedicalForm records the coach's checklist and optionally the report
// file. Allowed before or interleaved with evaluation.
func (s *Service) SubmitMedicalForm(trialID, coachID uint, checklist Checklist, verified bool, report *document.FileInput) (*Trial, error) {
	if !verified {
		return nil, apperr.Validation("medical checklist must be verified before submission")
	}
	t, err := s.getTrial(trialID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCoachOwnership(t, coachID); err != nil {
		return nil, err
	}

	t.MedicalChecklist = checklist
	t.MedicalVerified = true

	if report != nil {
		doc, err := s.medical.ReplaceOrCreateMedicalReport(t.ApplicationID, *report, coachID, t.MedicalReportDocumentID)
		if err != nil {
			return nil, err
		}
		t.MedicalReportDocumentID = &doc.ID
	}

	if err := s.repo.Save(t); err != nil {
		return nil, apperr.Internal("failed to save medical form", err)
	}
	return t, nil
}

// UploadMedicalReport is the document-only variant of SubmitMedicalForm.
func (s *Service) UploadMedicalReport(trialID, coachID uint, file document.FileInput) (*Trial, error) {
	t, err := s.getTrial(trialID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCoachOwnership(t, coachID); err != nil {
		return nil, err
	}

	doc, err := s.medical.ReplaceOrCreateMedicalReport(t.ApplicationID, file, coachID, t.MedicalReportDocumentID)
	if err != nil {
		return nil, err
	}
	t.MedicalReportDocumentID = &doc.ID
	if err := s.repo.Save(t); err != nil {
		return nil, apperr.Internal("failed to save trial", err)
	}
	return t, nil
}

// Evaluate records the outcome and completes the trial. Terminal: a completed
// trial accepts no further evaluation. The linked application's trial status
// moves to COMPLETED, and a RECOMMENDED outcome pushes it to UNDER_REVIEW.
func (s *Service) Evaluate(trialID, coachID uint, outcome string, notes string, aadhaarVerified *bool) (*Trial, error) {
	if !ValidOutcome(outcome) {
		return nil, apperr.Newf(apperr.KindValidation, "outcome must be one of %s, %s, %s",
			OutcomeRecommended, OutcomeNotRecommended, OutcomeNeedsRetest)
	}
	t, err := s.getTrial(trialID)
	if err != nil {
		return nil, err
	}
	if t.AssignedCoachID != nil && *t.AssignedCoachID != coachID {
		return nil, apperr.Forbidden("trial is assigned to another coach")
	}
	if t.Status == StatusCompleted {
		return nil, apperr.Conflict("trial has already been evaluated")
	}
	if err := s.ensureCoachOwnership(t, coachID); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByID(t.ApplicationID)
	if err != nil {
		return nil, apperr.Internal("application lookup failed", err)
	}
	if app == nil {
		return nil, apperr.NotFound("linked application not found")
	}

	now := time.Now()
	t.Outcome = outcome
	t.Notes = notes
	t.EvaluatedAt = &now
	t.Status = StatusCompleted
	if aadhaarVerified != nil {
		t.AadhaarVerified = *aadhaarVerified
	}

	app.TrialStatus = application.TrialStatusCompleted
	if outcome == OutcomeRecommended {
		app.Status = application.StatusUnderReview
	}

	err = s.repo.WithTransaction(func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, t); err != nil {
			return err
		}
		return tx.Save(app).Error
	})
	if err != nil {
		return nil, apperr.Internal("failed to record evaluation", err)
	}

	s.notifier.Emit(app.UserID, notification.EventTrialCompleted, notification.Payload{
		"trial_id": t.ID,
		"outcome":  outcome,
	})
	return t, nil
}

// ListVisibleTo returns the coach's work queue: their own trials plus every
// unassigned pending trial, which any active coach may claim.
func (s *Service) ListVisibleTo(coachID uint, status string) ([]Trial, error) {
	trials, err := s.repo.ListVisibleTo(coachID, status)
	if err != nil {
		return nil, apperr.Internal("failed to list trials", err)
	}
	return trials, nil
}
