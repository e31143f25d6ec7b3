package approval

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/player"
	"github.com/khelsetu/academy/internal/trial"
	"github.com/khelsetu/academy/internal/user"
	"github.com/khelsetu/academy/pkg/apperr"
	"github.com/khelsetu/academy/pkg/utils"
)

// Risk indicator flags, computed per application for admin triage. Never
// persisted.
const (
	RiskDOBProofNotVerified     = "DOB_PROOF_NOT_VERIFIED"
	RiskMissingEmergencyContact = "MISSING_EMERGENCY_CONTACT"
	RiskTrialNotRecommended     = "TRIAL_NOT_RECOMMENDED"
	RiskPendingDocuments        = "PENDING_DOCUMENTS"
)

// Photo preference order when copying a profile photo onto the new player.
var photoPreference = []string{document.TypePhoto, document.TypeIDProof, document.TypeIDCard}

const defaultHoldReason = "Application placed on hold pending further review"

// Service is the admin-facing approval engine gating player activation on
// document verification and trial outcome.
type Service struct {
	apps     application.ApplicationRepository
	trials   trial.TrialRepository
	docs     document.DocumentRepository
	players  player.PlayerRepository
	users    user.UserRepository
	notifier notification.Notifier
	// requireDocuments turns off the vacuous "zero documents are all
	// verified" pass.
	requireDocuments bool
}

func NewService(apps application.ApplicationRepository, trials trial.TrialRepository, docs document.DocumentRepository, players player.PlayerRepository, users user.UserRepository, notifier notification.Notifier, requireDocuments bool) *Service {
	return &Service{
		apps:             apps,
		trials:           trials,
		docs:             docs,
		players:          players,
		users:            users,
		notifier:         notifier,
		requireDocuments: requireDocuments,
	}
}

func (s *Service) getApplication(id uint) (*application.PlayerApplication, error) {
	app, err := s.apps.GetByID(id)
	if err != nil {
		return nil, apperr.Internal("application lookup failed", err)
	}
	if app == nil {
		return nil, apperr.NotFound("application not found")
	}
	return app, nil
}

// Approve promotes an application into an active player. All prerequisite
// checks are surfaced individually; the promotion itself (application update,
// player row, role elevation) commits or rolls back as one transaction.
func (s *Service) Approve(applicationID, adminID uint) (*player.Player, error) {
	app, err := s.getApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status == application.StatusApproved {
		return nil, apperr.Precondition("application is already approved")
	}

	owner := document.ApplicationOwner(app.ID)
	docs, err := s.docs.ListForOwner(owner)
	if err != nil {
		return nil, apperr.Internal("document lookup failed", err)
	}
	if len(docs) == 0 && s.requireDocuments {
		return nil, apperr.Precondition("at least one document must be uploaded before approval")
	}
	for _, d := range docs {
		if d.VerificationStatus != document.VerificationVerified {
			return nil, apperr.Newf(apperr.KindPrecondition,
				"all documents must be verified before approval (%s is %s)", d.DocumentType, d.VerificationStatus)
		}
	}

	tr, err := s.trials.GetByApplicationID(app.ID)
	if err != nil {
		return nil, apperr.Internal("trial lookup failed", err)
	}
	if tr == nil {
		return nil, apperr.Precondition("a completed trial is required before approval")
	}
	if tr.Status != trial.StatusCompleted || tr.Outcome != trial.OutcomeRecommended {
		return nil, apperr.Precondition("trial outcome must be RECOMMENDED before approval")
	}

	// Best-effort profile photo from the application's documents.
	var photoKey string
	if photoDoc, lookupErr := s.docs.FirstByTypePreference(owner, photoPreference); lookupErr == nil && photoDoc != nil {
		photoKey = photoDoc.FileKey
	}

	publicID, err := s.uniquePublicID()
	if err != nil {
		return nil, apperr.Internal("failed to allocate player id", err)
	}

	newPlayer := &player.Player{
		PublicID:              publicID,
		UserID:                app.UserID,
		ApplicationID:         app.ID,
		FullName:              app.FullName,
		DateOfBirth:           app.DateOfBirth,
		Gender:                app.Gender,
		Nationality:           app.Nationality,
		Sport:                 app.Sport,
		Position:              app.Position,
		DominantSide:          app.DominantSide,
		PlayerPhone:           app.PlayerPhone,
		EmergencyContactName:  app.EmergencyContactName,
		EmergencyContactPhone: app.EmergencyContactPhone,
		ProfilePhotoKey:       photoKey,
	}

	err = s.apps.WithTransaction(func(tx *gorm.DB, txApps application.ApplicationRepository) error {
		now := time.Now()
		app.Status = application.StatusApproved
		app.ReviewedAt = &now
		app.ReviewedBy = &adminID
		if err := txApps.Save(app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		if err := s.players.CreateTx(tx, newPlayer); err != nil {
			return fmt.Errorf("create player: %w", err)
		}
		if err := s.users.UpdateRole(tx, app.UserID, user.RolePlayer); err != nil {
			return fmt.Errorf("elevate role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("approval failed", err)
	}

	s.notifier.Emit(app.UserID, notification.EventApplicationApproved, notification.Payload{
		"application_id": app.ID,
		"player_id":      newPlayer.PublicID,
	})
	return newPlayer, nil
}

func (s *Service) uniquePublicID() (string, error) {
	for i := 0; i < 10; i++ {
		id := utils.GeneratePlayerID()
		exists, err := s.players.PublicIDExists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not find a free public id")
}

// Reject marks an application REJECTED with a mandatory reason. Drafts are
// rejectable; only an already-approved application is protected.
func (s *Service) Reject(applicationID, adminID uint, reason string) error {
	if reason == "" {
		return apperr.Validation("a rejection reason is required")
	}
	app, err := s.getApplication(applicationID)
	if err != nil {
		return err
	}
	if app.Status == application.StatusApproved {
		return apperr.Conflict("cannot reject an approved application")
	}

	now := time.Now()
	app.Status = application.StatusRejected
	app.ReviewedAt = &now
	app.ReviewedBy = &adminID
	app.RejectionReason = reason
	app.ResubmissionAttempts++
	app.LastResubmissionAt = &now
	if err := s.apps.Save(app); err != nil {
		return apperr.Internal("failed to reject application", err)
	}

	s.notifier.Emit(app.UserID, notification.EventApplicationRejected, notification.Payload{
		"application_id": app.ID,
		"reason":         reason,
	})
	return nil
}

// Hold parks an application for later review. Reason defaults when omitted.
func (s *Service) Hold(applicationID, adminID uint, reason string) error {
	app, err := s.getApplication(applicationID)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = defaultHoldReason
	}

	now := time.Now()
	app.Status = application.StatusHold
	app.ReviewedAt = &now
	app.ReviewedBy = &adminID
	app.RejectionReason = reason
	if err := s.apps.Save(app); err != nil {
		return apperr.Internal("failed to hold application", err)
	}

	s.notifier.Emit(app.UserID, notification.EventApplicationHold, notification.Payload{
		"application_id": app.ID,
		"reason":         reason,
	})
	return nil
}

// RiskIndicators computes the triage flags for one application.
func (s *Service) RiskIndicators(app *application.PlayerApplication) ([]string, error) {
	flags := []string{}

	docs, err := s.docs.ListForOwner(document.ApplicationOwner(app.ID))
	if err != nil {
		return nil, apperr.Internal("document lookup failed", err)
	}
	for _, d := range docs {
		if d.DocumentType == document.TypeDOBProof && d.VerificationStatus != document.VerificationVerified {
			flags = append(flags, RiskDOBProofNotVerified)
			break
		}
	}
	if app.EmergencyContactName == "" || app.EmergencyContactPhone == "" {
		flags = append(flags, RiskMissingEmergencyContact)
	}

	tr, err := s.trials.GetByApplicationID(app.ID)
	if err != nil {
		return nil, apperr.Internal("trial lookup failed", err)
	}
	if tr == nil || tr.Status != trial.StatusCompleted || tr.Outcome != trial.OutcomeRecommended {
		flags = append(flags, RiskTrialNotRecommended)
	}

	for _, d := range docs {
		if d.VerificationStatus == document.VerificationPending {
			flags = append(flags, RiskPendingDocuments)
			break
		}
	}
	return flags, nil
}

// ReviewItem pairs an application with its computed risk flags.
type ReviewItem struct {
	Application application.PlayerApplication `json:"application"`
	RiskFlags   []string                      `json:"risk_flags"`
}

// ListForReview returns the admin triage queue with risk flags attached.
func (s *Service) ListForReview(status string, page, limit int) ([]ReviewItem, int64, error) {
	apps, total, err := s.apps.ListByStatus(status, page, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list applications", err)
	}
	items := make([]ReviewItem, 0, len(apps))
	for i := range apps {
		flags, err := s.RiskIndicators(&apps[i])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ReviewItem{Application: apps[i], RiskFlags: flags})
	}
	return items, total, nil
}
