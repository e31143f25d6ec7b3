package approval_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/approval"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/player"
	"github.com/khelsetu/academy/internal/trial"
	"github.com/khelsetu/academy/internal/user"
	"github.com/khelsetu/academy/pkg/apperr"
)

const adminID uint = 999

var publicIDPattern = regexp.MustCompile(`^PLR-\d{4}$`)

type fixture struct {
	db      *gorm.DB
	apps    application.ApplicationRepository
	trials  trial.TrialRepository
	docs    document.DocumentRepository
	players player.PlayerRepository
	users   user.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &application.PlayerApplication{}, &trial.Trial{},
		&document.Document{}, &player.Player{}, &notification.Notification{},
	))
	return &fixture{
		db:      db,
		apps:    application.NewApplicationRepository(db),
		trials:  trial.NewTrialRepository(db),
		docs:    document.NewDocumentRepository(db),
		players: player.NewPlayerRepository(db),
		users:   user.NewUserRepository(db),
	}
}

func (f *fixture) newService(requireDocuments bool) *approval.Service {
	return approval.NewService(f.apps, f.trials, f.docs, f.players, f.users, notification.NopNotifier{}, requireDocuments)
}

func (f *fixture) seedApplicant(t *testing.T) *user.User {
	t.Helper()
	u := &user.User{Name: "Applicant", Phone: uuid.NewString(), MPINHash: "x", Role: user.RoleApplicant, Status: user.StatusActive}
	require.NoError(t, f.users.CreateUser(u))
	return u
}

func (f *fixture) seedApplication(t *testing.T, userID uint, status string) *application.PlayerApplication {
	t.Helper()
	app := &application.PlayerApplication{
		UserID:                userID,
		FullName:              "Applicant " + uuid.NewString()[:8],
		DateOfBirth:           time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:                "MALE",
		Nationality:           "Indian",
		Sport:                 "Football",
		PlayerPhone:           "9876543210",
		EmergencyContactName:  "Parent",
		EmergencyContactPhone: "9812345670",
		PreferredTeamIDs:      application.TeamIDList{"1"},
		Status:                status,
	}
	require.NoError(t, f.apps.Create(app))
	return app
}

func (f *fixture) seedDocument(t *testing.T, appID uint, docType, verification string) *document.Document {
	t.Helper()
	doc := &document.Document{
		OwnerType:          document.OwnerApplication,
		OwnerID:            appID,
		DocumentType:       docType,
		FileKey:            uuid.NewString(),
		FileName:           "file.pdf",
		VerificationStatus: verification,
	}
	require.NoError(t, f.docs.Create(doc))
	return doc
}

func (f *fixture) seedCompletedTrial(t *testing.T, appID uint, outcome string) *trial.Trial {
	t.Helper()
	now := time.Now()
	tr := &trial.Trial{
		ApplicationID: appID,
		Status:        trial.StatusCompleted,
		Outcome:       outcome,
		EvaluatedAt:   &now,
	}
	require.NoError(t, f.db.Create(tr).Error)
	return tr
}

// seedApprovable builds an application that passes every approval gate.
func (f *fixture) seedApprovable(t *testing.T) (*user.User, *application.PlayerApplication) {
	t.Helper()
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusUnderReview)
	f.seedDocument(t, app.ID, document.TypeIDProof, document.VerificationVerified)
	f.seedDocument(t, app.ID, document.TypePhoto, document.VerificationVerified)
	f.seedCompletedTrial(t, app.ID, trial.OutcomeRecommended)
	return u, app
}

func TestApprovePromotesToPlayer(t *testing.T) {
	f := newFixture(t)
	u, app := f.seedApprovable(t)

	p, err := f.newService(true).Approve(app.ID, adminID)
	require.NoError(t, err)
	assert.Regexp(t, publicIDPattern, p.PublicID)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, app.ID, p.ApplicationID)
	assert.Equal(t, app.FullName, p.FullName)
	assert.NotEmpty(t, p.ProfilePhotoKey)

	stored, err := f.players.GetByUserID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, p.PublicID, stored.PublicID)

	updatedApp, err := f.apps.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusApproved, updatedApp.Status)
	require.NotNil(t, updatedApp.ReviewedBy)
	assert.Equal(t, adminID, *updatedApp.ReviewedBy)

	updatedUser, err := f.users.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RolePlayer, updatedUser.Role)
}

func TestApproveRequiresRecommendedOutcome(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusSubmitted)
	f.seedDocument(t, app.ID, document.TypeIDProof, document.VerificationVerified)
	f.seedCompletedTrial(t, app.ID, trial.OutcomeNotRecommended)

	_, err := f.newService(true).Approve(app.ID, adminID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "RECOMMENDED")
}

func TestApproveRequiresTrial(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusSubmitted)
	f.seedDocument(t, app.ID, document.TypeIDProof, document.VerificationVerified)

	_, err := f.newService(true).Approve(app.ID, adminID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "trial")
}

func TestApproveRejectsUnverifiedDocument(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusUnderReview)
	f.seedDocument(t, app.ID, document.TypeIDProof, document.VerificationVerified)
	f.seedDocument(t, app.ID, document.TypeDOBProof, document.VerificationPending)
	f.seedCompletedTrial(t, app.ID, trial.OutcomeRecommended)

	_, err := f.newService(true).Approve(app.ID, adminID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), document.TypeDOBProof)
}

func TestApproveZeroDocumentsPolicy(t *testing.T) {
	setup := func(t *testing.T, f *fixture) *application.PlayerApplication {
		u := f.seedApplicant(t)
		app := f.seedApplication(t, u.ID, application.StatusUnderReview)
		f.seedCompletedTrial(t, app.ID, trial.OutcomeRecommended)
		return app
	}

	t.Run("required", func(t *testing.T) {
		f := newFixture(t)
		app := setup(t, f)
		_, err := f.newService(true).Approve(app.ID, adminID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	})

	t.Run("waived", func(t *testing.T) {
		f := newFixture(t)
		app := setup(t, f)
		p, err := f.newService(false).Approve(app.ID, adminID)
		require.NoError(t, err)
		assert.Empty(t, p.ProfilePhotoKey)
	})
}

func TestApproveAlreadyApproved(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(true)
	_, app := f.seedApprovable(t)

	_, err := svc.Approve(app.ID, adminID)
	require.NoError(t, err)

	_, err = svc.Approve(app.ID, adminID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
}

// failingUsers simulates a mid-transaction failure at the role-elevation step.
type failingUsers struct {
	user.UserRepository
}

func (failingUsers) UpdateRole(tx *gorm.DB, id uint, role string) error {
	return errors.New("role store unavailable")
}

func TestApproveRollsBackAtomically(t *testing.T) {
	f := newFixture(t)
	u, app := f.seedApprovable(t)
	svc := approval.NewService(f.apps, f.trials, f.docs, f.players,
		failingUsers{f.users}, notification.NopNotifier{}, true)

	_, err := svc.Approve(app.ID, adminID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	// Nothing from the failed promotion may survive.
	stored, err := f.players.GetByUserID(u.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	unchanged, err := f.apps.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusUnderReview, unchanged.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusSubmitted)

	err := f.newService(true).Reject(app.ID, adminID, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRejectApprovedApplicationConflicts(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(true)
	_, app := f.seedApprovable(t)
	_, err := svc.Approve(app.ID, adminID)
	require.NoError(t, err)

	err = svc.Reject(app.ID, adminID, "changed our minds")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRejectDraftAndCountAttempts(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusDraft)

	require.NoError(t, f.newService(true).Reject(app.ID, adminID, "incomplete records"))

	updated, err := f.apps.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, updated.Status)
	assert.Equal(t, "incomplete records", updated.RejectionReason)
	assert.Equal(t, 1, updated.ResubmissionAttempts)
	assert.NotNil(t, updated.ReviewedAt)
}

func TestHoldDefaultsReason(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusSubmitted)

	require.NoError(t, f.newService(true).Hold(app.ID, adminID, ""))

	updated, err := f.apps.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusHold, updated.Status)
	assert.NotEmpty(t, updated.RejectionReason)
}

func TestRiskIndicators(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	app := f.seedApplication(t, u.ID, application.StatusSubmitted)
	app.EmergencyContactName = ""
	require.NoError(t, f.apps.Save(app))
	f.seedDocument(t, app.ID, document.TypeDOBProof, document.VerificationPending)

	flags, err := f.newService(true).RiskIndicators(app)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		approval.RiskDOBProofNotVerified,
		approval.RiskMissingEmergencyContact,
		approval.RiskTrialNotRecommended,
		approval.RiskPendingDocuments,
	}, flags)
}

func TestListForReviewAttachesFlags(t *testing.T) {
	f := newFixture(t)
	u := f.seedApplicant(t)
	f.seedApplication(t, u.ID, application.StatusSubmitted)

	items, total, err := f.newService(true).ListForReview(application.StatusSubmitted, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].RiskFlags, approval.RiskTrialNotRecommended)
}
