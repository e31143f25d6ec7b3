package trial

import (
	"errors"

	"gorm.io/gorm"

	"github.com/khelsetu/academy/internal/application"
)

// TrialRepository defines the trial data operations, including the gateway
// methods the application package consumes.
type TrialRepository interface {
	Save(t *Trial) error
	SaveTx(tx *gorm.DB, t *Trial) error
	GetByID(id uint) (*Trial, error)
	GetByApplicationID(applicationID uint) (*Trial, error)
	// ClaimIfUnassigned atomically sets the coach on a trial whose
	// assigned_coach_id is still null. Returns whether this call won.
	ClaimIfUnassigned(trialID, coachID uint) (bool, error)
	// ListVisibleTo returns trials assigned to the coach (optionally
	// filtered by status) plus all unassigned PENDING trials.
	ListVisibleTo(coachID uint, status string) ([]Trial, error)
	WithTransaction(txFunc func(tx *gorm.DB) error) error

	// application.TrialGateway
	CreatePending(tx *gorm.DB, applicationID uint) (uint, error)
	SummaryForApplication(applicationID uint) (*application.TrialSummary, error)
}

type trialRepository struct {
	db *gorm.DB
}

func NewTrialRepository(db *gorm.DB) TrialRepository {
	return &trialRepository{db: db}
}

func (r *trialRepository) Save(t *Trial) error {
	return r.db.Save(t).Error
}

func (r *trialRepository) SaveTx(tx *gorm.DB, t *Trial) error {
	return tx.Save(t).Error
}

func (r *trialRepository) GetByID(id uint) (*Trial, error) {
	var t Trial
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *trialRepository) GetByApplicationID(applicationID uint) (*Trial, error) {
	var t Trial
	if err := r.db.Where("application_id = ?", applicationID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *trialRepository) ClaimIfUnassigned(trialID, coachID uint) (bool, error) {
	res := r.db.Model(&Trial{}).
		Where("id = ? AND assigned_coach_id IS NULL", trialID).
		Update("assigned_coach_id", coachID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *trialRepository) ListVisibleTo(coachID uint, status string) ([]Trial, error) {
	var trials []Trial
	query := r.db.Model(&Trial{})
	if status != "" {
		query = query.Where(
			"(assigned_coach_id = ? AND status = ?) OR (assigned_coach_id IS NULL AND status = ?)",
			coachID, status, StatusPending,
		)
	} else {
		query = query.Where(
			"assigned_coach_id = ? OR (assigned_coach_id IS NULL AND status = ?)",
			coachID, StatusPending,
		)
	}
	err := query.Order("created_at desc").Find(&trials).Error
	return trials, err
}

func (r *trialRepository) WithTransaction(txFunc func(tx *gorm.DB) error) error {
	return r.db.Transaction(txFunc)
}

func (r *trialRepository) CreatePending(tx *gorm.DB, applicationID uint) (uint, error) {
	t := &Trial{ApplicationID: applicationID, Status: StatusPending}
	if err := tx.Create(t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *trialRepository) SummaryForApplication(applicationID uint) (*application.TrialSummary, error) {
	t, err := r.GetByApplicationID(applicationID)
	if err != nil || t == nil {
		return nil, err
	}
	return &application.TrialSummary{
		ID:              t.ID,
		Status:          t.Status,
		Outcome:         t.Outcome,
		ScheduledDate:   t.ScheduledDate,
		ScheduledTime:   t.ScheduledTime,
		Venue:           t.Venue,
		AssignedCoachID: t.AssignedCoachID,
		EvaluatedAt:     t.EvaluatedAt,
	}, nil
}
