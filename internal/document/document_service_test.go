package document_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/storage"
	"github.com/khelsetu/academy/pkg/apperr"
)

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Store(data []byte, fileName string, contentType string) (string, error) {
	key := uuid.NewString()
	m.files[key] = data
	return key, nil
}

func (m *memStore) Overwrite(key string, data []byte) error {
	if _, ok := m.files[key]; !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	m.files[key] = data
	return nil
}

func (m *memStore) SignURL(key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("http://files.test/%s?exp=%d", key, time.Now().Add(ttl).Unix()), nil
}

var _ storage.Storage = (*memStore)(nil)

// mapOwners resolves owners from a fixed table; anything absent is not found.
type mapOwners map[document.OwnerRef]uint

func (m mapOwners) OwnerUser(owner document.OwnerRef) (uint, bool, error) {
	userID, ok := m[owner]
	return userID, ok, nil
}

type fixture struct {
	repo    document.DocumentRepository
	store   *memStore
	service *document.Service
}

func newFixture(t *testing.T, owners document.OwnerDirectory) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&document.Document{}, &notification.Notification{}))

	repo := document.NewDocumentRepository(db)
	store := newMemStore()
	svc := document.NewService(repo, store, notification.NopNotifier{}, owners, 5*time.Minute)
	return &fixture{repo: repo, store: store, service: svc}
}

func pdf(content string) document.FileInput {
	return document.FileInput{Data: []byte(content), FileName: "file.pdf", MimeType: "application/pdf"}
}

func TestUploadRejectsUnknownType(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	_, err := f.service.Upload(document.ApplicationOwner(1), "DRIVING_LICENSE", pdf("x"), 10, "APPLICANT")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUploadOwnerNotFound(t *testing.T) {
	f := newFixture(t, mapOwners{})
	_, err := f.service.Upload(document.ApplicationOwner(99), document.TypeIDProof, pdf("x"), 10, "APPLICANT")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUploadHidesForeignApplication(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})

	// Another applicant gets not-found, not forbidden, to avoid confirming
	// the application exists.
	_, err := f.service.Upload(document.ApplicationOwner(1), document.TypeIDProof, pdf("x"), 11, "APPLICANT")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// An admin may attach to any application.
	_, err = f.service.Upload(document.ApplicationOwner(1), document.TypeIDProof, pdf("x"), 11, "ADMIN")
	require.NoError(t, err)
}

func TestUploadAutoVerifies(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	doc, err := f.service.Upload(document.ApplicationOwner(1), document.TypeIDProof, pdf("aadhaar"), 10, "APPLICANT")
	require.NoError(t, err)
	assert.Equal(t, document.VerificationVerified, doc.VerificationStatus)
	assert.NotNil(t, doc.VerifiedAt)
	assert.EqualValues(t, len("aadhaar"), doc.FileSize)
	assert.Equal(t, []byte("aadhaar"), f.store.files[doc.FileKey])
}

func TestListForOwnerHidesForeignApplication(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	owner := document.ApplicationOwner(1)
	_, err := f.service.Upload(owner, document.TypeIDProof, pdf("aadhaar"), 10, "APPLICANT")
	require.NoError(t, err)

	// Another applicant gets not-found, same as on upload.
	_, err = f.service.ListForOwner(owner, 11, "APPLICANT")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	docs, err := f.service.ListForOwner(owner, 10, "APPLICANT")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	// Staff roles review documents across applications.
	docs, err = f.service.ListForOwner(owner, 11, "ADMIN")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = f.service.ListForOwner(owner, 11, "COACH")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSignedURLHiddenFromForeignApplicant(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	doc, err := f.service.Upload(document.ApplicationOwner(1), document.TypeIDProof, pdf("aadhaar"), 10, "APPLICANT")
	require.NoError(t, err)

	_, err = f.service.SignedURLFor(doc.ID, 11, "APPLICANT")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	url, err := f.service.SignedURLFor(doc.ID, 10, "APPLICANT")
	require.NoError(t, err)
	assert.Contains(t, url, doc.FileKey)

	_, err = f.service.SignedURLFor(404, 10, "ADMIN")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestVerifyRejectionRequiresReason(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	doc, err := f.service.Upload(document.ApplicationOwner(1), document.TypeIDProof, pdf("x"), 10, "APPLICANT")
	require.NoError(t, err)

	_, err = f.service.Verify(doc.ID, document.VerificationRejected, "", 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	rejected, err := f.service.Verify(doc.ID, document.VerificationRejected, "photo is blurry", 2)
	require.NoError(t, err)
	assert.Equal(t, document.VerificationRejected, rejected.VerificationStatus)
	assert.Equal(t, "photo is blurry", rejected.RejectionReason)
	require.NotNil(t, rejected.VerifiedBy)
	assert.EqualValues(t, 2, *rejected.VerifiedBy)
}

func TestVerifyUnknownDocument(t *testing.T) {
	f := newFixture(t, mapOwners{})
	_, err := f.service.Verify(404, document.VerificationVerified, "", 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReplaceOrCreateMedicalReportKeepsSingleReport(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	owner := document.ApplicationOwner(1)

	first, err := f.service.ReplaceOrCreateMedicalReport(1, pdf("v1"), 5, nil)
	require.NoError(t, err)

	// Replacing through the trial's remembered id overwrites in place.
	second, err := f.service.ReplaceOrCreateMedicalReport(1, pdf("v2"), 5, &first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FileKey, second.FileKey)
	assert.Equal(t, []byte("v2"), f.store.files[second.FileKey])

	// A stray duplicate row gets cleaned up on the next replace.
	require.NoError(t, f.repo.Create(&document.Document{
		OwnerType:          owner.Type,
		OwnerID:            owner.ID,
		DocumentType:       document.TypeMedicalReport,
		FileKey:            uuid.NewString(),
		VerificationStatus: document.VerificationVerified,
	}))
	_, err = f.service.ReplaceOrCreateMedicalReport(1, pdf("v3"), 5, &first.ID)
	require.NoError(t, err)

	count, err := f.repo.CountForOwnerByType(owner, document.TypeMedicalReport)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestReplaceOrCreateMedicalReportIgnoresForeignPreferredID(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10, document.ApplicationOwner(2): 11})

	other, err := f.service.ReplaceOrCreateMedicalReport(2, pdf("other"), 5, nil)
	require.NoError(t, err)

	// Preferred id pointing at another application's report must not be reused.
	mine, err := f.service.ReplaceOrCreateMedicalReport(1, pdf("mine"), 5, &other.ID)
	require.NoError(t, err)
	assert.NotEqual(t, other.ID, mine.ID)
	assert.EqualValues(t, 1, mine.OwnerID)
}

func TestResolveReadURL(t *testing.T) {
	f := newFixture(t, mapOwners{document.ApplicationOwner(1): 10})
	doc, err := f.service.Upload(document.ApplicationOwner(1), document.TypePhoto, pdf("img"), 10, "APPLICANT")
	require.NoError(t, err)

	url, err := f.service.ResolveReadURL(doc.FileKey)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, doc.FileKey))
}
