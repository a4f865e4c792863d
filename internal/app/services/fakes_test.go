package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/admission"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/validation"
)

var testNow = time.Date(2026, time.October, 16, 10, 30, 0, 0, time.UTC)

func fixedValidator() *validation.Validator {
	v := validation.NewValidator()
	v.Now = func() time.Time { return testNow }
	return v
}

func uploadHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

// fakeStudentStore keeps students in memory. The counter and the insert happen under one
// lock, like the transaction of the real repository.
type fakeStudentStore struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]*models.Student
	counters  map[int]int
	creates   int
	writes    int
	createErr error
	toggleErr error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{rows: map[int64]*models.Student{}, counters: map[int]int{}}
}

func (f *fakeStudentStore) CreateWithAdmissionCode(_ context.Context, s *models.Student, policy admission.Policy, year int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	seq := f.counters[year] + 1
	code, err := policy.Code(year, seq)
	if err != nil {
		return err
	}
	f.counters[year] = seq
	f.nextID++
	s.ID = f.nextID
	s.AdmissionCode = code
	s.CreatedAt = testNow
	s.UpdatedAt = testNow
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) List(_ context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Student
	for _, s := range f.rows {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeStudentStore) Update(_ context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.rows[s.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	f.writes++
	cp := *s
	if cp.PhotoPath == nil {
		cp.PhotoPath = old.PhotoPath
	}
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeStudentStore) SetAdmissionStatus(_ context.Context, id int64, status models.AdmissionStatus) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	f.writes++
	s.Status = status
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) ToggleActive(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	s, ok := f.rows[id]
	if !ok {
		return false, apperrors.ErrStudentNotFound
	}
	f.writes++
	s.IsActive = !s.IsActive
	return s.IsActive, nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id int64) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	f.writes++
	delete(f.rows, id)
	return s.PhotoPath, nil
}

func (f *fakeStudentStore) put(s *models.Student) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.rows[s.ID] = &cp
	return s
}

type fakeCodeStore struct {
	mu       sync.Mutex
	counters map[int]int
}

func (f *fakeCodeStore) Reserve(_ context.Context, policy admission.Policy, year int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.counters[year] + 1
	code, err := policy.Code(year, seq)
	if err != nil {
		return "", err
	}
	f.counters[year] = seq
	return code, nil
}

type fakeFeeStore struct {
	mu      sync.Mutex
	rows    map[string]*models.Fee
	upserts int
}

func newFakeFeeStore() *fakeFeeStore {
	return &fakeFeeStore{rows: map[string]*models.Fee{}}
}

func (f *fakeFeeStore) Upsert(_ context.Context, fee *models.Fee) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	_, exists := f.rows[fee.FeeID]
	cp := *fee
	f.rows[fee.FeeID] = &cp
	return !exists, nil
}

func (f *fakeFeeStore) GetByID(_ context.Context, feeID string) (*models.Fee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fee, ok := f.rows[feeID]
	if !ok {
		return nil, apperrors.ErrFeeNotFound
	}
	cp := *fee
	return &cp, nil
}

func (f *fakeFeeStore) MarkPaid(_ context.Context, feeID string) (*models.Fee, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fee, ok := f.rows[feeID]
	if !ok {
		return nil, false, apperrors.ErrFeeNotFound
	}
	changed := fee.Status != models.FeePaid
	fee.Status = models.FeePaid
	cp := *fee
	return &cp, changed, nil
}

func (f *fakeFeeStore) List(_ context.Context, filter models.FeeFilter) ([]*models.Fee, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Fee
	for _, fee := range f.rows {
		if filter.StudentName != "" && !strings.EqualFold(fee.StudentName, filter.StudentName) {
			continue
		}
		if filter.Status != "" && fee.Status != filter.Status {
			continue
		}
		cp := *fee
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeeID < out[j].FeeID })
	return out, int64(len(out)), nil
}

type fakeUserStore struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]*models.User
	toggleErr error
	writes    int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = testNow
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByLogin(_ context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, login) || strings.EqualFold(u.Username, login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context, _ models.UserFilter) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.rows {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.rows[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	f.writes++
	cp := *u
	if cp.PasswordHash == "" {
		cp.PasswordHash = old.PasswordHash
	}
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.writes++
	delete(f.rows, id)
	return nil
}

func (f *fakeUserStore) ToggleStatus(_ context.Context, id int64) (models.ActiveStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return "", f.toggleErr
	}
	u, ok := f.rows[id]
	if !ok {
		return "", apperrors.ErrUserNotFound
	}
	f.writes++
	u.Status = u.Status.Toggle()
	return u.Status, nil
}

type fakeInstituteStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Institute
}

func newFakeInstituteStore() *fakeInstituteStore {
	return &fakeInstituteStore{rows: map[int64]*models.Institute{}}
}

func (f *fakeInstituteStore) Create(_ context.Context, inst *models.Institute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if strings.EqualFold(existing.Name, inst.Name) {
			return apperrors.ErrInstituteAlreadyExists
		}
	}
	f.nextID++
	inst.ID = f.nextID
	cp := *inst
	f.rows[inst.ID] = &cp
	return nil
}

func (f *fakeInstituteStore) GetByID(_ context.Context, id int64) (*models.Institute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrInstituteNotFound
	}
	cp := *inst
	return &cp, nil
}

func (f *fakeInstituteStore) List(_ context.Context, activeOnly bool) ([]*models.Institute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Institute
	for _, inst := range f.rows {
		if activeOnly && inst.Status != models.StatusActive {
			continue
		}
		cp := *inst
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeInstituteStore) Update(_ context.Context, inst *models.Institute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[inst.ID]; !ok {
		return apperrors.ErrInstituteNotFound
	}
	for id, existing := range f.rows {
		if id != inst.ID && strings.EqualFold(existing.Name, inst.Name) {
			return apperrors.ErrInstituteAlreadyExists
		}
	}
	cp := *inst
	f.rows[inst.ID] = &cp
	return nil
}

func (f *fakeInstituteStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrInstituteNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeInstituteStore) ToggleStatus(_ context.Context, id int64) (models.ActiveStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst, ok := f.rows[id]
	if !ok {
		return "", apperrors.ErrInstituteNotFound
	}
	inst.Status = inst.Status.Toggle()
	return inst.Status, nil
}

type fakeInquiryStore struct {
	mu        sync.Mutex
	rows      []*models.Inquiry
	createErr error
}

func (f *fakeInquiryStore) Create(_ context.Context, inq *models.Inquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	inq.ID = int64(len(f.rows) + 1)
	inq.CreatedAt = testNow
	cp := *inq
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeInquiryStore) List(_ context.Context, role models.InquiryRole, _ uint64, _ int) ([]*models.Inquiry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Inquiry
	for _, inq := range f.rows {
		if role == "" || inq.Role == role {
			out = append(out, inq)
		}
	}
	return out, int64(len(out)), nil
}

type fakeFileStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeFileStore) SaveFileWithPath(fh *multipart.FileHeader, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	stored := path + "/" + fh.Filename
	f.saved = append(f.saved, stored)
	return stored, nil
}

func (f *fakeFileStore) DeleteFile(filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, filePath)
	return nil
}
